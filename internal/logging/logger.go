// Package logging is the structured logger every Shiftly component takes.
//
// Components derive a child with their name under KeyModule, and work that
// belongs to one sync carries KeyCorrelationID so concurrent syncs can be
// told apart. Secrets are never passed as plain strings: credential bags
// implement slog.LogValuer and render as a redaction marker.
package logging

import "context"

const (
	KeyModule        = "module"
	KeyCorrelationID = "correlation_id"
)

// Logger is a context-aware, structured logger. args are key-value pairs:
//
//	log.Info(ctx, "sync completed", logging.KeyCorrelationID, id, "imported", n)
type Logger interface {
	// Debug carries per-item steps, e.g. each vehicle upserted by a sync.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for failures the caller recovers from, such as one vehicle of
	// a batch or a best-effort snapshot.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that always includes args.
	With(args ...any) Logger
}

// ForModule tags l with the component name.
func ForModule(l Logger, name string) Logger {
	return l.With(KeyModule, name)
}
