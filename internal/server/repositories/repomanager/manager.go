package repomanager

import (
	"context"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/connections"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/listings"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/posts"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/synclogs"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/vehicles"
)

// RepositoryManager vends every repository over one storage backend.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Connections() connections.Repository
	Vehicles() vehicles.Repository
	SyncLogs() synclogs.Repository
	Posts() posts.Repository
	Listings() listings.Repository
	Jobs() jobs.Repository
	Close() error
}

// New selects the backend: an empty DSN gives in-memory repositories,
// anything else is treated as a Postgres DSN and migrated.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}

	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}
