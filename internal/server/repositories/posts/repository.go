// Package posts is the post ledger store.
package posts

import (
	"context"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrAlreadyExists when the idempotency key is taken.
	Create(ctx context.Context, p *models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Post, error)
	// ListByVehicle returns the most recently posted first.
	ListByVehicle(ctx context.Context, vehicleID string) ([]*models.Post, error)
	ListByDealer(ctx context.Context, dealerID string, platform models.Platform) ([]*models.Post, error)
	ListActive(ctx context.Context, dealerID string) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id string, status models.PostStatus, at time.Time) error
	UpdateMetrics(ctx context.Context, id string, m models.PostMetrics, at time.Time) error
	RecordError(ctx context.Context, id string, msg string) error
	Delete(ctx context.Context, id string) (bool, error)
}
