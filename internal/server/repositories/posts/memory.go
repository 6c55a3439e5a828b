package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Post
	keys  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]*models.Post),
		keys:  make(map[string]string),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func clone(p *models.Post) *models.Post {
	c := *p
	c.PostedAt = copyTime(p.PostedAt)
	c.ArchivedAt = copyTime(p.ArchivedAt)
	c.DeletedAt = copyTime(p.DeletedAt)
	c.LastMetricsUpdateAt = copyTime(p.LastMetricsUpdateAt)
	return &c
}

func postedAt(p *models.Post) time.Time {
	if p.PostedAt != nil {
		return *p.PostedAt
	}
	return time.Time{}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.IdempotencyKey != "" {
		if _, ok := r.keys[p.IdempotencyKey]; ok {
			return common.ErrAlreadyExists
		}
		r.keys[p.IdempotencyKey] = p.ID
	}
	r.items[p.ID] = clone(p)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.keys[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.items[id]), nil
}

func (r *MemoryRepository) filter(match func(*models.Post) bool) []*models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Post, 0)
	for _, p := range r.items {
		if match(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

func (r *MemoryRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]*models.Post, error) {
	out := r.filter(func(p *models.Post) bool { return p.VehicleID == vehicleID })
	sort.Slice(out, func(i, j int) bool {
		pi, pj := postedAt(out[i]), postedAt(out[j])
		if pi.Equal(pj) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return pi.After(pj)
	})
	return out, nil
}

func (r *MemoryRepository) ListByDealer(ctx context.Context, dealerID string, platform models.Platform) ([]*models.Post, error) {
	out := r.filter(func(p *models.Post) bool {
		return p.DealerID == dealerID && (platform == "" || p.Platform == platform)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) ListActive(ctx context.Context, dealerID string) ([]*models.Post, error) {
	out := r.filter(func(p *models.Post) bool { return p.DealerID == dealerID && p.Active() })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) update(id string, fn func(p *models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(p)
	return nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status models.PostStatus, at time.Time) error {
	return r.update(id, func(p *models.Post) {
		p.Status = status
		switch status {
		case models.PostArchived:
			p.ArchivedAt = &at
		case models.PostDeleted:
			p.DeletedAt = &at
		}
	})
}

func (r *MemoryRepository) UpdateMetrics(ctx context.Context, id string, m models.PostMetrics, at time.Time) error {
	return r.update(id, func(p *models.Post) {
		p.Impressions = m.Impressions
		p.Clicks = m.Clicks
		p.Leads = m.Leads
		p.Conversions = m.Conversions
		p.LastMetricsUpdateAt = &at
	})
}

func (r *MemoryRepository) RecordError(ctx context.Context, id string, msg string) error {
	return r.update(id, func(p *models.Post) {
		p.Status = models.PostFailed
		p.ErrorMessage = msg
	})
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return false, nil
	}
	if p.IdempotencyKey != "" {
		delete(r.keys, p.IdempotencyKey)
	}
	delete(r.items, id)
	return true, nil
}
