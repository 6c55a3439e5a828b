package adapters

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// Registry maps provider types to adapters. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[models.ProviderType]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[models.ProviderType]Adapter)}
}

// Register adds or replaces the adapter for a.ProviderType().
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.ProviderType()] = a
}

// Get returns the adapter for t or common.ErrUnsupportedProvider.
func (r *Registry) Get(t models.ProviderType) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedProvider, t)
	}
	return a, nil
}

// Supports reports whether a provider type has an adapter.
func (r *Registry) Supports(t models.ProviderType) bool {
	_, err := r.Get(t)
	return err == nil
}

// FeedOptions configures the HTTP feed adapters.
type FeedOptions struct {
	CazooBaseURL      string
	AutotraderBaseURL string
	Client            *http.Client
}

const defaultRequestTimeout = 30 * time.Second

// NewDefaultRegistry registers the offline mock adapter and the HTTP feed
// adapters for every supported provider.
func NewDefaultRegistry(opts FeedOptions) *Registry {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	r := NewRegistry()
	r.Register(NewMockAdapter())
	r.Register(NewCazooAdapter(opts.CazooBaseURL, client))
	r.Register(NewAutotraderAdapter(opts.AutotraderBaseURL, client))
	return r
}
