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

// MemoryRepositoryManager keeps everything in process memory. Used for
// development and tests; state is lost on restart.
type MemoryRepositoryManager struct {
	connections *connections.MemoryRepository
	vehicles    *vehicles.MemoryRepository
	syncLogs    *synclogs.MemoryRepository
	posts       *posts.MemoryRepository
	listings    *listings.MemoryRepository
	jobs        *jobs.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		connections: connections.NewMemoryRepository(),
		vehicles:    vehicles.NewMemoryRepository(),
		syncLogs:    synclogs.NewMemoryRepository(),
		posts:       posts.NewMemoryRepository(),
		listings:    listings.NewMemoryRepository(),
		jobs:        jobs.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Connections() connections.Repository { return m.connections }
func (m *MemoryRepositoryManager) Vehicles() vehicles.Repository       { return m.vehicles }
func (m *MemoryRepositoryManager) SyncLogs() synclogs.Repository       { return m.syncLogs }
func (m *MemoryRepositoryManager) Posts() posts.Repository             { return m.posts }
func (m *MemoryRepositoryManager) Listings() listings.Repository       { return m.listings }
func (m *MemoryRepositoryManager) Jobs() jobs.Repository               { return m.jobs }

func (m *MemoryRepositoryManager) Close() error { return nil }
