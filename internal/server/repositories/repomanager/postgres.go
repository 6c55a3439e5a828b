// Package repomanager wires repository implementations to a storage backend
// and runs the Postgres schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/migrations"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/connections"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/listings"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/posts"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/synclogs"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/vehicles"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one pool.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// OpenPostgres opens a pgx-backed pool and verifies it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

func (m *PostgresRepositoryManager) Connections() connections.Repository {
	return connections.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Vehicles() vehicles.Repository {
	return vehicles.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) SyncLogs() synclogs.Repository {
	return synclogs.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Posts() posts.Repository {
	return posts.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Listings() listings.Repository {
	return listings.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Jobs() jobs.Repository {
	return jobs.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
