package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/connections"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/vehicles"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestPostgresManager_SatisfiesInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager(db)

	if _, ok := m.Connections().(*connections.PostgresRepository); !ok {
		t.Fatal("Connections() is not the Postgres repository")
	}
	if _, ok := m.Vehicles().(*vehicles.PostgresRepository); !ok {
		t.Fatal("Vehicles() is not the Postgres repository")
	}
	if _, ok := m.Jobs().(*jobs.PostgresRepository); !ok {
		t.Fatal("Jobs() is not the Postgres repository")
	}
	if m.SyncLogs() == nil || m.Posts() == nil || m.Listings() == nil {
		t.Fatal("nil repository")
	}
}

func TestMemoryManager_SharesState(t *testing.T) {
	var m RepositoryManager = NewMemoryRepositoryManager()

	if m.Vehicles() != m.Vehicles() {
		t.Fatal("memory manager must return the same store on every call")
	}
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNew_EmptyDSNIsMemory(t *testing.T) {
	m, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*MemoryRepositoryManager); !ok {
		t.Fatalf("expected memory manager, got %T", m)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	if err := NewPostgresRepositoryManager(db).RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	if err := NewPostgresRepositoryManager(db).RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
