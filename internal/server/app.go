// Package server wires storage, the credential vault, the sync engine, the
// job broker with its processors, and the gRPC and HTTP endpoints into one
// process, and runs them until a signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/cryptox"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/adapters"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/config"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/httpapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/platforms"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/processors"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/repomanager"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/grpc"
)

const platformRequestTimeout = 30 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	dispatcher *queue.Dispatcher
	grpc       *gs.GRPCServer
	http       *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger := logging.New(out, c.LogFormat, c.LogLevel)

	vault, err := cryptox.NewVault(c.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("vault init error: %w", err)
	}

	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	connections := services.NewConnectionRegistry(rm.Connections(), vault, logger)
	inventory := services.NewInventoryStore(rm.Vehicles())
	syncLogs := services.NewSyncLogStore(rm.SyncLogs())

	feeds := adapters.NewDefaultRegistry(adapters.FeedOptions{
		CazooBaseURL:      c.CazooBaseURL,
		AutotraderBaseURL: c.AutotraderBaseURL,
	})
	engine := services.NewSyncEngine(connections, inventory, syncLogs, feeds, logger)
	if c.ArchiveSnapshots {
		engine.SetArchiver(services.NewS3Archiver(c, logger))
	}

	broker := queue.NewBroker(rm.Jobs(), logger, queue.WithAnalyticsInterval(c.AnalyticsInterval))
	scheduler := services.NewScheduler(inventory, broker, c.Location(), logger)

	proc := processors.New(processors.Deps{
		Inventory:   inventory,
		Listings:    services.NewListingStore(rm.Listings()),
		Connections: connections,
		Ledger:      services.NewPostLedger(rm.Posts(), logger),
		Scheduler:   scheduler,
		Posters:     posters(c),
		Broker:      broker,
	}, logger)

	dispatcher := queue.NewDispatcher(broker, c.WorkerPollInterval, logger)
	proc.Register(dispatcher)

	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Connections: connections,
		Inventory:   inventory,
		Sync:        engine,
		SyncLogs:    syncLogs,
		Scheduler:   scheduler,
		Broker:      broker,
	}, c.SecretKey)

	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, httpapi.NewHandler(httpapi.Deps{Broker: broker, Log: logger}), logger)

	return &App{
		config:     c,
		logger:     logger,
		repos:      rm,
		dispatcher: dispatcher,
		grpc:       grpcServer,
		http:       httpServer,
	}, nil
}

// posters picks live or offline posters. Craigslist has no API and is
// always offline.
func posters(c *config.Config) *platforms.Registry {
	r := platforms.NewRegistry(platforms.NewOfflinePoster(models.PlatformCraigslist))
	if c.PlatformsOffline {
		r.Register(platforms.NewOfflinePoster(models.PlatformFacebook))
	} else {
		r.Register(platforms.NewFacebookPoster(c.FacebookAPIBaseURL, &http.Client{Timeout: platformRequestTimeout}))
	}
	return r
}

// Run blocks until ctx is cancelled, a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "close storage failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	if err := app.dispatcher.Start(gctx); err != nil {
		return err
	}
	defer app.dispatcher.Stop()

	g.Go(func() error { return app.grpc.Run(gctx) })
	g.Go(func() error { return app.http.Run(gctx) })

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
