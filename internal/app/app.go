package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/jumak-backend/internal/data/db"
	"github.com/yungbote/jumak-backend/internal/data/repos"
	"github.com/yungbote/jumak-backend/internal/http"
	"github.com/yungbote/jumak-backend/internal/observability"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    repos.Set
	Services Services
	Clients  Clients

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	pg, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := repos.NewSet(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)

	sqlDB, err := theDB.DB()
	if err != nil {
		clients.Close()
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, clients, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully within Cfg.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", addr)
		return a.Server.Run(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("Shutting down server")
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil && a.Log != nil {
			a.Log.Warn("postgres close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
