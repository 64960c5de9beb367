// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/config"
	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/logging"
	"github.com/redson/jobradar/internal/reconcile"
	"github.com/redson/jobradar/internal/storage/csvfile"
	"github.com/redson/jobradar/internal/storage/memory"
	"github.com/redson/jobradar/internal/storage/postgres"
)

// App holds all the shared, long-lived services for the application.
// It is initialized once at startup and passed to the commands that need it.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	store  jobs.Store
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Store exposes the configured record store.
func (a *App) Store() jobs.Store {
	return a.store
}

// EnrichableStore returns the store if the configured backend supports
// enrichment and cleanup. The flat-file backend does not.
func (a *App) EnrichableStore() (jobs.EnrichableStore, error) {
	es, ok := a.store.(jobs.EnrichableStore)
	if !ok {
		return nil, fmt.Errorf("storage backend %q does not support this operation", a.cfg.Storage.Type)
	}
	return es, nil
}

// New creates and initializes an App from the given configuration.
// It is the central point for service initialization and fails fast if
// any service cannot be constructed.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	engine := reconcile.NewEngine(logger)

	var store jobs.Store
	switch cfg.Storage.Type {
	case "csv":
		logger.Info("using csv store", zap.String("path", cfg.Storage.CSV.Path))
		store = csvfile.New(cfg.Storage.CSV.Path, engine, logger)
	case "postgres":
		logger.Info("connecting to postgres",
			zap.String("host", cfg.Storage.Postgres.Host),
			zap.String("database", cfg.Storage.Postgres.Database))
		pg, err := postgres.NewStore(ctx, postgres.StoreConfig{
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			Database: cfg.Storage.Postgres.Database,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
			Table:    cfg.Storage.Postgres.Table,
			MaxConns: int32(cfg.Storage.Postgres.MaxConns),
		}, engine, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		store = pg
	case "memory":
		logger.Info("using in-memory store; records are discarded on exit")
		store = memory.New(engine, logger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}

	return &App{cfg: cfg, logger: logger, store: store}, nil
}

// Close gracefully shuts down all services held by the App.
func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("error closing store", zap.Error(err))
	}
	// Best-effort flush; stderr sync failures are expected on some platforms.
	_ = a.logger.Sync()
}
