package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/executor"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger          *slog.Logger
	config          *config.Model
	graph           *asset.Graph
	store           warehouse.Store
	exec            *executor.Executor
	healthcheckPort int

	// runMu keeps runs against the warehouse sequential.
	runMu sync.Mutex
}

// NewApp loads the configuration, builds the logger writing to logW, opens
// the warehouse and assembles the asset graph. The caller must Close the App.
func NewApp(ctx context.Context, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	cfg, err := loadConfig(ctx, appConfig, loader)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	graph, err := buildGraph(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset graph: %w", err)
	}
	logger.Debug("Asset graph built.", "assets", len(graph.Assets()))

	store, err := openStore(ctx, cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	return &App{
		logger:          logger,
		config:          cfg,
		graph:           graph,
		store:           store,
		exec:            executor.New(graph, cfg.Workers),
		healthcheckPort: appConfig.HealthcheckPort,
	}, nil
}

// loadConfig reads the configuration files, if any, and applies the
// command-line overrides.
func loadConfig(ctx context.Context, appConfig *Config, loader config.Loader) (*config.Model, error) {
	cfg := config.Default()
	if len(appConfig.ConfigPaths) > 0 {
		loaded, err := loader.Load(ctx, appConfig.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	if appConfig.LogLevel != "" {
		cfg.Log.Level = appConfig.LogLevel
	}
	if appConfig.LogFormat != "" {
		cfg.Log.Format = appConfig.LogFormat
	}
	if appConfig.WorkerCount > 0 {
		cfg.Workers = appConfig.WorkerCount
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Config returns the effective configuration.
func (a *App) Config() *config.Model {
	return a.config
}

// Assets returns the registered assets in registration order.
func (a *App) Assets() []*asset.Asset {
	return a.graph.Assets()
}

// Jobs returns the configured jobs in declaration order.
func (a *App) Jobs() []*config.Job {
	return a.config.Jobs
}

// Close releases the warehouse.
func (a *App) Close() error {
	a.logger.Debug("Closing warehouse.")
	return a.store.Close()
}
