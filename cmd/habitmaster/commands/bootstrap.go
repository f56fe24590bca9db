package commands

import (
	"context"
	"fmt"

	"github.com/habitmaster/core/internal/adapters/repository"
	"github.com/habitmaster/core/internal/application/services"
	"github.com/habitmaster/core/internal/infrastructure/config"
	"github.com/habitmaster/core/internal/infrastructure/datafile"
	"github.com/habitmaster/core/internal/infrastructure/logger"
	"github.com/habitmaster/core/internal/infrastructure/metrics"
	"github.com/habitmaster/core/internal/ports"
)

// bootstrap loads configuration and wires the habit service. Metrics are
// collected only for the long-running server.
func bootstrap(ctx context.Context, opts *Options, withMetrics bool) (*app, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.DataFile != "" {
		cfg.Storage.Path = opts.DataFile
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	file, err := datafile.New(cfg.Storage)
	if err != nil {
		appLogger.Close()
		return nil, err
	}

	var (
		m        *metrics.Metrics
		recorder ports.HabitMetrics
	)
	if withMetrics && cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	validate := services.NewValidator()
	repo := repository.NewHabitRepository(file, appLogger)
	habits, err := services.NewHabitService(ctx, repo, validate, services.SystemClock, recorder, appLogger)
	if err != nil {
		appLogger.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   appLogger,
		file:     file,
		habits:   habits,
		metrics:  m,
		validate: validate,
	}, nil
}
