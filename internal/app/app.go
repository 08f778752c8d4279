// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/AccelByte/extend-review-prompt/internal/bootstrap"
	"github.com/AccelByte/extend-review-prompt/internal/config"
	"github.com/AccelByte/extend-review-prompt/internal/server"
	"github.com/AccelByte/extend-review-prompt/pkg/clock"
	"github.com/AccelByte/extend-review-prompt/pkg/common"
	"github.com/AccelByte/extend-review-prompt/pkg/lifecycle"
	"github.com/AccelByte/extend-review-prompt/pkg/metrics"
	"github.com/AccelByte/extend-review-prompt/pkg/review"
	"github.com/AccelByte/extend-review-prompt/pkg/storage"

	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	in                io.Reader
	out               *syncWriter
	backend           *storage.Backend
	bus               *lifecycle.Bus
	engine            *review.Engine
	handler           *Handler
	recorder          *metrics.Recorder
	metricsServer     *server.MetricsServer
	shutdownTelemetry func(context.Context) error

	// handleMu is held while a command runs.
	handleMu sync.Mutex
}

// New creates and initializes a new application instance. Commands are read
// from in; prompts and responses are written to out.
//
// Components are initialized in dependency order:
// 1. Telemetry, so startup is traced
// 2. Storage backend
// 3. Lifecycle bus and metrics recorder
// 4. Shared review engine (counts this launch)
// 5. Metrics server
func New(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{
		cfg: cfg,
		in:  in,
		out: &syncWriter{w: out},
	}

	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, common.TracerConfig{
			ServiceName:    cfg.ServiceName,
			Environment:    cfg.Environment,
			ZipkinEndpoint: cfg.ZipkinEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	backend, err := bootstrap.InitStorage(ctx, cfg)
	if err != nil {
		app.Shutdown(ctx)
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	app.backend = backend

	app.bus = lifecycle.NewBus(context.Background(), lifecycle.DefaultBufferSize)
	app.recorder = metrics.NewRecorder()

	app.engine = bootstrap.InitEngine(ctx, cfg, bootstrap.EngineDeps{
		Store:    backend.Store,
		Events:   app.bus,
		Observer: app.recorder,
		Out:      app.out,
	})
	app.handler = NewHandler(app.engine, app.bus, review.RequestReview, clock.System{}, app.out)

	if cfg.MetricsEnabled {
		metricsServer := server.NewMetricsServer(cfg.MetricsPort, "/metrics",
			backend.Health.Check, app.recorder.Collectors()...)
		if err := metricsServer.Setup(); err != nil {
			app.Shutdown(ctx)
			return nil, fmt.Errorf("failed to setup metrics server: %w", err)
		}
		app.metricsServer = metricsServer
	}

	logrus.Info("application initialized successfully")
	return app, nil
}

// Engine returns the review engine served by the app.
func (a *App) Engine() *review.Engine {
	return a.engine
}
