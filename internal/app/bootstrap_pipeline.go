package app

import (
	"context"

	"lantern/etl-core/internal/infrastructure/config"
	database "lantern/etl-core/internal/infrastructure/db"
	server "lantern/etl-core/internal/infrastructure/http"
	"lantern/etl-core/internal/infrastructure/http/middleware"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/infrastructure/telemetry/metrics"
	"lantern/etl-core/internal/infrastructure/telemetry/tracer"
	"lantern/etl-core/internal/infrastructure/validator"
	"lantern/etl-core/internal/modules/catalog"
	"lantern/etl-core/internal/pipeline"
	"lantern/etl-core/internal/session"
)

// Session names the example project binds its sinks to.
const (
	SessionMain    = "main"
	SessionMetrics = "metrics"
)

// catalogStartURL roots the example crawl. Projects replace the module
// registration below with their own observers and adapters.
const catalogStartURL = "https://books.toscrape.com/"

// BootstrapPipelineConfig wires sessions, modules and the manager for one
// pipeline run. Run blocks until the pipeline reaches quiescence.
type BootstrapPipelineConfig struct {
	Config  *config.Config
	Log     logger.Logger
	Val     validator.Validator
	Tracer  tracer.Tracer
	Metrics metrics.Metrics

	FixturePath string

	sessions *session.Registry
	manager  *pipeline.Manager
	status   *server.Server
}

// Run assembles the Context and drives the pipeline to completion.
func (b *BootstrapPipelineConfig) Run(ctx context.Context) error {
	if err := config.Validate(b.Config, b.Val); err != nil {
		return err
	}

	if err := b.setupSessions(ctx); err != nil {
		return err
	}

	pctx := pipeline.Context{
		Sessions: b.sessions,
		Settings: b.Config,
	}
	b.setupModules(&pctx)

	manager, err := pipeline.NewManager(pctx, b.Log, b.Metrics, b.Tracer)
	if err != nil {
		return err
	}
	b.manager = manager

	b.startStatusServer()

	return manager.RunObserve(ctx)
}

// Stop shuts the status server down. Sessions are released by the manager at
// the end of the run; a bootstrap that failed before handing them over
// releases them here.
func (b *BootstrapPipelineConfig) Stop(ctx context.Context) {
	if b.status != nil {
		if err := b.status.Stop(ctx); err != nil {
			b.Log.WithFields(map[string]any{
				"error_detail": err.Error(),
			}).Error("Status server forced to shutdown")
		}
	}
	if b.manager == nil && b.sessions != nil {
		_ = b.sessions.Release(ctx)
	}
}

func (b *BootstrapPipelineConfig) setupSessions(ctx context.Context) error {
	b.sessions = session.NewRegistry(b.Log)

	db := database.NewDatabase(&b.Config.Database, b.Log, b.Tracer)
	if err := b.sessions.Register(SessionMain, &session.SQL{DB: db}); err != nil {
		return err
	}

	ts := database.NewRedisTimeSeries(&b.Config.Redis, b.Log)
	if err := b.sessions.Register(SessionMetrics, &session.TimeSeries{TS: ts}); err != nil {
		return err
	}

	if b.FixturePath != "" {
		if err := database.LoadFixtures(ctx, db, b.FixturePath); err != nil {
			return err
		}
		b.Log.WithField("path", b.FixturePath).Info("Fixtures loaded")
	}

	return nil
}

func (b *BootstrapPipelineConfig) setupModules(pctx *pipeline.Context) {
	catalog.RegisterModule(catalog.ModuleConfig{
		Context:    pctx,
		Log:        b.Log,
		StartURL:   catalogStartURL,
		SQLSession: SessionMain,
		TSSession:  SessionMetrics,
	})
}

func (b *BootstrapPipelineConfig) startStatusServer() {
	if b.Config.Http.Port <= 0 {
		return
	}

	b.status = server.NewServer(b.Config, b.Log)
	b.status.App.Use(middleware.RequestID())
	b.status.SetupStatusRoutes(b.manager)

	go func() {
		if err := b.status.Start(); err != nil {
			b.Log.WithFields(map[string]any{
				"error_detail": err.Error(),
			}).Error("failed to start status server")
		}
	}()
}
