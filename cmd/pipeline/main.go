package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lantern/etl-core/internal/app"
	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/infrastructure/telemetry/metrics"
	"lantern/etl-core/internal/infrastructure/telemetry/tracer"
	"lantern/etl-core/internal/infrastructure/validator"
)

func main() {
	// ----- Load config -----
	globalCfgPath := "config/config.yaml"
	globalCfg := config.InitGlobalConfig(globalCfgPath)

	projectCfgPath := os.Getenv("LANTERN_PROJECT_CONFIG")
	if projectCfgPath != "" {
		globalCfg = config.LoadProjectConfig(projectCfgPath)
	}
	// ----- Load config -----

	// ----- Initialize validator -----
	val := validator.NewPlaygroundValidator()
	// ----- Initialize validator -----

	// ----- Initialize global logger -----
	log := logger.New(globalCfg, nil)
	appLogger := log.WithFields(map[string]any{
		"service": globalCfg.App.Name,
		"version": globalCfg.App.Version,
		"env":     globalCfg.App.Env,
		"domain":  "main",
	})
	// ----- Initialize global logger -----

	// ----- Initialize metrics -----
	metrics, err := metrics.New(
		&globalCfg.Telemetry,
		globalCfg.App.Env,
	)
	if err != nil {
		panic(err)
	}
	defer metrics.Close()
	// ----- Initialize metrics -----

	// ----- Initialize tracer -----
	tracer, err := tracer.New(
		&globalCfg.Telemetry,
		globalCfg.App.Env,
	)
	if err != nil {
		panic(err)
	}
	defer tracer.Close()
	// ----- Initialize tracer -----

	l := appLogger.WithField("component", "app")
	l.Info("Pipeline starting")

	if globalCfg.Telemetry.Enabled {
		l.Info(fmt.Sprintf("Telemetry config: metrics=%s, tracer=%s, sample_rate=%f",
			globalCfg.Telemetry.MetricsAddress,
			globalCfg.Telemetry.TracerAddress,
			globalCfg.Telemetry.SampleRate))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootstrap := app.BootstrapPipelineConfig{
		Config:      globalCfg,
		Log:         appLogger,
		Val:         val,
		Tracer:      tracer,
		Metrics:     metrics,
		FixturePath: os.Getenv("LANTERN_FIXTURES"),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-quit
		l.Warn("Interrupt received, draining pipeline")
		cancel()
	}()

	err = bootstrap.Run(runCtx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	bootstrap.Stop(stopCtx)

	if err != nil {
		l.WithFields(map[string]any{
			"error_detail": err.Error(),
		}).Error("Pipeline run failed")
		os.Exit(1)
	}
}
