package catalog

import (
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline"
)

type ModuleConfig struct {
	Context *pipeline.Context
	Log     logger.Logger

	// StartURL roots the crawl; SQLSession and TSSession name the sinks the
	// adapter writes to.
	StartURL   string
	SQLSession string
	TSSession  string
}

// RegisterModule appends the catalog observer and adapter factories to the
// pipeline context. Registration is explicit: the core never discovers
// anything.
func RegisterModule(cfg ModuleConfig) {
	cfg.Context.Observers = append(cfg.Context.Observers, NewPageObserver(cfg.StartURL))
	cfg.Context.Adapters = append(cfg.Context.Adapters, NewPageAdapter(cfg.SQLSession, cfg.TSSession))

	cfg.Log.WithFields(map[string]any{
		"module":    "catalog",
		"start_url": cfg.StartURL,
	}).Info("Module registered")
}
