package config

import (
	"fmt"

	"lantern/etl-core/internal/infrastructure/validator"
	"lantern/etl-core/internal/pkg/apperror"
)

// Validate checks the settings the pipeline cannot run without. Violations
// are configuration errors: fatal before any worker starts.
func Validate(cfg *Config, val validator.Validator) error {
	if err := val.Validate(&cfg.Pipeline); err != nil {
		return apperror.NewInternal(
			apperror.CodePipelineConfig,
			"invalid pipeline configuration",
			err,
		).AddValidationErrors(val.ToDetails(err))
	}
	if err := val.Validate(&cfg.Observation); err != nil {
		return apperror.NewInternal(
			apperror.CodePipelineConfig,
			"invalid observation configuration",
			err,
		).AddValidationErrors(val.ToDetails(err))
	}
	if cfg.Observation.Renderer.Port < 0 || cfg.Observation.Renderer.Port > 65535 {
		return apperror.NewInternal(
			apperror.CodePipelineConfig,
			fmt.Sprintf("renderer port %d out of range", cfg.Observation.Renderer.Port),
		)
	}
	return nil
}
