// Package session holds the registry of named sink/source handles used by
// exporters and SQL observations. The registry is assembled during bootstrap,
// frozen for the duration of a pipeline run, and released after termination.
package session

import (
	"context"
	"fmt"

	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pkg/apperror"
)

// Session is a live connection or client owned by the registry. Exporters and
// observations borrow the handle for the duration of a single call; the
// registry releases it after the run.
type Session interface {
	// Release closes the underlying connection. Called exactly once by the
	// registry during shutdown.
	Release(ctx context.Context) error
}

// Registry maps logical sink/source names to live sessions. It is read-only
// between Freeze and Release; registration after Freeze is a programming
// error.
type Registry struct {
	sessions map[string]Session
	frozen   bool
	log      logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		log:      log.WithField("component", "sessions"),
	}
}

// Register binds a session handle to a logical name. Returns an error if the
// registry is frozen or the name is already taken.
func (r *Registry) Register(name string, s Session) error {
	if r.frozen {
		return apperror.NewInternal(
			apperror.CodePipelineConfig,
			fmt.Sprintf("registry is frozen, cannot register session %q", name),
		)
	}
	if _, ok := r.sessions[name]; ok {
		return apperror.NewInternal(
			apperror.CodePipelineConfig,
			fmt.Sprintf("session %q already registered", name),
		)
	}
	r.sessions[name] = s
	return nil
}

// Freeze marks the registry read-only. Called by the manager before workers
// start.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Get returns the session bound to name, or an error carrying the
// SESSION_MISSING code when the name is unknown.
func (r *Registry) Get(name string) (Session, error) {
	s, ok := r.sessions[name]
	if !ok {
		return nil, apperror.NewInternal(
			apperror.CodeSessionMissing,
			fmt.Sprintf("no session registered under %q", name),
		)
	}
	return s, nil
}

// Names returns the registered session names, for logging and the run report.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	return names
}

// Release closes every session. Errors are logged, not returned per-session;
// the last error wins so the caller can still signal a dirty shutdown.
func (r *Registry) Release(ctx context.Context) error {
	var last error
	for name, s := range r.sessions {
		if err := s.Release(ctx); err != nil {
			r.log.WithFields(map[string]any{
				"session":      name,
				"error_detail": err.Error(),
			}).Error("Failed to release session")
			last = err
			continue
		}
		r.log.WithField("session", name).Info("Session released")
	}
	return last
}
