package item

import (
	"context"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/session"
)

// Runtime is the read-only view of the manager that observations, observers
// and adapters receive. It is a back reference: holders never mutate manager
// state through it.
type Runtime interface {
	// Sessions returns the frozen session registry.
	Sessions() *session.Registry

	// Settings returns the immutable configuration of the run.
	Settings() *config.Config
}

// Observation is a request to extract one unit of external data. Variants are
// polymorphic over transport (HTTP, rendered HTTP, file, SQL).
type Observation interface {
	// URL is the opaque identifier of the unit: a web URL, a file path, or a
	// session name for SQL reads.
	URL() string

	// Hash is the deterministic identity of the observation. Two observations
	// with equal hashes fetch at most once per run.
	Hash() uint64

	// Observe reads the source and applies the bound callback to the
	// response. A nil Result means the fetch failed; the manager records the
	// URL as not-observed and moves on.
	Observe(ctx context.Context, rt Runtime) Result
}

// AllowListed is implemented by observation variants that restrict which URLs
// they may fetch. The router drops not-allowed observations silently, before
// the seen set is touched.
type AllowListed interface {
	Allowed() bool
}
