package item

import (
	"context"

	"lantern/etl-core/internal/session"
)

// Exporter is a request to write one record or batch to a named sink. Each
// exporter is responsible for a single transaction with a single sink.
type Exporter interface {
	// Name selects the session handle from the registry.
	Name() string

	// Identity is a stable key for the exported set, so duplicate dispatches
	// of the same exporter are counted once.
	Identity() string

	// Export writes the payload through the borrowed session handle. The
	// session is owned by the registry; implementations must not close it.
	Export(ctx context.Context, s session.Session) error
}
