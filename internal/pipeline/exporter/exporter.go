// Package exporter implements the load stage: writers that take one batch to
// a named sink through a session borrowed from the registry. Each exporter is
// a single transaction with a single sink; failed exporters are dropped, not
// retried.
package exporter

import (
	"fmt"

	"lantern/etl-core/internal/pkg/apperror"
)

// wrongSession builds the error returned when a registry entry is not the
// session kind the exporter expects.
func wrongSession(name, want string) error {
	return apperror.NewInternal(
		apperror.CodeExportFailed,
		fmt.Sprintf("session %q is not a %s session", name, want),
	)
}
