package exporter

import (
	"context"

	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/pkg/uid"
	"lantern/etl-core/internal/session"
)

// SQLExporter writes one or more models to a relational session. The write
// opens a transaction, adds every model, and commits; a failing model rolls
// back the whole batch.
type SQLExporter struct {
	name     string
	identity string
	models   []any
}

var _ item.Exporter = (*SQLExporter)(nil)

func NewSQLExporter(name string, models ...any) *SQLExporter {
	return &SQLExporter{
		name:     name,
		identity: uid.NewUUID(),
		models:   models,
	}
}

func (e *SQLExporter) Name() string { return e.name }

func (e *SQLExporter) Identity() string { return e.identity }

func (e *SQLExporter) Export(ctx context.Context, s session.Session) error {
	sqlSess, ok := s.(*session.SQL)
	if !ok {
		return wrongSession(e.name, "relational")
	}

	return sqlSess.DB.Atomic(ctx, func(ctx context.Context) error {
		for _, model := range e.models {
			if err := sqlSess.DB.WithContext(ctx).Create(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
