package catalog

import (
	"context"
	"time"

	"lantern/etl-core/internal/modules/catalog/entity"
	"lantern/etl-core/internal/pipeline/exporter"
	"lantern/etl-core/internal/pipeline/item"
)

// PageAdapter loads every page finding into the relational store and appends
// a fetch event to the time-series sink.
type PageAdapter struct {
	sqlSession string
	tsSession  string
}

var _ item.Adapter = (*PageAdapter)(nil)

// NewPageAdapter targets the named sessions. Both must be present in the
// registry before the run starts.
func NewPageAdapter(sqlSession, tsSession string) item.AdapterFactory {
	return func(_ item.Runtime) item.Adapter {
		return &PageAdapter{
			sqlSession: sqlSession,
			tsSession:  tsSession,
		}
	}
}

func (a *PageAdapter) Priority() int { return 10 }

func (a *PageAdapter) Subscribes() []item.Tag { return []item.Tag{TagPage} }

func (a *PageAdapter) Adapt(_ context.Context, f item.Finding) item.Result {
	page := f.(PageFinding)

	return item.Many(
		exporter.NewSQLExporter(a.sqlSession, &entity.Page{
			URL:   page.URL,
			Title: page.Title,
		}),
		exporter.NewTimeSeriesExporter(a.tsSession, exporter.Point{
			Series: "catalog.pages",
			Time:   time.Now(),
			Fields: map[string]any{"url": page.URL},
		}),
	)
}
