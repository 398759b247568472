package exporter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/pkg/uid"
	"lantern/etl-core/internal/session"
)

// Point is one measurement submitted to the time-series sink.
type Point struct {
	Series string
	Time   time.Time
	Fields map[string]any
}

// TimeSeriesExporter appends a batch of points to per-series streams in a
// single pipelined round trip.
type TimeSeriesExporter struct {
	name     string
	identity string
	points   []Point
}

var _ item.Exporter = (*TimeSeriesExporter)(nil)

func NewTimeSeriesExporter(name string, points ...Point) *TimeSeriesExporter {
	return &TimeSeriesExporter{
		name:     name,
		identity: uid.NewUUID(),
		points:   points,
	}
}

func (e *TimeSeriesExporter) Name() string { return e.name }

func (e *TimeSeriesExporter) Identity() string { return e.identity }

func (e *TimeSeriesExporter) Export(ctx context.Context, s session.Session) error {
	tsSess, ok := s.(*session.TimeSeries)
	if !ok {
		return wrongSession(e.name, "time-series")
	}

	client := tsSess.TS.GetClient()
	pipe := client.Pipeline()
	for _, p := range e.points {
		values := make(map[string]any, len(p.Fields)+1)
		for k, v := range p.Fields {
			values[k] = v
		}
		values["ts"] = p.Time.UnixMilli()

		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.Series,
			Values: values,
		})
	}

	_, err := pipe.Exec(ctx)
	return err
}
