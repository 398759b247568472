package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/etl-core/internal/session"
)

type tsClient struct {
	client *redis.Client
}

func (c *tsClient) GetClient() *redis.Client { return c.client }
func (c *tsClient) Close() error             { return c.client.Close() }

func tsSession(t *testing.T) (*session.TimeSeries, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return &session.TimeSeries{TS: &tsClient{client: client}}, srv
}

func TestTimeSeriesExporterWritesBatch(t *testing.T) {
	sess, srv := tsSession(t)

	now := time.Now()
	exp := NewTimeSeriesExporter("metrics",
		Point{Series: "catalog.pages", Time: now, Fields: map[string]any{"url": "https://example.test/a"}},
		Point{Series: "catalog.pages", Time: now, Fields: map[string]any{"url": "https://example.test/b"}},
		Point{Series: "catalog.errors", Time: now, Fields: map[string]any{"url": "https://example.test/c"}},
	)

	require.NoError(t, exp.Export(context.Background(), sess))

	assert.Equal(t, 2, len(streamEntries(t, srv, "catalog.pages")))
	assert.Equal(t, 1, len(streamEntries(t, srv, "catalog.errors")))
}

func TestTimeSeriesExporterEmptyBatch(t *testing.T) {
	sess, _ := tsSession(t)

	exp := NewTimeSeriesExporter("metrics")
	assert.NoError(t, exp.Export(context.Background(), sess))
}

func TestTimeSeriesExporterRejectsWrongSessionKind(t *testing.T) {
	exp := NewTimeSeriesExporter("metrics")
	err := exp.Export(context.Background(), &session.SQL{})
	assert.Error(t, err)
}

func streamEntries(t *testing.T, srv *miniredis.Miniredis, stream string) []miniredis.StreamEntry {
	t.Helper()
	entries, err := srv.Stream(stream)
	require.NoError(t, err)
	return entries
}
