package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/pipeline/observation"
	"lantern/etl-core/internal/session"
)

type stubRuntime struct{}

func (stubRuntime) Sessions() *session.Registry { return nil }
func (stubRuntime) Settings() *config.Config    { return &config.Config{} }

func buildObserver(t *testing.T, start string) *PageObserver {
	t.Helper()
	o := NewPageObserver(start)(stubRuntime{})
	return o.(*PageObserver)
}

func TestPageObserverSeedsStartURL(t *testing.T) {
	o := buildObserver(t, "https://example.test/")

	require.Len(t, o.InitialObservations(), 1)
	assert.Equal(t, "https://example.test/", o.InitialObservations()[0].URL())
	assert.Equal(t, "pages", o.Name())
	assert.Contains(t, o.Labels(), "html")
}

func TestPageObserverCallbackExtractsTitleAndLinks(t *testing.T) {
	o := buildObserver(t, "https://example.test/")

	resp := &observation.Response{
		URL: "https://example.test/",
		Body: []byte(`<html>
			<head><title> Example Catalog </title></head>
			<body>
				<a href="https://example.test/books">books</a>
				<a href="/authors">authors</a>
				<a href="mailto:nobody@example.test">mail</a>
				<a href="#top">top</a>
			</body>
		</html>`),
	}

	var findings []PageFinding
	var observations []item.Observation
	for i := range o.observePage(context.Background(), resp) {
		switch v := i.(type) {
		case PageFinding:
			findings = append(findings, v)
		case item.Observation:
			observations = append(observations, v)
		default:
			t.Fatalf("unexpected item kind %T", i)
		}
	}

	require.Len(t, findings, 1)
	assert.Equal(t, "Example Catalog", findings[0].Title)
	assert.Equal(t, "https://example.test/", findings[0].URL)

	// mailto and fragment links are skipped; the relative link is resolved.
	require.Len(t, observations, 2)
	assert.Equal(t, "https://example.test/books", observations[0].URL())
	assert.Equal(t, "https://example.test/authors", observations[1].URL())
}

func TestPageAdapterEmitsBothExporters(t *testing.T) {
	a := NewPageAdapter("main", "metrics")(stubRuntime{})

	assert.Equal(t, 10, a.Priority())
	assert.Equal(t, []item.Tag{TagPage}, a.Subscribes())

	finding := PageFinding{URL: "https://example.test/", Title: "T"}
	var exporters []item.Exporter
	for i := range a.Adapt(context.Background(), finding) {
		exp, ok := i.(item.Exporter)
		require.True(t, ok, "adapter must only yield exporters")
		exporters = append(exporters, exp)
	}

	require.Len(t, exporters, 2)
	assert.Equal(t, "main", exporters[0].Name())
	assert.Equal(t, "metrics", exporters[1].Name())
}

func TestPageFindingTag(t *testing.T) {
	assert.Equal(t, TagPage, PageFinding{}.Tag())
}
