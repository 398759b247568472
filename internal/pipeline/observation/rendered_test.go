package observation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/pipeline/item"
)

func rendererConf() config.RendererConfig {
	return config.RendererConfig{
		Host:     "localhost",
		Port:     8050,
		Protocol: "http",
		Render:   "html",
		Timeout:  30 * time.Second,
	}
}

func TestRenderedObservationEndpoint(t *testing.T) {
	cb := func(context.Context, *Response) item.Result { return nil }

	obs := NewRenderedHTTPObservation("https://example.test/page", nil, cb, rendererConf()).
		WithParams(map[string]string{"wait": "2"})

	endpoint := obs.Endpoint()
	assert.True(t, strings.HasPrefix(endpoint, "http://localhost:8050/render.html?"))

	parsed, err := url.Parse(endpoint)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "https://example.test/page", query.Get("url"))
	assert.Equal(t, "2", query.Get("wait"))
	assert.Equal(t, "30", query.Get("timeout"))
}

func TestRenderedObservationHashCoversRendererURL(t *testing.T) {
	cb := func(context.Context, *Response) item.Result { return nil }

	html := NewRenderedHTTPObservation("https://example.test/", nil, cb, rendererConf())

	pngConf := rendererConf()
	pngConf.Render = "png"
	png := NewRenderedHTTPObservation("https://example.test/", nil, cb, pngConf)

	// Same target through different renderers: distinct observations.
	assert.NotEqual(t, html.Hash(), png.Hash())

	other := NewRenderedHTTPObservation("https://example.test/api", nil, cb, rendererConf())
	assert.NotEqual(t, html.Hash(), other.Hash())

	same := NewRenderedHTTPObservation("https://example.test/", nil, cb, rendererConf())
	assert.Equal(t, html.Hash(), same.Hash())
}

func TestRenderedObservationObserveUsesGlobalConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "global-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "/render.html", r.URL.Path)
		assert.Equal(t, "https://example.test/page", r.URL.Query().Get("url"))
		w.Write([]byte("<html><body>rendered</body></html>"))
	}))
	defer srv.Close()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)

	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	conf := config.RendererConfig{
		Host:     parsed.Hostname(),
		Port:     port,
		Protocol: "http",
		Render:   "html",
	}

	var got *Response
	obs := NewRenderedHTTPObservation("https://example.test/page", nil,
		func(_ context.Context, resp *Response) item.Result {
			got = resp
			return item.Many()
		}, conf)

	cfg := &config.Config{}
	cfg.Observation.Http.UserAgent = "global-agent"

	result := obs.Observe(context.Background(), stubRuntime{cfg: cfg})
	require.NotNil(t, result)
	require.NotNil(t, got)
	// Callbacks see the target URL, not the renderer endpoint.
	assert.Equal(t, "https://example.test/page", got.URL)
	assert.Contains(t, string(got.Body), "rendered")
}

func TestRenderedObservationAllowed(t *testing.T) {
	cb := func(context.Context, *Response) item.Result { return nil }

	denied := NewRenderedHTTPObservation("https://other.test/", []string{"https://example.test/"}, cb, rendererConf())
	assert.False(t, denied.Allowed())

	allowed := NewRenderedHTTPObservation("https://example.test/x", []string{"https://example.test/"}, cb, rendererConf())
	assert.True(t, allowed.Allowed())
}
