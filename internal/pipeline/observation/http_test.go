package observation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/session"
)

type stubRuntime struct {
	cfg *config.Config
	reg *session.Registry
}

func (s stubRuntime) Sessions() *session.Registry { return s.reg }
func (s stubRuntime) Settings() *config.Config    { return s.cfg }

func collect(r item.Result) []item.Item {
	if r == nil {
		return nil
	}
	var out []item.Item
	for i := range r {
		out = append(out, i)
	}
	return out
}

func TestHTTPObservationHashIdentity(t *testing.T) {
	cb := func(context.Context, *Response) item.Result { return nil }

	a := NewHTTPObservation("https://example.test/", nil, cb)
	b := NewHTTPObservation("https://example.test/", nil, cb)
	assert.Equal(t, a.Hash(), b.Hash())

	c := NewHTTPObservation("https://example.test/other", nil, cb)
	assert.NotEqual(t, a.Hash(), c.Hash())

	d := NewHTTPObservation("https://example.test/", nil, cb).
		WithConfig(config.HttpClientConfig{Method: http.MethodPost})
	assert.NotEqual(t, a.Hash(), d.Hash())

	e := NewHTTPObservation("https://example.test/", nil, cb).
		WithConfig(config.HttpClientConfig{Body: `{"q":1}`})
	assert.NotEqual(t, a.Hash(), e.Hash())
}

func TestHTTPObservationAllowed(t *testing.T) {
	cb := func(context.Context, *Response) item.Result { return nil }

	allowed := NewHTTPObservation("https://example.test/page", []string{"https://example.test/"}, cb)
	assert.True(t, allowed.Allowed())

	denied := NewHTTPObservation("https://other.test/", []string{"https://example.test/"}, cb)
	assert.False(t, denied.Allowed())

	open := NewHTTPObservation("https://anywhere.test/", nil, cb)
	assert.True(t, open.Allowed())
}

func TestHTTPObservationObserveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lantern-test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><title>T</title></html>"))
	}))
	defer srv.Close()

	var got *Response
	obs := NewHTTPObservation(srv.URL, nil, func(_ context.Context, resp *Response) item.Result {
		got = resp
		return item.One("payload")
	})

	cfg := &config.Config{}
	cfg.Observation.Http.UserAgent = "lantern-test"

	result := obs.Observe(context.Background(), stubRuntime{cfg: cfg})
	require.NotNil(t, result)

	items := collect(result)
	require.Len(t, items, 1)
	assert.Equal(t, "payload", items[0])

	require.NotNil(t, got)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Contains(t, string(got.Body), "<title>T</title>")
}

func TestHTTPObservationObserveConfigOverlay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The observation's method wins over the global default.
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "global-agent", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	obs := NewHTTPObservation(srv.URL, nil, func(context.Context, *Response) item.Result {
		return item.Many()
	}).WithConfig(config.HttpClientConfig{Method: http.MethodPost})

	cfg := &config.Config{}
	cfg.Observation.Http.Method = http.MethodGet
	cfg.Observation.Http.UserAgent = "global-agent"

	result := obs.Observe(context.Background(), stubRuntime{cfg: cfg})
	require.NotNil(t, result)
}

func TestHTTPObservationObserveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	obs := NewHTTPObservation(srv.URL, nil, func(context.Context, *Response) item.Result {
		t.Error("callback must not run on transport error")
		return nil
	})

	result := obs.Observe(context.Background(), stubRuntime{cfg: &config.Config{}})
	assert.Nil(t, result)
}

func TestHTTPObservationObserveErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	obs := NewHTTPObservation(srv.URL, nil, func(context.Context, *Response) item.Result {
		t.Error("callback must not run on error status")
		return nil
	})

	result := obs.Observe(context.Background(), stubRuntime{cfg: &config.Config{}})
	assert.Nil(t, result)
}

func TestHTTPObservationBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "reader", user)
		assert.Equal(t, "hunter2", pass)
	}))
	defer srv.Close()

	obs := NewHTTPObservation(srv.URL, nil, func(context.Context, *Response) item.Result {
		return item.Many()
	})

	cfg := &config.Config{}
	cfg.Observation.Http.AuthUsername = "reader"
	cfg.Observation.Http.AuthPassword = "hunter2"

	result := obs.Observe(context.Background(), stubRuntime{cfg: cfg})
	require.NotNil(t, result)
}
