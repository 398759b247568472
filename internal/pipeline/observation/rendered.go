package observation

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline/item"
)

// RenderedHTTPObservation fetches a page through a rendering service instead
// of hitting the target directly. The renderer endpoint is constructed from
// the renderer configuration and query-encodes the target URL plus any extra
// parameters. The request itself is issued with the global HTTP defaults,
// not the observation's own configuration.
type RenderedHTTPObservation struct {
	base
	allowed  []string
	callback HTTPCallback
	renderer config.RendererConfig
	params   map[string]string
	log      logger.Logger
}

var (
	_ item.Observation = (*RenderedHTTPObservation)(nil)
	_ item.AllowListed = (*RenderedHTTPObservation)(nil)
)

func NewRenderedHTTPObservation(
	target string,
	allowed []string,
	callback HTTPCallback,
	renderer config.RendererConfig,
) *RenderedHTTPObservation {
	return &RenderedHTTPObservation{
		base:     base{url: target},
		allowed:  allowed,
		callback: callback,
		renderer: renderer,
		log:      logger.NewNoOpLogger(),
	}
}

// WithParams adds renderer query parameters (wait, viewport, ...). Reserved
// keys (url) are ignored.
func (o *RenderedHTTPObservation) WithParams(params map[string]string) *RenderedHTTPObservation {
	o.params = params
	return o
}

func (o *RenderedHTTPObservation) WithXCom(xcom any) *RenderedHTTPObservation {
	o.xcom = xcom
	return o
}

func (o *RenderedHTTPObservation) WithLogger(log logger.Logger) *RenderedHTTPObservation {
	o.log = log
	return o
}

func (o *RenderedHTTPObservation) Allowed() bool {
	if len(o.allowed) == 0 {
		return true
	}
	for _, prefix := range o.allowed {
		if strings.HasPrefix(o.url, prefix) {
			return true
		}
	}
	return false
}

// Endpoint builds the renderer URL for this observation:
// {protocol}://{host}:{port}/render.{render}?<query>, where the query holds
// the extra parameters, the renderer timeout and url=<target>. All query
// keys, url included, are encoded in sorted key order so the endpoint, and
// with it the observation hash, is deterministic.
func (o *RenderedHTTPObservation) Endpoint() string {
	query := url.Values{}
	keys := make([]string, 0, len(o.params))
	for k := range o.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "url" {
			continue
		}
		query.Set(k, o.params[k])
	}
	if o.renderer.Timeout > 0 {
		query.Set("timeout", fmt.Sprintf("%.0f", o.renderer.Timeout.Seconds()))
	}
	query.Set("url", o.url)

	return fmt.Sprintf(
		"%s://%s:%d/render.%s?%s",
		o.renderer.Protocol,
		o.renderer.Host,
		o.renderer.Port,
		o.renderer.Render,
		query.Encode(),
	)
}

// Hash covers the fully constructed renderer URL, so the same target rendered
// with different parameters counts as a distinct observation.
func (o *RenderedHTTPObservation) Hash() uint64 {
	return digest(o.Endpoint())
}

func (o *RenderedHTTPObservation) Observe(ctx context.Context, rt item.Runtime) item.Result {
	endpoint := o.Endpoint()

	resp, err := fetch(ctx, endpoint, rt.Settings().Observation.Http)
	if err != nil {
		o.log.WithFields(map[string]any{
			"url":          o.url,
			"endpoint":     endpoint,
			"error_detail": err.Error(),
		}).Warn("Rendered HTTP fetch failed")
		return nil
	}

	// Callbacks see the target URL, not the renderer endpoint.
	resp.URL = o.url
	return o.callback(ctx, resp)
}
