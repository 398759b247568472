package observation

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline/item"
)

// Response is the fetched payload handed to HTTP callbacks. The body is fully
// read and closed before the callback runs.
type Response struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// HTTPCallback consumes one fetched response and yields downstream items.
type HTTPCallback func(ctx context.Context, resp *Response) item.Result

// HTTPObservation performs one HTTP request. The request configuration is the
// shallow overlay of the observation's own configuration over the global HTTP
// defaults; the observation wins key-by-key.
type HTTPObservation struct {
	base
	allowed  []string
	callback HTTPCallback
	conf     config.HttpClientConfig
	log      logger.Logger
}

var (
	_ item.Observation = (*HTTPObservation)(nil)
	_ item.AllowListed = (*HTTPObservation)(nil)
)

func NewHTTPObservation(url string, allowed []string, callback HTTPCallback) *HTTPObservation {
	return &HTTPObservation{
		base:     base{url: url},
		allowed:  allowed,
		callback: callback,
		log:      logger.NewNoOpLogger(),
	}
}

// WithConfig overrides global HTTP defaults for this observation only.
func (o *HTTPObservation) WithConfig(conf config.HttpClientConfig) *HTTPObservation {
	o.conf = conf
	return o
}

// WithXCom attaches an opaque payload readable by the callback.
func (o *HTTPObservation) WithXCom(xcom any) *HTTPObservation {
	o.xcom = xcom
	return o
}

// WithLogger routes fetch diagnostics to the given logger. The manager does
// not set it; without a call, diagnostics go to a no-op logger.
func (o *HTTPObservation) WithLogger(log logger.Logger) *HTTPObservation {
	o.log = log
	return o
}

// Allowed reports whether the URL starts with any of the allowed prefixes.
// An empty prefix list allows everything.
func (o *HTTPObservation) Allowed() bool {
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

func (o *HTTPObservation) method() string {
	if o.conf.Method != "" {
		return o.conf.Method
	}
	return http.MethodGet
}

func (o *HTTPObservation) Hash() uint64 {
	return digest(fmt.Sprintf("%s|%s|%s", o.method(), o.url, o.conf.Body))
}

func (o *HTTPObservation) Observe(ctx context.Context, rt item.Runtime) item.Result {
	merged := rt.Settings().Observation.Http.Overlay(o.conf)

	resp, err := fetch(ctx, o.url, merged)
	if err != nil {
		o.log.WithFields(map[string]any{
			"url":          o.url,
			"error_detail": err.Error(),
		}).Warn("HTTP fetch failed")
		return nil
	}

	return o.callback(ctx, resp)
}

// fetch issues one request with the merged configuration. Both variants of
// the HTTP observation funnel through here.
func fetch(ctx context.Context, url string, conf config.HttpClientConfig) (*Response, error) {
	method := conf.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if conf.Body != "" {
		body = strings.NewReader(conf.Body)
	}

	if conf.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range conf.Headers {
		req.Header.Set(k, v)
	}
	if conf.UserAgent != "" {
		req.Header.Set("User-Agent", conf.UserAgent)
	}
	if conf.AuthUsername != "" {
		req.SetBasicAuth(conf.AuthUsername, conf.AuthPassword)
	}

	transport := &http.Transport{}
	if conf.ConnectTimeout > 0 {
		transport.DialContext = (&net.Dialer{Timeout: conf.ConnectTimeout}).DialContext
	}
	if !conf.ValidateCert {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := &http.Client{Transport: transport}

	raw, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer raw.Body.Close()

	if raw.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d fetching %s", raw.StatusCode, url)
	}

	payload, err := io.ReadAll(raw.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		URL:        url,
		StatusCode: raw.StatusCode,
		Headers:    raw.Header,
		Body:       payload,
	}, nil
}
