package config

import "time"

// ObservationConfig carries the global extraction defaults. Per-observation
// configuration is overlaid on top of Http key-by-key; the renderer section
// applies to rendered observations only.
type ObservationConfig struct {
	// Delay is the pause taken by an observe worker before each fetch.
	Delay time.Duration `mapstructure:"delay" validate:"gte=0"`

	Http     HttpClientConfig `mapstructure:"http"`
	Renderer RendererConfig   `mapstructure:"renderer"`
}

// HttpClientConfig are the default knobs for one HTTP fetch.
type HttpClientConfig struct {
	Method         string            `mapstructure:"method"`
	Body           string            `mapstructure:"body"`
	Headers        map[string]string `mapstructure:"headers"`
	ConnectTimeout time.Duration     `mapstructure:"connect_timeout"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
	UserAgent      string            `mapstructure:"user_agent"`
	AuthUsername   string            `mapstructure:"auth_username"`
	AuthPassword   string            `mapstructure:"auth_password"`
	ValidateCert   bool              `mapstructure:"validate_cert"`
}

// RendererConfig locates the rendering service used by rendered-HTTP
// observations. The constructed endpoint has the form
// {protocol}://{host}:{port}/render.{render}.
type RendererConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Protocol string        `mapstructure:"protocol"`
	Render   string        `mapstructure:"render"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Overlay returns base with every non-zero field of over applied on top.
// Observation-level configuration wins key-by-key over the global defaults.
func (base HttpClientConfig) Overlay(over HttpClientConfig) HttpClientConfig {
	merged := base
	if over.Method != "" {
		merged.Method = over.Method
	}
	if over.Body != "" {
		merged.Body = over.Body
	}
	if len(over.Headers) > 0 {
		headers := make(map[string]string, len(base.Headers)+len(over.Headers))
		for k, v := range base.Headers {
			headers[k] = v
		}
		for k, v := range over.Headers {
			headers[k] = v
		}
		merged.Headers = headers
	}
	if over.ConnectTimeout != 0 {
		merged.ConnectTimeout = over.ConnectTimeout
	}
	if over.RequestTimeout != 0 {
		merged.RequestTimeout = over.RequestTimeout
	}
	if over.UserAgent != "" {
		merged.UserAgent = over.UserAgent
	}
	if over.AuthUsername != "" {
		merged.AuthUsername = over.AuthUsername
	}
	if over.AuthPassword != "" {
		merged.AuthPassword = over.AuthPassword
	}
	if over.ValidateCert {
		merged.ValidateCert = true
	}
	return merged
}
