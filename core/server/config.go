package server

import (
	"strings"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// CorsOrigins is a comma separated list of allowed origins ("*" allows all).
	CorsOrigins string `mapstructure:"cors_origins" default:"*"`
	// ReadTimeoutSeconds bounds reading a single request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// WriteTimeoutSeconds bounds writing a response. A refresh blocks until
	// both sources answered, so this must exceed the source timeout.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"120"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// AllowOrigins normalizes CorsOrigins for the Fiber CORS middleware.
func (c Config) AllowOrigins() string {
	parts := strings.Split(c.CorsOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

// ReadTimeout returns the request read timeout, zero meaning unlimited.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the response write timeout, zero meaning unlimited.
func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}
