package httpapi

import (
	"net/http"

	"blogapi/internal/config"
)

// NewServer wraps handler in an http.Server bounded by the configured
// timeouts. Zero read, write and idle timeouts mean no limit.
func NewServer(addr string, cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
