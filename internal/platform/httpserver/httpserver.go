package httpserver

import (
	"net/http"

	"fiscaldesk/internal/platform/config"
)

// New builds the API server from process configuration. Only the header
// read is bounded: CSV exports can stream for a while, so the write side
// stays unbounded and slow-loris protection comes from the header timeout.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
