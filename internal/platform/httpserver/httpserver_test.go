package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fiscaldesk/internal/platform/config"
)

func TestNewCarriesServerConfig(t *testing.T) {
	cfg := config.Server{Addr: ":9090", ReadHeaderTimeout: 7 * time.Second}
	mux := http.NewServeMux()

	srv := New(cfg, mux)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 7*time.Second, srv.ReadHeaderTimeout)
	assert.Zero(t, srv.WriteTimeout, "exports stream, the write side stays unbounded")
}
