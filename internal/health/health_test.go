package health

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hc3-tools/quickapp-manager/internal/config"
)

func hc3Server(t *testing.T) (*httptest.Server, config.HC3) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if r.URL.Path != InfoPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"serialNumber":"HC3-00000001"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, config.HC3{
		Host:     strings.TrimPrefix(srv.URL, "http://"),
		User:     "admin",
		Password: "secret",
		Protocol: "http",
	}
}

func TestForHC3_Healthy(t *testing.T) {
	_, cfg := hc3Server(t)

	results := Run(context.Background(), ForHC3(cfg, Options{}))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Healthy, r.Error)
		assert.False(t, r.Timestamp.IsZero())
	}
	assert.Equal(t, "HTTP 200", results[1].Message)
}

func TestAPIChecker_BadCredentials(t *testing.T) {
	_, cfg := hc3Server(t)
	cfg.Password = "wrong"

	r := NewAPIChecker(cfg, Options{}).Check(context.Background())
	assert.False(t, r.Healthy)
	assert.Equal(t, "credentials rejected", r.Error)
	assert.Equal(t, "HTTP 401", r.Message)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	cfg := config.HC3{Host: addr, User: "u", Password: "p", Protocol: "http"}
	results := Run(context.Background(), ForHC3(cfg, Options{Timeout: time.Second}))

	require.Len(t, results, 1, "api probe is skipped when tcp fails")
	assert.False(t, results[0].Healthy)
	assert.NotEmpty(t, results[0].Error)
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		cfg  config.HC3
		want string
	}{
		{config.HC3{Host: "192.168.1.10", Protocol: "http"}, "192.168.1.10:80"},
		{config.HC3{Host: "hc3.local", Protocol: "https"}, "hc3.local:443"},
		{config.HC3{Host: "hc3.local:8080", Protocol: "http"}, "hc3.local:8080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hostPort(tt.cfg))
	}
}

func TestCheckerTypes(t *testing.T) {
	checkers := ForHC3(config.HC3{Host: "h"}, Options{})
	assert.Equal(t, "tcp", checkers[0].Type())
	assert.Equal(t, "api", checkers[1].Type())
}
