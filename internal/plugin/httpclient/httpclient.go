// Package httpclient lets the UI reach the HC3 REST API from the host process, which is
// not bound by the webview's cross-origin rules.
package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/debug"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
	"github.com/hc3-tools/quickapp-manager/internal/version"
)

// MaxBodySize caps response bodies handed back to the UI.
const MaxBodySize = 16 << 20

// Config configures the client.
type Config struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	// Journal records every exchange when set.
	Journal *debug.Journal
}

// Request is a single HTTP request from the UI.
type Request struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     string            `json:"body,omitempty"`
	Username string            `json:"username,omitempty"`
	Password string            `json:"password,omitempty"`
	// TimeoutSeconds overrides Config.Timeout when positive.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
}

// Response carries any status back to the UI; only transport failures are errors.
type Response struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	OK         bool              `json:"ok"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// Plugin registers the HTTP service.
type Plugin struct {
	config Config
	client *http.Client
	host   plugin.HostContext
}

// New creates the plugin.
func New(cfg Config) *Plugin {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// HC3 units ship self-signed certificates.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &Plugin{config: cfg, client: &http.Client{Transport: transport}}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "http" }

// Register implements plugin.Plugin.
func (p *Plugin) Register(r *plugin.Registrar) error {
	p.host.Track(r)
	r.Bind(&Service{plugin: p})
	r.OnShutdown(func(context.Context) { p.client.CloseIdleConnections() })
	return nil
}

// Service is bound to the UI.
type Service struct {
	plugin *Plugin
}

// Fetch performs req and returns the response whatever its status.
func (s *Service) Fetch(req Request) (Response, error) {
	ctx, err := s.plugin.host.Get()
	if err != nil {
		return Response{}, err
	}
	return s.plugin.do(ctx, req)
}

func (p *Plugin) do(ctx context.Context, req Request) (Response, error) {
	if req.URL == "" {
		return Response{}, errors.New("request has no URL")
	}

	timeout := p.config.Timeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "QuickAppManager/"+version.Short())
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Username != "" || req.Password != "" {
		httpReq.SetBasicAuth(req.Username, req.Password)
	}

	host, path := debug.Redact(req.URL)
	logger := logging.WithComponent("http").With("method", method, "host", host, "path", path)
	start := time.Now()

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// *url.Error repeats the full URL, query string included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		p.config.Journal.Record(method, req.URL, 0, time.Since(start), err)
		logger.Warn("request failed", "error", err)
		return Response{}, fmt.Errorf("%s %s%s: %w", method, host, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	p.config.Journal.Record(method, req.URL, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[strings.ToLower(k)] = resp.Header.Get(k)
	}

	logger.Debug("request complete", "status", resp.StatusCode, "duration", time.Since(start))

	return Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Headers:    headers,
		Body:       string(data),
	}, nil
}
