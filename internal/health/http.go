package health

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/config"
)

// InfoPath is a cheap authenticated HC3 endpoint.
const InfoPath = "/api/settings/info"

// APIChecker requests InfoPath with the configured credentials.
type APIChecker struct {
	cfg    config.HC3
	client *http.Client
}

// NewAPIChecker creates an APIChecker.
func NewAPIChecker(cfg config.HC3, opts Options) *APIChecker {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // HC3 units ship self-signed certificates
		}
	}

	return &APIChecker{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Check performs the request. 401 and 403 are reported as a credentials problem.
func (c *APIChecker) Check(ctx context.Context) Result {
	start := time.Now()
	url := fmt.Sprintf("%s://%s%s", c.cfg.Protocol, c.cfg.Host, InfoPath)

	result := Result{Timestamp: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = err.Error()
		result.Message = "invalid HC3 address"
		return result
	}
	req.SetBasicAuth(c.cfg.User, c.cfg.Password)

	resp, err := c.client.Do(req)
	result.Latency = time.Since(start)
	result.Timestamp = time.Now()
	if err != nil {
		result.Error = err.Error()
		result.Message = "HC3 API request failed"
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		result.Error = "credentials rejected"
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Healthy = true
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	default:
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		result.Error = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}
	return result
}

// Type returns "api".
func (c *APIChecker) Type() string {
	return "api"
}
