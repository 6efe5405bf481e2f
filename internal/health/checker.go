// Package health probes whether the configured HC3 controller can be reached.
package health

import (
	"context"
	"net"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/config"
)

// DefaultTimeout bounds each probe.
const DefaultTimeout = 5 * time.Second

// Checker performs one probe.
type Checker interface {
	Check(ctx context.Context) Result
	Type() string
}

// Result is the outcome of one probe.
type Result struct {
	Healthy   bool          `json:"healthy"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

// Options configures the HC3 probes.
type Options struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// ForHC3 returns the probes for cfg in order: TCP reachability, then an authenticated API
// request.
func ForHC3(cfg config.HC3, opts Options) []Checker {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return []Checker{
		NewTCPChecker(hostPort(cfg), opts.Timeout),
		NewAPIChecker(cfg, opts),
	}
}

// Run executes checkers in order and stops after the first unhealthy result.
func Run(ctx context.Context, checkers []Checker) []Result {
	results := make([]Result, 0, len(checkers))
	for _, c := range checkers {
		r := c.Check(ctx)
		results = append(results, r)
		if !r.Healthy {
			break
		}
	}
	return results
}

func hostPort(cfg config.HC3) string {
	if _, _, err := net.SplitHostPort(cfg.Host); err == nil {
		return cfg.Host
	}
	port := "80"
	if cfg.Protocol == "https" {
		port = "443"
	}
	return net.JoinHostPort(cfg.Host, port)
}
