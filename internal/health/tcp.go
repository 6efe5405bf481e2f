package health

import (
	"context"
	"net"
	"time"
)

// TCPChecker checks that a TCP connection can be opened.
type TCPChecker struct {
	target  string
	timeout time.Duration
}

// NewTCPChecker creates a TCPChecker for target (host:port).
func NewTCPChecker(target string, timeout time.Duration) *TCPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPChecker{target: target, timeout: timeout}
}

// Check dials the target.
func (c *TCPChecker) Check(ctx context.Context) Result {
	start := time.Now()

	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.target)

	result := Result{
		Latency:   time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		result.Message = "cannot reach " + c.target
		return result
	}
	conn.Close()

	result.Healthy = true
	result.Message = "reachable " + c.target
	return result
}

// Type returns "tcp".
func (c *TCPChecker) Type() string {
	return "tcp"
}
