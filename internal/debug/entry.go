// Package debug keeps a bounded journal of the HTTP exchanges the UI makes through the
// host, for display in the debug panel.
package debug

import (
	"time"
)

// Entry is one recorded exchange. Credentials and bodies are never recorded.
type Entry struct {
	ID        uint64        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Host      string        `json:"host"`
	Path      string        `json:"path"`
	Status    int           `json:"status,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Failed reports whether the exchange failed at transport level or with a 4xx/5xx status.
func (e *Entry) Failed() bool {
	return e.Error != "" || e.Status >= 400
}

// Summary returns a one-line description of the entry.
func (e *Entry) Summary() string {
	return e.Method + " " + e.Host + e.Path
}
