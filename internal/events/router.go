// Package events turns native menu actions into effects on the main UI window.
package events

import (
	"log/slog"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/menu"
	"github.com/hc3-tools/quickapp-manager/internal/metrics"
)

// MainWindow is the label of the window menu actions target.
const MainWindow = "main"

// EventCheckForUpdates is emitted to the UI when the user asks for an update check.
const EventCheckForUpdates = "check-for-updates"

// Window is a live UI surface. Handles are looked up per action and never kept.
type Window interface {
	Label() string
	Emit(name string, payload ...any) error
	IsDevToolsOpen() bool
	OpenDevTools()
	CloseDevTools()
}

// WindowHost locates windows by label.
type WindowHost interface {
	Window(label string) (Window, bool)
	Labels() []string
}

// Outcome describes what a dispatch did.
type Outcome string

const (
	OutcomeEmitted       Outcome = "emitted"
	OutcomeEmitFailed    Outcome = "emit_failed"
	OutcomeOpened        Outcome = "opened"
	OutcomeClosed        Outcome = "closed"
	OutcomeWindowMissing Outcome = "window_missing"
	OutcomeIgnored       Outcome = "ignored"
)

// Router dispatches menu actions. It holds no state between dispatches.
type Router struct {
	host    WindowHost
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRouter creates a Router over host.
func NewRouter(host WindowHost, m *metrics.Metrics) *Router {
	return &Router{
		host:    host,
		metrics: m,
		logger:  logging.WithComponent("events"),
	}
}

// HandleMenuID dispatches the action bound to a raw menu identifier.
func (r *Router) HandleMenuID(id string) Outcome {
	r.logger.Info("menu event triggered", "id", id)
	return r.Dispatch(menu.ParseAction(id))
}

// Dispatch runs the action. It never panics and never returns an error: every
// failure is logged and reported through the Outcome.
func (r *Router) Dispatch(action menu.Action) Outcome {
	var outcome Outcome
	switch action {
	case menu.ActionCheckForUpdates:
		outcome = r.checkForUpdates()
	case menu.ActionToggleDevTools:
		outcome = r.toggleDevTools()
	default:
		r.logger.Warn("unhandled menu action", "action", action.String())
		outcome = OutcomeIgnored
	}

	r.metrics.RecordMenuAction(action.String(), string(outcome))
	return outcome
}

func (r *Router) checkForUpdates() Outcome {
	w, ok := r.host.Window(MainWindow)
	if !ok {
		r.logger.Info("no main window, skipping update check event")
		return OutcomeWindowMissing
	}

	if err := w.Emit(EventCheckForUpdates); err != nil {
		r.logger.Warn("failed to emit event", "event", EventCheckForUpdates, "window", w.Label(), "error", err)
		return OutcomeEmitFailed
	}
	return OutcomeEmitted
}

func (r *Router) toggleDevTools() Outcome {
	w, ok := r.host.Window(MainWindow)
	if !ok {
		r.logger.Warn("could not find main window", "available", r.host.Labels())
		return OutcomeWindowMissing
	}

	if w.IsDevToolsOpen() {
		r.logger.Info("closing devtools", "window", w.Label())
		w.CloseDevTools()
		return OutcomeClosed
	}
	r.logger.Info("opening devtools", "window", w.Label())
	w.OpenDevTools()
	return OutcomeOpened
}
