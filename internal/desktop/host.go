package desktop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hc3-tools/quickapp-manager/internal/events"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
)

// Events exchanged with the UI for the in-page debug panel.
const (
	EventDebugPanel       = "debug-panel"
	EventDebugPanelClosed = "debug-panel-closed"
)

// Host exposes the single Wails webview as the window labelled "main". The window only
// exists between Startup and Shutdown.
type Host struct {
	rt     Runtime
	logger *slog.Logger

	mu        sync.Mutex
	ctx       context.Context
	debugOpen bool
	unlisten  func()
}

// NewHost creates a Host. A nil rt means the real Wails runtime.
func NewHost(rt Runtime) *Host {
	if rt == nil {
		rt = WailsRuntime{}
	}
	return &Host{rt: rt, logger: logging.WithComponent("desktop")}
}

// Startup is wired to the Wails OnStartup hook.
func (h *Host) Startup(ctx context.Context) {
	unlisten := h.rt.EventsOn(ctx, EventDebugPanelClosed, func(...any) {
		h.mu.Lock()
		h.debugOpen = false
		h.mu.Unlock()
	})

	h.mu.Lock()
	h.ctx = ctx
	h.debugOpen = false
	h.unlisten = unlisten
	h.mu.Unlock()

	h.logger.Info("window ready", "label", events.MainWindow)
}

// Shutdown is wired to the Wails OnShutdown hook.
func (h *Host) Shutdown(context.Context) {
	h.mu.Lock()
	unlisten := h.unlisten
	h.ctx = nil
	h.unlisten = nil
	h.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
}

func (h *Host) hostContext() (context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx, h.ctx != nil
}

// Window implements events.WindowHost.
func (h *Host) Window(label string) (events.Window, bool) {
	if label != events.MainWindow {
		return nil, false
	}
	ctx, ok := h.hostContext()
	if !ok {
		return nil, false
	}
	return &window{host: h, ctx: ctx}, true
}

// Labels implements events.WindowHost.
func (h *Host) Labels() []string {
	if _, ok := h.hostContext(); !ok {
		return nil
	}
	return []string{events.MainWindow}
}

// window is a short-lived handle to the webview.
type window struct {
	host *Host
	ctx  context.Context
}

func (w *window) Label() string { return events.MainWindow }

func (w *window) Emit(name string, payload ...any) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	w.host.rt.EventsEmit(w.ctx, name, payload...)
	return nil
}

func (w *window) IsDevToolsOpen() bool {
	w.host.mu.Lock()
	defer w.host.mu.Unlock()
	return w.host.debugOpen
}

func (w *window) OpenDevTools()  { w.setDevTools(true) }
func (w *window) CloseDevTools() { w.setDevTools(false) }

func (w *window) setDevTools(open bool) {
	w.host.mu.Lock()
	w.host.debugOpen = open
	w.host.mu.Unlock()
	w.host.rt.EventsEmit(w.ctx, EventDebugPanel, open)
}
