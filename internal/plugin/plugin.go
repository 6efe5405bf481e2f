// Package plugin registers the host capabilities exposed to the UI alongside the core
// command surface.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
)

// ErrDuplicate is returned when two plugins share a name.
var ErrDuplicate = errors.New("plugin already registered")

// Plugin contributes bindings and lifecycle hooks.
type Plugin interface {
	Name() string
	Register(r *Registrar) error
}

// Hook runs with the host context at startup or shutdown.
type Hook func(ctx context.Context)

// Registrar collects what a plugin contributes.
type Registrar struct {
	bindings []any
	startup  []Hook
	shutdown []Hook
}

// Bind exposes v's exported methods to the UI.
func (r *Registrar) Bind(v any) {
	r.bindings = append(r.bindings, v)
}

// OnStartup registers a hook run once the UI host is up.
func (r *Registrar) OnStartup(h Hook) {
	r.startup = append(r.startup, h)
}

// OnShutdown registers a hook run when the UI host stops.
func (r *Registrar) OnShutdown(h Hook) {
	r.shutdown = append(r.shutdown, h)
}

// Registry holds the registered plugins in registration order.
type Registry struct {
	mu    sync.Mutex
	names []string
	seen  map[string]bool
	reg   Registrar
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Register registers p. Any error leaves the registry unchanged.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return errors.New("plugin has no name")
	}
	if r.seen[name] {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	var staged Registrar
	if err := p.Register(&staged); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	r.reg.bindings = append(r.reg.bindings, staged.bindings...)
	r.reg.startup = append(r.reg.startup, staged.startup...)
	r.reg.shutdown = append(r.reg.shutdown, staged.shutdown...)
	r.seen[name] = true
	r.names = append(r.names, name)

	logging.WithComponent("plugin").Debug("plugin registered", "plugin", name, "bindings", len(staged.bindings))
	return nil
}

// RegisterAll registers plugins in order and stops at the first failure.
func (r *Registry) RegisterAll(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the registered plugin names in order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// Bindings returns every object plugins asked to bind.
func (r *Registry) Bindings() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.reg.bindings...)
}

// Startup runs the startup hooks in registration order.
func (r *Registry) Startup(ctx context.Context) {
	r.mu.Lock()
	hooks := append([]Hook(nil), r.reg.startup...)
	r.mu.Unlock()
	for _, h := range hooks {
		h(ctx)
	}
}

// Shutdown runs the shutdown hooks in reverse registration order.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	hooks := append([]Hook(nil), r.reg.shutdown...)
	r.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](ctx)
	}
}

// ErrNotStarted is returned by plugin calls made before the host has started or after it
// has stopped.
var ErrNotStarted = errors.New("host not started")

// HostContext holds the context the host passes to startup hooks. Plugins that call back
// into the host read it on every call.
type HostContext struct {
	mu  sync.RWMutex
	ctx context.Context
}

// Track registers hooks on r that set the context at startup and clear it at shutdown.
func (h *HostContext) Track(r *Registrar) {
	r.OnStartup(func(ctx context.Context) { h.set(ctx) })
	r.OnShutdown(func(context.Context) { h.set(nil) })
}

func (h *HostContext) set(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()
}

// Get returns the host context, or ErrNotStarted outside the host's lifetime.
func (h *HostContext) Get() (context.Context, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.ctx == nil {
		return nil, ErrNotStarted
	}
	return h.ctx, nil
}
