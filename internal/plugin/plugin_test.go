package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	name    string
	err     error
	binding any
	events  *[]string
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Register(r *Registrar) error {
	if p.binding != nil {
		r.Bind(p.binding)
	}
	r.OnStartup(func(context.Context) { *p.events = append(*p.events, "start:"+p.name) })
	r.OnShutdown(func(context.Context) { *p.events = append(*p.events, "stop:"+p.name) })
	return p.err
}

type binding struct{ id string }

func TestRegistry_RegisterAll(t *testing.T) {
	var events []string
	b1, b2 := &binding{"a"}, &binding{"b"}

	reg := NewRegistry()
	err := reg.RegisterAll(
		&fakePlugin{name: "updater", binding: b1, events: &events},
		&fakePlugin{name: "http", binding: b2, events: &events},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"updater", "http"}, reg.Names())
	assert.Equal(t, []any{b1, b2}, reg.Bindings())

	reg.Startup(context.Background())
	reg.Shutdown(context.Background())
	assert.Equal(t, []string{"start:updater", "start:http", "stop:http", "stop:updater"}, events)
}

func TestRegistry_DuplicateName(t *testing.T) {
	var events []string
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakePlugin{name: "dialog", events: &events}))

	err := reg.Register(&fakePlugin{name: "dialog", events: &events})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, []string{"dialog"}, reg.Names())
}

func TestRegistry_FailedPluginLeavesNoTrace(t *testing.T) {
	var events []string
	boom := errors.New("bad config")

	reg := NewRegistry()
	err := reg.RegisterAll(
		&fakePlugin{name: "process", events: &events},
		&fakePlugin{name: "updater", binding: &binding{}, err: boom, events: &events},
		&fakePlugin{name: "never", events: &events},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "register updater")

	assert.Equal(t, []string{"process"}, reg.Names())
	assert.Empty(t, reg.Bindings())

	reg.Startup(context.Background())
	assert.Equal(t, []string{"start:process"}, events)
}

func TestRegistry_EmptyName(t *testing.T) {
	var events []string
	err := NewRegistry().Register(&fakePlugin{events: &events})
	assert.Error(t, err)
}

func TestHostContext(t *testing.T) {
	var hc HostContext
	reg := NewRegistry()
	require.NoError(t, reg.Register(pluginFunc{name: "dialog", fn: func(r *Registrar) error {
		hc.Track(r)
		return nil
	}}))

	_, err := hc.Get()
	assert.ErrorIs(t, err, ErrNotStarted)

	ctx := context.WithValue(context.Background(), binding{}, "host")
	reg.Startup(ctx)
	got, err := hc.Get()
	require.NoError(t, err)
	assert.Equal(t, ctx, got)

	reg.Shutdown(context.Background())
	_, err = hc.Get()
	assert.ErrorIs(t, err, ErrNotStarted)
}

type pluginFunc struct {
	name string
	fn   func(*Registrar) error
}

func (p pluginFunc) Name() string                { return p.name }
func (p pluginFunc) Register(r *Registrar) error { return p.fn(r) }
