package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/options"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/hc3-tools/quickapp-manager/internal/config"
	"github.com/hc3-tools/quickapp-manager/internal/events"
	"github.com/hc3-tools/quickapp-manager/internal/launcher"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/menu"
	"github.com/hc3-tools/quickapp-manager/internal/metrics"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
)

type fakeRuntime struct {
	mu    sync.Mutex
	emits []string
}

func (f *fakeRuntime) EventsEmit(_ context.Context, name string, _ ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, name)
}
func (f *fakeRuntime) EventsOn(context.Context, string, func(...any)) func() {
	return func() {}
}
func (f *fakeRuntime) MessageDialog(context.Context, wruntime.MessageDialogOptions) (string, error) {
	return "", nil
}
func (f *fakeRuntime) Hide(context.Context) {}
func (f *fakeRuntime) Show(context.Context) {}
func (f *fakeRuntime) Quit(context.Context) {}

type namedPlugin struct {
	name string
	err  error
}

func (p namedPlugin) Name() string                     { return p.name }
func (p namedPlugin) Register(*plugin.Registrar) error { return p.err }

func writeEnv(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.EnvFileName), []byte(content), 0o600))
}

func testOptions(t *testing.T) Options {
	t.Helper()
	t.Cleanup(func() { _ = logging.Setup(logging.DefaultConfig()) })
	return Options{
		Settings:    config.DefaultSettings(),
		ResourceDir: t.TempDir(),
		HomeDir:     t.TempDir(),
		LogWriter:   &bytes.Buffer{},
		Env:         config.NewMapEnvironment(nil),
		Runtime:     &fakeRuntime{},
		Launcher:    launcher.Func(func(string) error { return nil }),
		Metrics:     metrics.New(),
	}
}

func TestNew_LayeredConfiguration(t *testing.T) {
	opts := testOptions(t)
	env := config.NewMapEnvironment(map[string]string{config.EnvUser: "from-env"})
	opts.Env = env
	writeEnv(t, opts.ResourceDir, "HC3_HOST=192.168.1.10\nHC3_USER=from-resource\n")
	writeEnv(t, opts.HomeDir, "HC3_HOST=10.0.0.1\nHC3_PASSWORD=secret\nHC3_PROTOCOL=https\n")

	a, err := New(opts)
	require.NoError(t, err)

	cfg, err := a.Surface().GetHC3Config()
	require.NoError(t, err)
	assert.Equal(t, config.HC3{
		Host:     "192.168.1.10",
		User:     "from-env",
		Password: "secret",
		Protocol: "https",
	}, cfg)

	assert.Equal(t, []string{"resource", "home"}, a.Layers().Loaded())
	assert.NoError(t, a.Layers().Err())
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.EnvLayersTotal.WithLabelValues("resource", "loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.EnvLayersTotal.WithLabelValues("home", "loaded")))

	for _, name := range config.Variables {
		assert.True(t, a.Presence()[name], name)
	}
}

func TestNew_MissingAndBrokenLayersAreNotFatal(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.Mkdir(filepath.Join(opts.HomeDir, config.EnvFileName), 0o755))

	a, err := New(opts)
	require.NoError(t, err)

	assert.Empty(t, a.Layers().Loaded())
	assert.Error(t, a.Layers().Err())
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.EnvLayersTotal.WithLabelValues("resource", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.EnvLayersTotal.WithLabelValues("home", "failed")))

	_, err = a.Surface().GetHC3Config()
	require.Error(t, err)
	assert.Equal(t, config.RemediationHint, err.Error())
}

func TestNew_PluginRegistrationIsFatal(t *testing.T) {
	boom := errors.New("bad updater config")

	tests := []struct {
		name    string
		plugins []plugin.Plugin
		wantErr error
	}{
		{"duplicate", []plugin.Plugin{namedPlugin{name: "http"}, namedPlugin{name: "http"}}, plugin.ErrDuplicate},
		{"failure", []plugin.Plugin{namedPlugin{name: "updater", err: boom}}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			opts.Plugins = tt.plugins

			_, err := New(opts)
			assert.ErrorIs(t, err, ErrPluginRegistration)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_InvalidSettingsFailBeforeRun(t *testing.T) {
	opts := testOptions(t)
	opts.Settings.Window.Title = ""

	_, err := New(opts)
	assert.ErrorIs(t, err, menu.ErrMenuConstruction)
}

func TestNew_DebugSinkLogsPresenceOnly(t *testing.T) {
	opts := testOptions(t)
	var buf bytes.Buffer
	opts.LogWriter = &buf
	opts.Debug = true
	opts.Env = config.NewMapEnvironment(map[string]string{
		config.EnvHost:     "hc3.local",
		config.EnvPassword: "hunter2",
	})

	a, err := New(opts)
	require.NoError(t, err)
	assert.True(t, a.Debug())

	out := buf.String()
	assert.Contains(t, out, config.EnvHost)
	assert.Contains(t, out, config.EnvUser)
	assert.Contains(t, out, "NOT SET")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "hc3.local")
}

func TestNew_DefaultSinkLogsPresence(t *testing.T) {
	opts := testOptions(t)
	var buf bytes.Buffer
	opts.LogWriter = &buf
	opts.Settings.Logging = logging.DefaultConfig()
	opts.Env = config.NewMapEnvironment(map[string]string{
		config.EnvHost:     "hc3.local",
		config.EnvPassword: "hunter2",
	})
	writeEnv(t, opts.HomeDir, "HC3_USER=admin\n")

	_, err := New(opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "loaded env layer")
	for _, name := range config.Variables {
		assert.Contains(t, out, "name="+name)
	}
	assert.Contains(t, out, "status=set")
	assert.Contains(t, out, "NOT SET")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "hc3.local")
}

func TestRun(t *testing.T) {
	opts := testOptions(t)
	rt := &fakeRuntime{}
	opts.Runtime = rt

	a, err := New(opts)
	require.NoError(t, err)

	var got *options.App
	err = a.Run(func(o *options.App) error {
		got = o
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, opts.Settings.Window.Title, got.Title)
	assert.Equal(t, 1200, got.Width)
	require.NotNil(t, got.Menu)
	assert.Len(t, got.Menu.Items, 2)
	// surface, metrics reporter, journal viewer and four plugin services
	assert.Len(t, got.Bind, 7)

	assert.Equal(t, events.OutcomeWindowMissing, a.Router().HandleMenuID(menu.IDCheckForUpdates))

	got.OnStartup(context.Background())
	assert.Equal(t, events.OutcomeEmitted, a.Router().HandleMenuID(menu.IDCheckForUpdates))
	assert.Equal(t, []string{events.EventCheckForUpdates}, rt.emits)

	got.OnShutdown(context.Background())
	assert.Equal(t, events.OutcomeWindowMissing, a.Router().HandleMenuID(menu.IDCheckForUpdates))
}

func TestRun_PropagatesRunnerError(t *testing.T) {
	a, err := New(testOptions(t))
	require.NoError(t, err)

	boom := errors.New("webview2 runtime missing")
	assert.ErrorIs(t, a.Run(func(*options.App) error { return boom }), boom)
}

func TestResourceDirFor(t *testing.T) {
	tests := []struct {
		exe  string
		want string
	}{
		{filepath.FromSlash("/Applications/HC3.app/Contents/MacOS/quickapp-manager"), filepath.FromSlash("/Applications/HC3.app/Contents/Resources")},
		{filepath.FromSlash("/opt/hc3/quickapp-manager"), filepath.FromSlash("/opt/hc3")},
		{filepath.FromSlash("/opt/MacOS/quickapp-manager"), filepath.FromSlash("/opt/MacOS")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resourceDirFor(tt.exe), tt.exe)
	}
}
