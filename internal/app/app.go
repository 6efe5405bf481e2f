// Package app wires configuration, commands, menu and plugins together and hands the
// result to the webview host.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	wmenu "github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"github.com/hc3-tools/quickapp-manager/internal/commands"
	"github.com/hc3-tools/quickapp-manager/internal/config"
	"github.com/hc3-tools/quickapp-manager/internal/debug"
	"github.com/hc3-tools/quickapp-manager/internal/desktop"
	"github.com/hc3-tools/quickapp-manager/internal/events"
	"github.com/hc3-tools/quickapp-manager/internal/launcher"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/menu"
	"github.com/hc3-tools/quickapp-manager/internal/metrics"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
	"github.com/hc3-tools/quickapp-manager/internal/plugin/dialog"
	"github.com/hc3-tools/quickapp-manager/internal/plugin/httpclient"
	"github.com/hc3-tools/quickapp-manager/internal/plugin/process"
	"github.com/hc3-tools/quickapp-manager/internal/updater"
)

// ErrPluginRegistration is returned when a plugin cannot be registered.
var ErrPluginRegistration = errors.New("plugin registration failed")

// JournalSize bounds the HTTP exchange journal shown in the debug panel.
const JournalSize = 200

// Runner starts the host with the assembled options and blocks until it exits.
type Runner func(*options.App) error

// Options configures New. Zero values select production behaviour.
type Options struct {
	Settings config.Settings

	// ResourceDir overrides the bundle resource directory.
	ResourceDir string
	// HomeDir overrides the user's home directory.
	HomeDir string
	// Debug enables the diagnostic log sink in release builds.
	Debug bool
	// LogWriter replaces the configured log output.
	LogWriter io.Writer

	Env      config.Environment
	Runtime  desktop.Runtime
	Launcher launcher.Launcher
	Metrics  *metrics.Metrics
	// Plugins replaces the default plugin set.
	Plugins []plugin.Plugin
	Assets  fs.FS
}

// App is a fully bootstrapped application ready to run.
type App struct {
	settings config.Settings
	assets   fs.FS

	registry *plugin.Registry
	host     *desktop.Host
	router   *events.Router
	menu     *wmenu.Menu
	surface  *commands.Surface
	metrics  *metrics.Metrics
	journal  *debug.Journal

	debug    bool
	layers   config.LoadReport
	presence map[string]bool
}

// New runs the startup sequence. Plugin, menu and logging failures are fatal; missing or
// broken .env files are not.
func New(opts Options) (*App, error) {
	env := opts.Env
	if env == nil {
		env = config.OSEnvironment{}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	host := desktop.NewHost(opts.Runtime)

	a := &App{
		settings: opts.Settings,
		assets:   opts.Assets,
		registry: plugin.NewRegistry(),
		host:     host,
		metrics:  m,
		journal:  debug.NewJournal(JournalSize),
		debug:    DebugBuild || opts.Debug,
	}

	plugins := opts.Plugins
	if plugins == nil {
		plugins = DefaultPlugins(opts.Settings, opts.Runtime, a.journal)
	}
	if err := a.registry.RegisterAll(plugins...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPluginRegistration, err)
	}

	tree, err := menu.NewController(opts.Settings.Window.Title).Build()
	if err != nil {
		return nil, err
	}

	a.router = events.NewRouter(host, m)
	a.menu, err = host.RenderMenu(tree, func(id string) { a.router.HandleMenuID(id) })
	if err != nil {
		return nil, err
	}

	if err := a.setupLogging(opts); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	logger := logging.WithComponent("app")
	logger.Info("startup", "plugins", a.registry.Names(), "debug", a.debug)

	a.layers = config.LoadLayers(env, config.DefaultSources(resourceDir(opts, logger), homeDir(opts, logger)))
	for _, l := range a.layers.Layers {
		m.RecordEnvLayer(l.Source.Name, string(l.Status))
	}

	a.presence = config.Presence(env)
	for _, name := range config.Variables {
		status := "NOT SET"
		if a.presence[name] {
			status = "set"
		}
		logger.Info("hc3 variable", "name", name, "status", status)
	}

	a.surface = commands.New(config.NewResolver(env), opts.Launcher, m)
	return a, nil
}

// DefaultPlugins returns the plugins registered in production.
func DefaultPlugins(s config.Settings, rt desktop.Runtime, journal *debug.Journal) []plugin.Plugin {
	return []plugin.Plugin{
		updater.NewPlugin(s.Updater),
		httpclient.New(httpclient.Config{
			Timeout:            time.Duration(s.HTTP.TimeoutSeconds) * time.Second,
			InsecureSkipVerify: s.HTTP.InsecureSkipVerify,
			Journal:            journal,
		}),
		dialog.New(rt),
		process.New(rt),
	}
}

func (a *App) setupLogging(opts Options) error {
	cfg := opts.Settings.Logging
	if a.debug {
		cfg = logging.DiagnosticConfig()
	}
	if opts.LogWriter != nil {
		return logging.SetupWriter(cfg, opts.LogWriter)
	}
	return logging.Setup(cfg)
}

func resourceDir(opts Options, logger *slog.Logger) string {
	if opts.ResourceDir != "" {
		return opts.ResourceDir
	}
	dir, err := ResourceDir()
	if err != nil {
		logger.Warn("resource directory unavailable", "error", err)
		return ""
	}
	return dir
}

func homeDir(opts Options, logger *slog.Logger) string {
	if opts.HomeDir != "" {
		return opts.HomeDir
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("home directory unavailable", "error", err)
		return ""
	}
	return dir
}

// Run hands the assembled options to runner.
func (a *App) Run(runner Runner) error {
	w := a.settings.Window
	return runner(&options.App{
		Title:     w.Title,
		Width:     w.Width,
		Height:    w.Height,
		MinWidth:  w.MinWidth,
		MinHeight: w.MinHeight,
		Menu:      a.menu,
		AssetServer: &assetserver.Options{
			Assets: a.assets,
		},
		OnStartup:  a.startup,
		OnShutdown: a.shutdown,
		Bind:       a.Bindings(),
		Mac: &mac.Options{
			TitleBar: mac.TitleBarDefault(),
		},
	})
}

// Bindings returns every object exposed to the UI.
func (a *App) Bindings() []any {
	core := []any{a.surface, metrics.NewReporter(a.metrics), debug.NewViewer(a.journal)}
	return append(core, a.registry.Bindings()...)
}

func (a *App) startup(ctx context.Context) {
	a.host.Startup(ctx)
	a.registry.Startup(ctx)
}

func (a *App) shutdown(ctx context.Context) {
	a.registry.Shutdown(ctx)
	a.host.Shutdown(ctx)
	if err := logging.Close(); err != nil {
		slog.Warn("closing log file", "error", err)
	}
}

// Debug reports whether the diagnostic sink is active.
func (a *App) Debug() bool { return a.debug }

// Layers returns the .env loading report.
func (a *App) Layers() config.LoadReport { return a.layers }

// Presence reports which HC3 variables were set after loading.
func (a *App) Presence() map[string]bool { return a.presence }

// Router returns the menu event router.
func (a *App) Router() *events.Router { return a.router }

// Surface returns the command surface.
func (a *App) Surface() *commands.Surface { return a.surface }
