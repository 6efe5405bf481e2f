// Package process lets the UI quit or restart the application.
package process

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/hc3-tools/quickapp-manager/internal/desktop"
	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
)

// Spawner starts a detached copy of the program.
type Spawner func(path string, args []string) error

// Plugin registers the process service.
type Plugin struct {
	rt    desktop.Runtime
	spawn Spawner
	host  plugin.HostContext
}

// New creates the plugin. A nil rt uses the Wails runtime.
func New(rt desktop.Runtime) *Plugin {
	if rt == nil {
		rt = desktop.WailsRuntime{}
	}
	return &Plugin{rt: rt, spawn: startDetached}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "process" }

// Register implements plugin.Plugin.
func (p *Plugin) Register(r *plugin.Registrar) error {
	p.host.Track(r)
	r.Bind(&Service{plugin: p})
	return nil
}

// Service is bound to the UI.
type Service struct {
	plugin *Plugin
}

// Exit asks the host to quit. It is a no-op before startup.
func (s *Service) Exit() {
	ctx, err := s.plugin.host.Get()
	if err != nil {
		return
	}
	logging.WithComponent("process").Info("exit requested")
	s.plugin.rt.Quit(ctx)
}

// Relaunch starts a new instance with the same arguments and quits this one.
func (s *Service) Relaunch() error {
	ctx, err := s.plugin.host.Get()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := s.plugin.spawn(exe, os.Args[1:]); err != nil {
		return fmt.Errorf("relaunch %s: %w", exe, err)
	}

	logging.WithComponent("process").Info("relaunching", "path", exe)
	s.plugin.rt.Quit(ctx)
	return nil
}

func startDetached(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
