// Package dialog exposes native message and confirmation dialogs to the UI.
package dialog

import (
	"strings"

	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/hc3-tools/quickapp-manager/internal/desktop"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
)

// AskOptions configures a confirmation dialog.
type AskOptions struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	OKLabel     string `json:"okLabel,omitempty"`
	CancelLabel string `json:"cancelLabel,omitempty"`
}

// Plugin registers the dialog service.
type Plugin struct {
	rt   desktop.Runtime
	host plugin.HostContext
}

// New creates the plugin. A nil rt uses the Wails runtime.
func New(rt desktop.Runtime) *Plugin {
	if rt == nil {
		rt = desktop.WailsRuntime{}
	}
	return &Plugin{rt: rt}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "dialog" }

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

// Ask shows a two-button dialog and reports whether the OK button was chosen.
func (s *Service) Ask(opts AskOptions) (bool, error) {
	ctx, err := s.plugin.host.Get()
	if err != nil {
		return false, err
	}

	ok := opts.OKLabel
	if ok == "" {
		ok = "OK"
	}
	cancel := opts.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}

	result, err := s.plugin.rt.MessageDialog(ctx, wruntime.MessageDialogOptions{
		Type:          wruntime.QuestionDialog,
		Title:         opts.Title,
		Message:       opts.Message,
		Buttons:       []string{ok, cancel},
		DefaultButton: ok,
		CancelButton:  cancel,
	})
	if err != nil {
		return false, err
	}
	return accepted(result, ok), nil
}

// Message shows an informational dialog with a single button.
func (s *Service) Message(title, text string) error {
	ctx, err := s.plugin.host.Get()
	if err != nil {
		return err
	}
	_, err = s.plugin.rt.MessageDialog(ctx, wruntime.MessageDialogOptions{
		Type:    wruntime.InfoDialog,
		Title:   title,
		Message: text,
	})
	return err
}

// accepted interprets a dialog result. Windows and Linux ignore custom button labels and
// answer "Yes" or "No"; macOS answers with the label.
func accepted(result, okLabel string) bool {
	if result == okLabel {
		return true
	}
	switch strings.ToLower(result) {
	case "yes", "ok":
		return true
	}
	return false
}
