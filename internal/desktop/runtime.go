// Package desktop binds the application to the Wails webview host.
package desktop

import (
	"context"

	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the subset of the Wails runtime the application uses. Every call needs the
// context Wails passes to OnStartup.
type Runtime interface {
	EventsEmit(ctx context.Context, name string, data ...any)
	EventsOn(ctx context.Context, name string, callback func(data ...any)) func()
	MessageDialog(ctx context.Context, opts wruntime.MessageDialogOptions) (string, error)
	Hide(ctx context.Context)
	Show(ctx context.Context)
	Quit(ctx context.Context)
}

// WailsRuntime forwards to github.com/wailsapp/wails/v2/pkg/runtime.
type WailsRuntime struct{}

func (WailsRuntime) EventsEmit(ctx context.Context, name string, data ...any) {
	wruntime.EventsEmit(ctx, name, data...)
}

func (WailsRuntime) EventsOn(ctx context.Context, name string, callback func(data ...any)) func() {
	return wruntime.EventsOn(ctx, name, callback)
}

func (WailsRuntime) MessageDialog(ctx context.Context, opts wruntime.MessageDialogOptions) (string, error) {
	return wruntime.MessageDialog(ctx, opts)
}

func (WailsRuntime) Hide(ctx context.Context) { wruntime.Hide(ctx) }
func (WailsRuntime) Show(ctx context.Context) { wruntime.Show(ctx) }
func (WailsRuntime) Quit(ctx context.Context) { wruntime.Quit(ctx) }
