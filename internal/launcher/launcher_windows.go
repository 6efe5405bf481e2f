//go:build windows

package launcher

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type shellExecute struct{}

// Launch asks the shell to open url with its registered handler.
func (shellExecute) Launch(url string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	target, err := windows.UTF16PtrFromString(url)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	if err := windows.ShellExecute(0, verb, target, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	return nil
}

// Default returns the Windows launcher.
func Default() Launcher {
	return shellExecute{}
}
