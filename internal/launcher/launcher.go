// Package launcher hands URLs to the operating system's default handler.
package launcher

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrLaunchFailed wraps every failure to start the OS handler.
var ErrLaunchFailed = errors.New("failed to open URL")

// Launcher opens a URL with the platform's default handler without waiting for it.
type Launcher interface {
	Launch(url string) error
}

// Func adapts a function to Launcher.
type Func func(url string) error

// Launch implements Launcher.
func (f Func) Launch(url string) error { return f(url) }

// Command launches by spawning Name with Args followed by the URL.
type Command struct {
	Name string
	Args []string
}

// Launch starts the command and returns once the process exists. The child is reaped
// in the background and its exit status is ignored.
func (c Command) Launch(url string) error {
	args := append(append([]string(nil), c.Args...), url)
	cmd := exec.Command(c.Name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
