//go:build !darwin && !windows

package launcher

// Default returns the freedesktop launcher.
func Default() Launcher {
	return Command{Name: "xdg-open"}
}
