//go:build darwin

package launcher

// Default returns the macOS launcher.
func Default() Launcher {
	return Command{Name: "open"}
}
