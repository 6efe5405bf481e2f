package app

import (
	"os"
	"path/filepath"
)

// ResourceDir returns the directory holding the application's bundled resources: the
// executable's directory, or Contents/Resources inside a macOS bundle.
func ResourceDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return resourceDirFor(exe), nil
}

func resourceDirFor(exe string) string {
	dir := filepath.Dir(exe)
	if filepath.Base(dir) == "MacOS" && filepath.Base(filepath.Dir(dir)) == "Contents" {
		return filepath.Join(filepath.Dir(dir), "Resources")
	}
	return dir
}
