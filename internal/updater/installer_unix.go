//go:build !windows

package updater

import "os"

// A running executable can be renamed over on Unix; the old inode lives until exit.
func replaceBinary(src, dst string) error {
	return os.Rename(src, dst)
}

func cleanupOldBinary(string) {}
