//go:build windows

package updater

import (
	"fmt"
	"os"
)

// Windows locks a running .exe but allows renaming it, so it is moved aside first.
func replaceBinary(src, dst string) error {
	old := dst + ".old"
	_ = os.Remove(old)

	if err := os.Rename(dst, old); err != nil {
		return fmt.Errorf("move current binary aside: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		if restoreErr := os.Rename(old, dst); restoreErr != nil {
			return fmt.Errorf("replace binary: %v (restore: %v)", err, restoreErr)
		}
		return fmt.Errorf("replace binary: %w", err)
	}
	return nil
}

// cleanupOldBinary removes the .old file left by a previous update.
func cleanupOldBinary(exe string) {
	_ = os.Remove(exe + ".old")
}
