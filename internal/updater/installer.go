package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
)

// BinaryName is the executable shipped in release archives.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "quickapp-manager.exe"
	}
	return "quickapp-manager"
}

// Installer swaps the running binary for one taken from a release archive.
type Installer struct {
	binaryName string
	executable func() (string, error)
}

// NewInstaller creates an Installer for the running executable.
func NewInstaller() *Installer {
	return &Installer{binaryName: BinaryName(), executable: os.Executable}
}

// Install extracts the binary from archivePath and puts it in place of the
// running one. The previous binary is kept as <path>.bak and restored if the
// replacement fails.
func (i *Installer) Install(ctx context.Context, archivePath string) (string, error) {
	target, err := i.CurrentBinaryPath()
	if err != nil {
		return "", err
	}
	cleanupOldBinary(target)

	backup, err := i.Backup(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackupFailed, err)
	}
	logger := logging.WithComponent("updater")
	logger.Debug("backup created", "path", backup)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	staged := target + ".new"
	if err := i.ExtractBinary(archivePath, staged); err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(staged, 0o755); err != nil {
			_ = os.Remove(staged)
			return "", fmt.Errorf("%w: chmod: %v", ErrInstallFailed, err)
		}
	}

	if err := replaceBinary(staged, target); err != nil {
		_ = os.Remove(staged)
		logger.Error("replace failed, restoring backup", "error", err)
		if restoreErr := i.Restore(backup, target); restoreErr != nil {
			return "", fmt.Errorf("%w: %v (%v)", ErrInstallFailed, err, restoreErr)
		}
		return "", fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}

	logger.Info("binary replaced", "path", target)
	return target, nil
}

// CurrentBinaryPath resolves the running executable through symlinks.
func (i *Installer) CurrentBinaryPath() (string, error) {
	exe, err := i.executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", exe, err)
	}
	return resolved, nil
}

// Backup copies path to path.bak, keeping its mode.
func (i *Installer) Backup(path string) (string, error) {
	backup := path + ".bak"
	_ = os.Remove(backup)

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if err := copyFile(path, backup, info.Mode()); err != nil {
		_ = os.Remove(backup)
		return "", err
	}
	return backup, nil
}

// Restore moves backup back over path.
func (i *Installer) Restore(backup, path string) error {
	if err := os.Rename(backup, path); err != nil {
		return fmt.Errorf("%w: %v", ErrRestoreFailed, err)
	}
	return nil
}

// ExtractBinary writes the archive member named like the binary to dest.
// Supported formats are .tar.gz, .tgz and .zip.
func (i *Installer) ExtractBinary(archivePath, dest string) error {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return i.extractTarGz(archivePath, dest)
	case strings.HasSuffix(lower, ".zip"):
		return i.extractZip(archivePath, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

func (i *Installer) extractTarGz(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == i.binaryName {
			return writeFile(dest, tr)
		}
	}
	return fmt.Errorf("%s not found in archive", i.binaryName)
}

func (i *Installer) extractZip(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || filepath.Base(f.Name) != i.binaryName {
			continue
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		defer src.Close()
		return writeFile(dest, src)
	}
	return fmt.Errorf("%s not found in archive", i.binaryName)
}

func writeFile(dest string, r io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
