// Package updater checks GitHub releases for a newer version of the application
// and replaces the running binary with it.
package updater

import "errors"

var (
	// ErrNoUpdateAvailable indicates the current version is up to date.
	ErrNoUpdateAvailable = errors.New("no update available")

	// ErrDisabled indicates update checks are turned off in the settings.
	ErrDisabled = errors.New("update checks disabled")

	// ErrInvalidVersion indicates the version string is malformed.
	ErrInvalidVersion = errors.New("invalid version format")

	// ErrNetworkError indicates a network-related failure.
	ErrNetworkError = errors.New("network error")

	// ErrRateLimited indicates the GitHub API rate limit was exceeded.
	ErrRateLimited = errors.New("GitHub API rate limited")

	// ErrAssetNotFound indicates no release asset matches the current platform.
	ErrAssetNotFound = errors.New("release asset not found for platform")

	// ErrDownloadFailed indicates the download could not be completed.
	ErrDownloadFailed = errors.New("download failed")

	// ErrChecksumMismatch indicates the downloaded archive failed verification.
	ErrChecksumMismatch = errors.New("checksum verification failed")

	// ErrInstallFailed indicates the new binary could not be put in place.
	ErrInstallFailed = errors.New("installation failed")

	// ErrBackupFailed indicates the running binary could not be backed up.
	ErrBackupFailed = errors.New("backup failed")

	// ErrRestoreFailed indicates the rollback could not be completed.
	ErrRestoreFailed = errors.New("restore from backup failed")
)
