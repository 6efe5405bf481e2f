package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/plugin"
	"github.com/hc3-tools/quickapp-manager/internal/version"
)

// UpdateInfo is returned to the UI after a check.
type UpdateInfo struct {
	Available      bool      `json:"available"`
	CurrentVersion string    `json:"current_version"`
	NewVersion     string    `json:"new_version,omitempty"`
	ReleaseURL     string    `json:"release_url,omitempty"`
	ReleaseNotes   string    `json:"release_notes,omitempty"`
	PublishedAt    time.Time `json:"published_at,omitempty"`
}

// InstallResult describes a completed update. The new binary runs after a relaunch.
type InstallResult struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

// Updater compares the running version with the latest GitHub release and
// installs newer ones.
type Updater struct {
	config     Config
	github     *GitHubClient
	downloader *Downloader
	installer  *Installer
	current    func() string
}

// New creates a new Updater.
func New(cfg Config) (*Updater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Updater{
		config:     cfg,
		github:     NewGitHubClient(cfg.APIURL, cfg.GitHubOwner, cfg.GitHubRepo, cfg.Timeout),
		downloader: NewDownloader(0),
		installer:  NewInstaller(),
		current:    version.Short,
	}, nil
}

// CheckForUpdate reports whether a newer release exists. Up to date is not an error.
func (u *Updater) CheckForUpdate(ctx context.Context) (UpdateInfo, error) {
	info := UpdateInfo{CurrentVersion: u.current()}

	if !u.config.Enabled {
		return info, ErrDisabled
	}

	release, err := u.newerRelease(ctx)
	if err != nil || release == nil {
		return info, err
	}

	info.Available = true
	info.NewVersion = release.TagName
	info.ReleaseURL = release.HTMLURL
	info.ReleaseNotes = release.Body
	info.PublishedAt = release.PublishedAt
	return info, nil
}

// DownloadAndInstall fetches the platform archive of the newest release,
// verifies it against the release checksums and replaces the running binary.
// It returns ErrNoUpdateAvailable when the running version is current.
func (u *Updater) DownloadAndInstall(ctx context.Context, progress ProgressCallback) (InstallResult, error) {
	if !u.config.Enabled {
		return InstallResult{}, ErrDisabled
	}

	release, err := u.newerRelease(ctx)
	if err != nil {
		return InstallResult{}, err
	}
	if release == nil {
		return InstallResult{}, ErrNoUpdateAvailable
	}

	asset, err := u.github.FindAssetForPlatform(release)
	if err != nil {
		return InstallResult{}, err
	}
	sums, err := u.github.GetChecksums(ctx, release)
	if err != nil {
		return InstallResult{}, err
	}
	expected, ok := sums[asset.Name]
	if !ok {
		return InstallResult{}, fmt.Errorf("%w: no checksum listed for %s", ErrChecksumMismatch, asset.Name)
	}

	dir, err := os.MkdirTemp("", "quickapp-manager-update-")
	if err != nil {
		return InstallResult{}, fmt.Errorf("create download dir: %w", err)
	}
	defer os.RemoveAll(dir)

	archive := filepath.Join(dir, asset.Name)
	if err := u.downloader.Download(ctx, asset.BrowserDownloadURL, archive, progress); err != nil {
		return InstallResult{}, err
	}
	if err := VerifyChecksum(archive, expected); err != nil {
		return InstallResult{}, err
	}

	path, err := u.installer.Install(ctx, archive)
	if err != nil {
		return InstallResult{}, err
	}
	return InstallResult{Version: release.TagName, Path: path}, nil
}

// newerRelease returns the latest release if it is newer than the running
// version, or nil when there is nothing to install.
func (u *Updater) newerRelease(ctx context.Context) (*Release, error) {
	release, err := u.github.GetLatestRelease(ctx, u.config.Channel.IsPrerelease())
	if err != nil {
		if errors.Is(err, ErrNoUpdateAvailable) {
			return nil, nil
		}
		return nil, err
	}

	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, err
	}

	// Development builds carry "dev" and always compare older than a release.
	running, err := ParseVersion(u.current())
	if err != nil {
		running = Version{}
	}

	if !latest.IsNewerThan(running) {
		return nil, nil
	}
	return release, nil
}

// Plugin exposes the updater to the UI.
type Plugin struct {
	config Config

	mu  sync.RWMutex
	ctx context.Context
	u   *Updater
}

// NewPlugin creates the updater plugin.
func NewPlugin(cfg Config) *Plugin {
	return &Plugin{config: cfg, ctx: context.Background()}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "updater" }

// Register implements plugin.Plugin.
func (p *Plugin) Register(r *plugin.Registrar) error {
	u, err := New(p.config)
	if err != nil {
		return err
	}
	p.u = u

	r.Bind(&Service{plugin: p})
	r.OnStartup(func(ctx context.Context) {
		p.mu.Lock()
		p.ctx = ctx
		p.mu.Unlock()
	})
	return nil
}

func (p *Plugin) hostContext() context.Context {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx
}

// Service is the object bound to the UI.
type Service struct {
	plugin *Plugin
}

// CheckForUpdate queries GitHub for a newer release.
func (s *Service) CheckForUpdate() (UpdateInfo, error) {
	p := s.plugin
	timeout := p.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(p.hostContext(), timeout)
	defer cancel()

	info, err := p.u.CheckForUpdate(ctx)
	if err != nil {
		logging.WithComponent("updater").Warn("update check failed", "error", err)
		return info, err
	}
	logging.WithComponent("updater").Info("update check complete",
		"current", info.CurrentVersion, "available", info.Available, "latest", info.NewVersion)
	return info, nil
}

// DownloadAndInstall installs the newest release over the running binary.
// The UI asks the user to relaunch afterwards.
func (s *Service) DownloadAndInstall() (InstallResult, error) {
	logger := logging.WithComponent("updater")

	var last int64
	progress := func(done, total int64) {
		if total <= 0 {
			return
		}
		if pct := done * 100 / total; pct >= last+25 {
			last = pct
			logger.Debug("downloading update", "percent", pct)
		}
	}

	res, err := s.plugin.u.DownloadAndInstall(s.plugin.hostContext(), progress)
	if err != nil {
		logger.Warn("update install failed", "error", err)
		return res, err
	}
	logger.Info("update installed", "version", res.Version, "path", res.Path)
	return res, nil
}
