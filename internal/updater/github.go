package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/version"
)

const githubAPIURL = "https://api.github.com"

// GitHubClient reads the GitHub Releases API.
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
}

// Release represents a GitHub release.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
	ContentType        string `json:"content_type"`
}

// ChecksumsAsset is the sha256sum listing published with every release.
const ChecksumsAsset = "checksums.txt"

// NewGitHubClient creates a client for owner/repo. An empty baseURL means api.github.com.
func NewGitHubClient(baseURL, owner, repo string, timeout time.Duration) *GitHubClient {
	if baseURL == "" {
		baseURL = githubAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GitHubClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		owner:      owner,
		repo:       repo,
	}
}

// GetLatestRelease fetches the newest non-draft release.
func (c *GitHubClient) GetLatestRelease(ctx context.Context, includePrerelease bool) (*Release, error) {
	if !includePrerelease {
		var release Release
		url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)
		if err := c.getJSON(ctx, url, &release); err != nil {
			return nil, err
		}
		return &release, nil
	}

	var releases []Release
	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=30", c.baseURL, c.owner, c.repo)
	if err := c.getJSON(ctx, url, &releases); err != nil {
		return nil, err
	}

	valid := releases[:0]
	for _, r := range releases {
		if !r.Draft {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no releases found", ErrNoUpdateAvailable)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		vi, errI := ParseVersion(valid[i].TagName)
		vj, errJ := ParseVersion(valid[j].TagName)
		if errI == nil && errJ == nil {
			return vi.IsNewerThan(vj)
		}
		return valid[i].PublishedAt.After(valid[j].PublishedAt)
	})

	return &valid[0], nil
}

func (c *GitHubClient) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "QuickAppManager-Updater/"+version.Short())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: release not found", ErrNoUpdateAvailable)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return fmt.Errorf("%w: forbidden", ErrNetworkError)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrNetworkError, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// GetChecksums downloads and parses the release's checksums.txt.
func (c *GitHubClient) GetChecksums(ctx context.Context, release *Release) (map[string]string, error) {
	asset := release.findAsset(ChecksumsAsset)
	if asset == nil {
		return nil, fmt.Errorf("%w: %s missing from %s", ErrAssetNotFound, ChecksumsAsset, release.TagName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "QuickAppManager-Updater/"+version.Short())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrDownloadFailed, ChecksumsAsset, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read checksums: %w", err)
	}
	return ParseChecksumFile(string(body))
}

// FindAssetForPlatform picks the archive built for the running OS and architecture.
func (c *GitHubClient) FindAssetForPlatform(release *Release) (*Asset, error) {
	name := AssetName(release.TagName, runtime.GOOS, runtime.GOARCH)
	if asset := release.findAsset(name); asset != nil {
		return asset, nil
	}
	return nil, fmt.Errorf("%w: looking for %s", ErrAssetNotFound, name)
}

// AssetName follows the GoReleaser layout quickapp-manager_<version>_<os>_<arch>.<ext>,
// with .zip on Windows and .tar.gz elsewhere.
func AssetName(tag, goos, goarch string) string {
	ext := ".tar.gz"
	if goos == "windows" {
		ext = ".zip"
	}
	return fmt.Sprintf("quickapp-manager_%s_%s_%s%s", strings.TrimPrefix(tag, "v"), goos, goarch, ext)
}

func (r *Release) findAsset(name string) *Asset {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i]
		}
	}
	return nil
}
