package updater

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hc3-tools/quickapp-manager/internal/version"
)

// ProgressCallback receives bytes written so far and the expected total (-1 when unknown).
type ProgressCallback func(downloaded, total int64)

// Downloader fetches release archives.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader. A non-positive timeout means ten minutes.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Downloader{httpClient: &http.Client{Timeout: timeout}}
}

// Download writes url to destPath. A partial file is removed on failure.
func (d *Downloader) Download(ctx context.Context, url, destPath string, progress ProgressCallback) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "QuickAppManager-Updater/"+version.Short())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	var src io.Reader = resp.Body
	if progress != nil {
		src = &progressReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	}

	_, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("%w: %v", ErrDownloadFailed, copyErr)
	}
	return nil
}

type progressReader struct {
	r     io.Reader
	total int64
	done  int64
	fn    ProgressCallback
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}
	return n, err
}
