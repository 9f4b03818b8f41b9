// Package fetch downloads remote artifacts or copies local files into a
// job workspace. Failures are not retried here; the orchestrator's
// failed-job path owns retry policy.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DownloadError reports a non-2xx response while fetching an image or PDF.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s failed with status %d", e.URL, e.StatusCode)
}

// Fetcher resolves source references into files on disk.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Fetch resolves sourceRef into destPath. References starting with "http"
// are downloaded; everything else is treated as a local filesystem path and
// copied byte for byte.
func (f *Fetcher) Fetch(ctx context.Context, sourceRef, destPath string) error {
	if strings.HasPrefix(sourceRef, "http") {
		return f.download(ctx, sourceRef, destPath)
	}
	return copyLocal(sourceRef, destPath)
}

// FetchPDF downloads a pre-rendered PDF to destPath.
func (f *Fetcher) FetchPDF(ctx context.Context, url, destPath string) error {
	return f.download(ctx, url, destPath)
}

func (f *Fetcher) download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

func copyLocal(sourcePath, destPath string) error {
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", sourcePath, err)
	}

	src, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("failed to open source image %s: %w", absPath, err)
	}
	defer src.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", absPath, err)
	}
	return nil
}
