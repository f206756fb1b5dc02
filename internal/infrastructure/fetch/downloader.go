// Package fetch persists document URLs to disk with idempotent skip checks
// and undersized-response rejection.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/ports"
)

// A generic browser-like identity; some document hosts reject default Go UAs.
const downloadUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Downloader performs single best-effort GETs to disk. No retries: the run
// favors partial results over stalling on a flaky host.
type Downloader struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Fetcher = (*Downloader)(nil)

// NewDownloader wires an HTTP client; the timeout defaults to 60 seconds.
func NewDownloader(client *http.Client, log *slog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{client: client, logger: log}
}

// Fetch downloads fileURL to dest. An existing file larger than minBytes is
// trusted and skipped without network access, which makes re-runs idempotent.
// A downloaded body smaller than minBytes is deleted and reported failed:
// undersized responses are typically rendered error pages, not documents.
func (d *Downloader) Fetch(ctx context.Context, fileURL, dest string, minBytes int64) domain.FetchOutcome {
	if info, err := os.Stat(dest); err == nil && info.Size() > minBytes {
		return domain.OutcomeSkipped
	}

	if err := d.download(ctx, fileURL, dest, minBytes); err != nil {
		d.debug("download failed", "url", fileURL, "error", err)
		return domain.OutcomeFailed
	}
	return domain.OutcomeDownloaded
}

func (d *Downloader) download(ctx context.Context, fileURL, dest string, minBytes int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("source returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("write file: %w", err)
	}

	if written < minBytes {
		_ = os.Remove(dest)
		return fmt.Errorf("undersized response: %d bytes", written)
	}
	return nil
}

func (d *Downloader) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
