package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ScreenerFetcher/internal/domain"
)

func newServer(t *testing.T, status int, bodySize int, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write(bytes.Repeat([]byte("x"), bodySize))
	}))
}

func TestFetchDownloads(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newServer(t, http.StatusOK, 1000, &hits)
	defer server.Close()

	d := NewDownloader(server.Client(), nil)
	dest := filepath.Join(t.TempDir(), "Transcripts", "Transcript_2023-08.pdf")

	if got := d.Fetch(context.Background(), server.URL, dest, 1000); got != domain.OutcomeDownloaded {
		t.Fatalf("expected downloaded, got %s", got)
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if info.Size() != 1000 {
		t.Fatalf("unexpected size: %d", info.Size())
	}
}

func TestFetchUndersizedBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		bodySize int
		minBytes int64
		want     domain.FetchOutcome
	}{
		{"999 deleted", 999, 1000, domain.OutcomeFailed},
		{"1000 kept", 1000, 1000, domain.OutcomeDownloaded},
		{"4999 deleted", 4999, 5000, domain.OutcomeFailed},
		{"5000 kept", 5000, 5000, domain.OutcomeDownloaded},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int64
			server := newServer(t, http.StatusOK, tc.bodySize, &hits)
			defer server.Close()

			d := NewDownloader(server.Client(), nil)
			dest := filepath.Join(t.TempDir(), "doc.pdf")

			if got := d.Fetch(context.Background(), server.URL, dest, tc.minBytes); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}

			_, err := os.Stat(dest)
			if tc.want == domain.OutcomeFailed && !os.IsNotExist(err) {
				t.Fatalf("undersized file must be deleted, stat err: %v", err)
			}
			if tc.want == domain.OutcomeDownloaded && err != nil {
				t.Fatalf("kept file missing: %v", err)
			}
		})
	}
}

func TestFetchSkipsExistingWithoutNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newServer(t, http.StatusOK, 2000, &hits)
	defer server.Close()

	d := NewDownloader(server.Client(), nil)
	dest := filepath.Join(t.TempDir(), "doc.pdf")

	if got := d.Fetch(context.Background(), server.URL, dest, 1000); got != domain.OutcomeDownloaded {
		t.Fatalf("first attempt: expected downloaded, got %s", got)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 request after first fetch, got %d", hits.Load())
	}

	if got := d.Fetch(context.Background(), server.URL, dest, 1000); got != domain.OutcomeSkipped {
		t.Fatalf("second attempt: expected skipped_existing, got %s", got)
	}
	if hits.Load() != 1 {
		t.Fatalf("skip must not issue a network request, got %d requests", hits.Load())
	}
}

func TestFetchRetriesUndersizedExisting(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newServer(t, http.StatusOK, 6000, &hits)
	defer server.Close()

	d := NewDownloader(server.Client(), nil)
	dest := filepath.Join(t.TempDir(), "doc.pdf")

	// A leftover at exactly the threshold is not trusted and is re-fetched.
	if err := os.WriteFile(dest, bytes.Repeat([]byte("x"), 5000), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if got := d.Fetch(context.Background(), server.URL, dest, 5000); got != domain.OutcomeDownloaded {
		t.Fatalf("expected re-download, got %s", got)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected exactly 1 request, got %d", hits.Load())
	}
}

func TestFetchFailsOnHTTPError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newServer(t, http.StatusNotFound, 0, &hits)
	defer server.Close()

	d := NewDownloader(server.Client(), nil)
	dest := filepath.Join(t.TempDir(), "doc.pdf")

	if got := d.Fetch(context.Background(), server.URL, dest, 1000); got != domain.OutcomeFailed {
		t.Fatalf("expected failed, got %s", got)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("failed fetch must leave no file behind")
	}
}
