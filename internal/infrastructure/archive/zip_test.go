package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestPackagePreservesRelativePaths(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	companyDir := filepath.Join(base, "Acme Ltd")

	files := map[string]string{
		filepath.Join(companyDir, "Annual_Reports", "Annual_Report_2022.pdf"):    "annual-body",
		filepath.Join(companyDir, "Transcripts", "Transcript_2023-08.pdf"):       "transcript-body",
		filepath.Join(companyDir, "Credit_Ratings", "Credit_Rating_2023-06-15_CRISIL.pdf"): "rating-body",
	}
	for path, body := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	data, err := ZipPackager{}.Package(companyDir)
	if err != nil {
		t.Fatalf("package: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != len(files) {
		t.Fatalf("expected %d entries, got %d", len(files), len(zr.File))
	}

	want := map[string]string{
		"Acme Ltd/Annual_Reports/Annual_Report_2022.pdf":                 "annual-body",
		"Acme Ltd/Transcripts/Transcript_2023-08.pdf":                    "transcript-body",
		"Acme Ltd/Credit_Ratings/Credit_Rating_2023-06-15_CRISIL.pdf":    "rating-body",
	}
	for _, f := range zr.File {
		body, ok := want[f.Name]
		if !ok {
			t.Fatalf("unexpected entry %s", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		if string(got) != body {
			t.Fatalf("entry %s: unexpected body %q", f.Name, got)
		}
	}
}

func TestPackageSkipsDirectoriesAndIsDeterministic(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	companyDir := filepath.Join(base, "Acme")
	if err := os.MkdirAll(filepath.Join(companyDir, "Presentations"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"PPT_2023-11.pdf", "PPT_2023-08.pdf"} {
		if err := os.WriteFile(filepath.Join(companyDir, "Presentations", name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	data, err := ZipPackager{}.Package(companyDir)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	// Walk order is lexical, so entries come out sorted.
	if zr.File[0].Name != "Acme/Presentations/PPT_2023-08.pdf" ||
		zr.File[1].Name != "Acme/Presentations/PPT_2023-11.pdf" {
		t.Fatalf("unexpected order: %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
}
