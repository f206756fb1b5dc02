// Package archive builds the final zip offered to the caller.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"ScreenerFetcher/internal/ports"
)

// ZipPackager walks a directory tree and produces an in-memory zip archive.
type ZipPackager struct{}

var _ ports.Archiver = ZipPackager{}

// Package zips every regular file under root, in lexical walk order, using
// paths relative to root's parent so the archive's top-level entry is the
// company's own folder.
func (ZipPackager) Package(root string) ([]byte, error) {
	base := filepath.Dir(root)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("add entry %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		_, err = io.Copy(w, f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
