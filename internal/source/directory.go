// Package source provides document source implementations for the scanner.
// Sources own all transport concerns and hand the scanner decoded plain
// text plus a filename.
package source

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/service"
)

// Directory reads plain-text documents from a folder. The file modification
// time stands in for the message date when filtering by range.
type Directory struct {
	path string
}

// NewDirectory creates a directory source rooted at path.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Name identifies this source in logs and errors.
func (d *Directory) Name() string {
	return fmt.Sprintf("directory(%s)", d.path)
}

// List returns one document per text file whose modification time falls in
// the range. Identity is a stable hash of the filename so repeated scans
// see the same ids.
func (d *Directory) List(ctx context.Context, start, end time.Time) ([]service.Document, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrSourceUnavailable, err)
	}

	var docs []service.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".text" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !start.IsZero() && info.ModTime().Before(start) {
			continue
		}
		if !end.IsZero() && info.ModTime().After(end) {
			continue
		}

		fullPath := filepath.Join(d.path, entry.Name())
		data, err := os.ReadFile(fullPath) // #nosec G304 -- path comes from operator config
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			absPath = fullPath
		}

		docs = append(docs, service.Document{
			ID:          documentID(entry.Name()),
			Filename:    entry.Name(),
			Subject:     strings.TrimSuffix(entry.Name(), ext),
			Text:        string(data),
			DownloadURL: "file://" + absPath,
		})
	}

	return docs, nil
}

// documentID derives a stable identity from the filename.
func documentID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%x", sum)[:16]
}
