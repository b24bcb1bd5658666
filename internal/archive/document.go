package archive

import (
	"context"
	"fmt"
	"os"

	"github.com/avelines/vesper/internal/memory"
)

// DocumentSource reads the archive JSON document from disk. The document may
// use any of the legacy shapes understood by memory.ParseArchive.
type DocumentSource struct {
	path string
}

// NewDocumentSource returns a source for the given file path.
func NewDocumentSource(path string) *DocumentSource {
	return &DocumentSource{path: path}
}

// Load reads and normalizes the document.
func (d *DocumentSource) Load(ctx context.Context) ([]memory.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", d.path, err)
	}

	records, err := memory.ParseArchive(data)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Path returns the document location, used by the change watcher.
func (d *DocumentSource) Path() string {
	return d.path
}

var _ Source = (*DocumentSource)(nil)
