// Package archive provides the sources a memory collection can be loaded
// from and persisted to: a JSON document on disk (the historical shape) and
// a SQLite database for runtime-appended fragments.
package archive

import (
	"context"
	"log"

	"github.com/avelines/vesper/internal/memory"
)

// Source loads a full fragment collection.
type Source interface {
	Load(ctx context.Context) ([]memory.Record, error)
}

// Sink persists individual fragments as they are created at runtime.
type Sink interface {
	Save(ctx context.Context, r memory.Record) error
}

// Reload loads from src and replaces the store's collection. Any failure is
// logged, returned, and leaves the current collection in place; this path
// can never empty the store.
func Reload(ctx context.Context, src Source, store *memory.Store) error {
	records, err := src.Load(ctx)
	if err != nil {
		log.Printf("archive: load failed, keeping current collection: %v", err)
		return err
	}
	store.Replace(records)
	return nil
}
