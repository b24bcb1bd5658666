package memory

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// newRecordID returns a lexicographically sortable record identifier.
func newRecordID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Store holds the in-memory fragment collection. It is seeded with the
// fallback set, optionally replaced in bulk by an archive load, and appended
// to at runtime. Appends are local-only and never fail.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore returns a store seeded with the fallback collection.
func NewStore() *Store {
	return &Store{records: Fallback()}
}

// NewStoreWith returns a store seeded with the given records. An empty seed
// falls back to the built-in collection.
func NewStoreWith(records []Record) *Store {
	if len(records) == 0 {
		return NewStore()
	}
	return &Store{records: records}
}

// Append adds one record, assigning an ID and creation timestamp when absent.
// The relative order of previously appended records is preserved.
func (s *Store) Append(r Record) Record {
	if r.ID == "" {
		r.ID = newRecordID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Priority == 0 {
		r.Priority = DefaultPriority
	}

	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return r
}

// Replace swaps the collection for the given records. An empty replacement is
// refused so that a failed archive load can never leave the store empty.
func (s *Store) Replace(records []Record) {
	if len(records) == 0 {
		log.Println("memory: ignoring empty replacement, keeping current collection")
		return
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	log.Printf("memory: collection replaced with %d records", len(records))
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
