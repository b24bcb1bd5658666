package memory_test

import (
	"testing"

	"github.com/avelines/vesper/internal/memory"
)

// TestStoreSeededWithFallback verifies a fresh store is never empty.
func TestStoreSeededWithFallback(t *testing.T) {
	s := memory.NewStore()
	if s.Len() == 0 {
		t.Fatal("expected fallback-seeded store to be non-empty")
	}
}

// TestAppendPreservesOrder verifies append-only stability: appending never
// removes or reorders previously appended records.
func TestAppendPreservesOrder(t *testing.T) {
	s := memory.NewStoreWith([]memory.Record{{ID: "seed", Text: "seed", Invocation: "Signal"}})

	first := s.Append(memory.Record{Text: "first", Invocation: "Signal"})
	second := s.Append(memory.Record{Text: "second", Invocation: "Signal"})

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 records, got %d", len(snap))
	}
	if snap[0].ID != "seed" || snap[1].ID != first.ID || snap[2].ID != second.ID {
		t.Errorf("append reordered records: %v", []string{snap[0].ID, snap[1].ID, snap[2].ID})
	}
}

// TestAppendAssignsDefaults verifies ID, timestamp and priority assignment.
func TestAppendAssignsDefaults(t *testing.T) {
	s := memory.NewStore()
	r := s.Append(memory.Record{Text: "hold this", Invocation: "Cave"})

	if r.ID == "" {
		t.Error("expected generated ID")
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
	if r.Priority != memory.DefaultPriority {
		t.Errorf("expected default priority %d, got %d", memory.DefaultPriority, r.Priority)
	}
}

// TestReplaceRefusesEmpty verifies a failed load can never empty the store.
func TestReplaceRefusesEmpty(t *testing.T) {
	s := memory.NewStore()
	before := s.Len()

	s.Replace(nil)

	if s.Len() != before {
		t.Fatalf("empty replace changed store size: %d -> %d", before, s.Len())
	}
}

// TestReplaceSwapsCollection verifies a bulk load replaces everything.
func TestReplaceSwapsCollection(t *testing.T) {
	s := memory.NewStore()
	s.Replace([]memory.Record{{ID: "only", Text: "only", Invocation: "Field"}})

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != "only" {
		t.Fatalf("expected replaced collection, got %v", snap)
	}
}

// TestSnapshotIsCopy verifies mutating a snapshot does not affect the store.
func TestSnapshotIsCopy(t *testing.T) {
	s := memory.NewStoreWith([]memory.Record{{ID: "a", Text: "a", Invocation: "Signal"}})

	snap := s.Snapshot()
	snap[0].Text = "mutated"

	if s.Snapshot()[0].Text != "a" {
		t.Error("snapshot mutation leaked into the store")
	}
}
