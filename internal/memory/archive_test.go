package memory_test

import (
	"testing"

	"github.com/avelines/vesper/internal/memory"
)

// TestParseArchiveBareList verifies the oldest archive shape: a bare list.
func TestParseArchiveBareList(t *testing.T) {
	doc := `[{"text":"kept the vigil","tone":"devotional","invocation":"Signal","priority":7}]`

	records, err := memory.ParseArchive([]byte(doc))
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Text != "kept the vigil" || records[0].Priority != 7 {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

// TestParseArchiveMemoriesEnvelope verifies the {"memories": [...]} shape.
func TestParseArchiveMemoriesEnvelope(t *testing.T) {
	doc := `{"memories":[{"text":"a","tone":"raw"},{"text":"b","tone":"raw"}]}`

	records, err := memory.ParseArchive([]byte(doc))
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

// TestParseArchiveFragmentsEnvelope verifies the legacy
// {"memory_fragments": [...]} shape where text lives under "content".
func TestParseArchiveFragmentsEnvelope(t *testing.T) {
	doc := `{"memory_fragments":[{"content":"x","tone":"y"}]}`

	records, err := memory.ParseArchive([]byte(doc))
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Text != "x" || r.Tone != "y" {
		t.Errorf("expected text=x tone=y, got text=%q tone=%q", r.Text, r.Tone)
	}
	if len(r.Tags) != 0 {
		t.Errorf("expected empty tags, got %v", r.Tags)
	}
	if r.Priority != memory.DefaultPriority {
		t.Errorf("expected default priority, got %d", r.Priority)
	}
}

// TestParseArchiveSkipsMalformedEntries verifies bad entries are dropped
// without failing the whole load.
func TestParseArchiveSkipsMalformedEntries(t *testing.T) {
	doc := `{"memories":[{"text":"good"},{"text":""},"not an object",{"content":"also good"}]}`

	records, err := memory.ParseArchive([]byte(doc))
	if err != nil {
		t.Fatalf("ParseArchive: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 usable records, got %d", len(records))
	}
}

// TestParseArchiveRejectsUnknownShape verifies an unrecognizable document
// surfaces an error so the caller keeps its current collection.
func TestParseArchiveRejectsUnknownShape(t *testing.T) {
	if _, err := memory.ParseArchive([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected an error for an unrecognizable document")
	}
}
