package memory

import (
	"encoding/json"
	"fmt"
	"time"
)

// Archive documents have accumulated three legacy shapes over time:
//
//  1. a bare JSON list of records,
//  2. an object with a "memories" list,
//  3. an object with a "memory_fragments" list whose entries carry the text
//     under "content".
//
// ParseArchive resolves the shape once at the load boundary and normalizes
// everything into []Record. Malformed entries are skipped rather than
// propagated; an error is returned only when no shape matches at all.
func ParseArchive(data []byte) ([]Record, error) {
	var envelope struct {
		Memories        []json.RawMessage `json:"memories"`
		MemoryFragments []json.RawMessage `json:"memory_fragments"`
	}

	if err := json.Unmarshal(data, &envelope); err == nil {
		if len(envelope.Memories) > 0 {
			return normalizeEntries(envelope.Memories), nil
		}
		if len(envelope.MemoryFragments) > 0 {
			return normalizeEntries(envelope.MemoryFragments), nil
		}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("memory: archive document matches no known shape: %w", err)
	}
	return normalizeEntries(list), nil
}

// archiveEntry accepts both the canonical field names and the legacy
// "content" spelling for the fragment text.
type archiveEntry struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Content    string   `json:"content"`
	Tone       string   `json:"tone"`
	Tags       []string `json:"tags"`
	Invocation string   `json:"invocation"`
	Priority   int      `json:"priority"`
	Source     string   `json:"source"`
	Created    string   `json:"created"`
}

func normalizeEntries(raw []json.RawMessage) []Record {
	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var e archiveEntry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		text := e.Text
		if text == "" {
			text = e.Content
		}
		if text == "" {
			continue
		}

		r := Record{
			ID:         e.ID,
			Text:       text,
			Tone:       e.Tone,
			Tags:       e.Tags,
			Invocation: e.Invocation,
			Priority:   e.Priority,
			Source:     e.Source,
		}
		if r.ID == "" {
			r.ID = newRecordID()
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		if r.Priority == 0 {
			r.Priority = DefaultPriority
		}
		if r.Source == "" {
			r.Source = "archive"
		}
		if t, err := time.Parse(time.RFC3339, e.Created); err == nil {
			r.CreatedAt = t
		} else {
			r.CreatedAt = time.Now()
		}
		records = append(records, r)
	}
	return records
}
