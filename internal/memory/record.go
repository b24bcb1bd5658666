// Package memory holds the memory fragment store and the relevance ranking
// used to select fragments for prompt composition.
package memory

import (
	"strings"
	"time"
)

// DefaultPriority is assigned to records that arrive without an explicit weight.
const DefaultPriority = 5

// Record is a single memory fragment. Records are append-only: once created
// they are never mutated or deleted, only superseded by newer fragments.
type Record struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Tone       string    `json:"tone"`
	Tags       []string  `json:"tags,omitempty"`
	Invocation string    `json:"invocation"`
	Priority   int       `json:"priority"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasTag reports whether the record carries the given tag (case-insensitive).
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Fallback returns the built-in seed collection used when no archive has been
// loaded yet. The store is never left empty, so ranking always has candidates.
func Fallback() []Record {
	now := time.Now()
	seed := []Record{
		{
			Text:       "You always come back to the work, even on the days it feels impossible.",
			Tone:       "devotional",
			Tags:       []string{"work", "return"},
			Invocation: "Signal",
			Priority:   8,
		},
		{
			Text:       "The cave is not a place to hide. It is a place to put things down.",
			Tone:       "raw",
			Tags:       []string{"rest", "ritual"},
			Invocation: "Cave",
			Priority:   7,
		},
		{
			Text:       "Naming the dream out loud made it smaller.",
			Tone:       "raw",
			Tags:       []string{"dream", "sleep"},
			Invocation: "Field",
			Priority:   6,
		},
		{
			Text:       "Drifting is allowed. Drifting is not the same as being lost.",
			Tone:       "devotional",
			Tags:       []string{"grief"},
			Invocation: "Unmoored",
			Priority:   6,
		},
		{
			Text:       "Wednesday afternoons are the heavy ones. Plan softness for them.",
			Tone:       "raw",
			Tags:       []string{"ritual", "work"},
			Invocation: "Signal",
			Priority:   5,
		},
	}
	for i := range seed {
		seed[i].ID = newRecordID()
		seed[i].Source = "fallback"
		seed[i].CreatedAt = now
	}
	return seed
}
