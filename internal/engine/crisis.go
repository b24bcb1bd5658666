// Package engine coordinates conversation turns and scheduler-initiated
// messages over the shared thread manager and memory store.
package engine

import (
	"strings"
	"time"
)

// Tone labels written back to a thread after a successful turn.
const (
	toneEngaged = "engaged"
	toneCrisis  = "fierce-holding"
)

// crisisKeywords flag a turn for elevated supportive framing on their own.
var crisisKeywords = []string{
	"overwhelm",
	"can't",
	"drowning",
	"breaking",
	"falling apart",
	"too much",
}

// fatigueKeywords only count inside the vulnerable Wednesday afternoon band.
var fatigueKeywords = []string{
	"tired",
	"exhausted",
	"drained",
	"worn out",
	"burned out",
}

// vulnerableAfternoon reports the Wednesday 13:00–17:00 band.
func vulnerableAfternoon(now time.Time) bool {
	return now.Weekday() == time.Wednesday && now.Hour() >= 13 && now.Hour() < 17
}

// detectCrisis applies the keyword vocabulary and the compound
// weekday-plus-fatigue rule.
func detectCrisis(text string, now time.Time) bool {
	lower := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if vulnerableAfternoon(now) {
		for _, kw := range fatigueKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// contextTagFamilies map keyword families in conversation text to the
// context tags accumulated on a thread.
var contextTagFamilies = []struct {
	tag      string
	keywords []string
}{
	{"dream", []string{"dream", "sleep", "nightmare", "insomnia"}},
	{"create", []string{"create", "build", "make", "write"}},
	{"work", []string{"work", "job", "deadline"}},
	{"grief", []string{"grief", "loss", "mourning", "miss them"}},
	{"ritual", []string{"ritual", "candle", "vigil"}},
}

// scanContextTags returns the tags whose family matches the combined
// user+assistant text.
func scanContextTags(combined string) []string {
	lower := strings.ToLower(combined)
	var tags []string
	for _, family := range contextTagFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, family.tag)
				break
			}
		}
	}
	return tags
}

// memoryTriggers mark a turn as memory-worthy.
var memoryTriggers = []string{
	"remember this",
	"don't forget",
	"hold onto this",
	"keep this one",
}

func memoryWorthy(combined string) bool {
	lower := strings.ToLower(combined)
	for _, phrase := range memoryTriggers {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
