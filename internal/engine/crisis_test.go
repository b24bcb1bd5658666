package engine_test

import (
	"testing"
	"time"

	"github.com/avelines/vesper/internal/engine"
)

func TestDetectCrisis_KeywordVocabulary(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"everything is fine", false},
		{"I'm drowning in all of this", true},
		{"it's all too much right now", true},
		{"I can't do this anymore", true},
		{"feeling like I'm falling apart", true},
		{"the overwhelm is back", true},
	}
	for _, tc := range cases {
		if got := engine.DetectCrisis(tc.text, quietMonday); got != tc.want {
			t.Errorf("DetectCrisis(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestDetectCrisis_FatigueOnlyCountsOnWednesdayAfternoon(t *testing.T) {
	wednesday := time.Date(2026, time.January, 7, 14, 0, 0, 0, time.UTC)
	thursday := time.Date(2026, time.January, 8, 14, 0, 0, 0, time.UTC)
	wednesdayEvening := time.Date(2026, time.January, 7, 18, 0, 0, 0, time.UTC)

	text := "I'm completely exhausted"
	if !engine.DetectCrisis(text, wednesday) {
		t.Error("fatigue on Wednesday afternoon should flag crisis")
	}
	if engine.DetectCrisis(text, thursday) {
		t.Error("fatigue on Thursday should not flag crisis")
	}
	if engine.DetectCrisis(text, wednesdayEvening) {
		t.Error("fatigue after the afternoon band should not flag crisis")
	}
}

func TestScanContextTags(t *testing.T) {
	tags := engine.ScanContextTags("a nightmare about my job deadline, then lighting a candle")
	want := map[string]bool{"dream": true, "work": true, "ritual": true}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v", tags)
	}
	for _, tag := range tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestScanContextTags_NoMatch(t *testing.T) {
	if tags := engine.ScanContextTags("the weather was pleasant"); len(tags) != 0 {
		t.Errorf("tags = %v, want none", tags)
	}
}
