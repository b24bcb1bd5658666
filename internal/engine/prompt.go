package engine

import (
	"fmt"
	"strings"

	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/thread"
)

// replyExcerptLen bounds how much of a reply is folded into a new memory
// fragment.
const replyExcerptLen = 120

// composePrompt assembles the system prompt for one turn: role framing, the
// thread's invocation description and current tone, crisis framing when
// flagged, and the ranked memories.
func composePrompt(p *persona.Persona, t *thread.Thread, crisis bool, memories []memory.Record) string {
	var b strings.Builder
	b.WriteString(p.RoleFraming)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Invocation: %s — %s.\n", t.Invocation, p.Describe(t.Invocation))
	fmt.Fprintf(&b, "Current tone: %s.\n", t.ToneSignature)
	if crisis {
		b.WriteString("The user may be in distress. Stay close, keep sentences short, do not problem-solve unless asked.\n")
	}
	if len(memories) > 0 {
		b.WriteString("\nWhat you hold for them:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "[%s] %s (%s)\n", m.Invocation, m.Text, m.Tone)
		}
	}
	return b.String()
}

// invocationTag lowercases an invocation for use as a fragment tag.
func invocationTag(invocation string) string {
	return strings.ToLower(invocation)
}

// excerpt truncates s to max runes, appending an ellipsis when cut.
func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
