// Package thread owns conversation threads: their message logs, mood state,
// and accumulated memory context.
package thread

import "time"

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
	SenderSystem    = "system"
)

// Message is one entry in a thread's log. Messages are immutable once
// appended.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	VoiceMode string    `json:"voice_mode,omitempty"`
	Initiated bool      `json:"initiated,omitempty"`
}

// Thread is an independent conversation session. The invocation is fixed at
// creation; tone and memory context mutate as the conversation develops.
type Thread struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Messages      []Message `json:"messages"`
	Invocation    string    `json:"invocation"`
	ToneSignature string    `json:"tone_signature"`
	MemoryContext []string  `json:"memory_context"`
	CaveMode      bool      `json:"cave_mode"`
	LastActive    time.Time `json:"last_active"`
}

// clone returns a deep copy so callers can read thread state without holding
// the manager's lock.
func (t *Thread) clone() *Thread {
	cp := *t
	cp.Messages = make([]Message, len(t.Messages))
	copy(cp.Messages, t.Messages)
	cp.MemoryContext = make([]string, len(t.MemoryContext))
	copy(cp.MemoryContext, t.MemoryContext)
	return &cp
}
