package thread

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a thread id is unknown.
var ErrNotFound = errors.New("thread: not found")

// Manager owns the thread map and the current-thread pointer. All mutation
// goes through the manager's lock, which is shared by the HTTP handlers and
// the initiation scheduler, so a scheduled initiation can never interleave
// inside an in-flight turn's read-modify-write.
//
// Invariants: the map always contains at least one thread, and exactly one
// thread is current at any time.
type Manager struct {
	mu      sync.Mutex
	threads map[string]*Thread
	order   []string // creation order, for stable listing
	current string
}

// NewManager returns a manager holding a single default thread, which is
// current.
func NewManager(defaultInvocation string) *Manager {
	m := &Manager{threads: make(map[string]*Thread)}
	m.Create(defaultInvocation, "default")
	return m
}

// Create adds a new thread with an empty log and neutral tone, makes it
// current, and returns a copy.
func (m *Manager) Create(invocation, name string) *Thread {
	t := &Thread{
		ID:            uuid.New().String(),
		Name:          name,
		Messages:      []Message{},
		Invocation:    invocation,
		ToneSignature: "neutral",
		MemoryContext: []string{},
		CaveMode:      strings.EqualFold(invocation, "Cave"),
		LastActive:    time.Now(),
	}

	m.mu.Lock()
	m.threads[t.ID] = t
	m.order = append(m.order, t.ID)
	m.current = t.ID
	m.mu.Unlock()
	return t.clone()
}

// SwitchTo makes the given thread current. Unknown ids are a silent no-op.
func (m *Manager) SwitchTo(id string) {
	m.mu.Lock()
	if _, ok := m.threads[id]; ok {
		m.current = id
	}
	m.mu.Unlock()
}

// Current returns a copy of the current thread.
func (m *Manager) Current() *Thread {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threads[m.current].clone()
}

// Get returns a copy of the thread with the given id.
func (m *Manager) Get(id string) (*Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.clone(), nil
}

// List returns copies of all threads in creation order.
func (m *Manager) List() []*Thread {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Thread, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.threads[id].clone())
	}
	return out
}

// LastActivity returns the most recent LastActive across all threads. The
// initiation scheduler uses it to measure elapsed silence.
func (m *Manager) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest time.Time
	for _, t := range m.threads {
		if t.LastActive.After(latest) {
			latest = t.LastActive
		}
	}
	return latest
}

// Append adds a message to the thread's log, assigning an id and timestamp
// when absent, and refreshes LastActive.
func (m *Manager) Append(id string, msg Message) (Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	t.Messages = append(t.Messages, msg)
	t.LastActive = time.Now()
	return msg, nil
}

// UpdateTone sets the thread's tone signature and refreshes LastActive.
func (m *Manager) UpdateTone(id, tone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return ErrNotFound
	}
	t.ToneSignature = tone
	t.LastActive = time.Now()
	return nil
}

// AddContextTag adds a tag to the thread's memory context. Tags are
// deduplicated; insertion order is kept stable.
func (m *Manager) AddContextTag(id, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range t.MemoryContext {
		if strings.EqualFold(existing, tag) {
			return nil
		}
	}
	t.MemoryContext = append(t.MemoryContext, tag)
	t.LastActive = time.Now()
	return nil
}
