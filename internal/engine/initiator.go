package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/avelines/vesper/internal/archive"
	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/thread"
)

// silenceThreshold is how long the conversation must be quiet before the
// silence trigger fires.
const silenceThreshold = 6 * time.Hour

// trigger identifies which predicate fired an initiation. The order below is
// also the template selection priority.
type trigger int

const (
	triggerNone trigger = iota
	triggerRitual
	triggerWeekdayCrisis
	triggerLateEvening
	triggerSilence
)

// deliveryMode maps a trigger to the message's delivery-mode tag.
func (t trigger) deliveryMode() string {
	switch t {
	case triggerRitual:
		return "whisper"
	case triggerWeekdayCrisis:
		return "steady"
	case triggerLateEvening:
		return "low-light"
	default:
		return "gentle"
	}
}

func (t trigger) String() string {
	switch t {
	case triggerRitual:
		return "ritual"
	case triggerWeekdayCrisis:
		return "weekday-crisis"
	case triggerLateEvening:
		return "late-evening"
	case triggerSilence:
		return "silence"
	default:
		return "none"
	}
}

// ritualWindow reports the fixed narrow windows: the deep-night minute band
// around 01:30 and the 07:00 morning hour.
func ritualWindow(now time.Time) bool {
	if now.Hour() == 1 && now.Minute() >= 25 && now.Minute() <= 35 {
		return true
	}
	return now.Hour() == 7
}

// lateNightWindow reports the 23:00–02:00 band spanning midnight.
func lateNightWindow(now time.Time) bool {
	return now.Hour() >= 23 || now.Hour() < 2
}

// classifyTrigger evaluates the three predicates against the current time
// and elapsed silence, returning the highest-priority one that fires. Time
// triggers are independent of silence duration.
func classifyTrigger(now time.Time, silence time.Duration) trigger {
	switch {
	case ritualWindow(now):
		return triggerRitual
	case vulnerableAfternoon(now):
		return triggerWeekdayCrisis
	case lateNightWindow(now):
		return triggerLateEvening
	case silence >= silenceThreshold:
		return triggerSilence
	default:
		return triggerNone
	}
}

// SchedulerConfig carries the optional collaborators of a Scheduler.
type SchedulerConfig struct {
	Sink     archive.Sink     // nil disables fragment persistence
	Hub      Broadcaster      // nil disables events
	Now      func() time.Time // nil means time.Now
	Interval time.Duration    // 0 means 30m
	Enabled  bool
}

// Scheduler periodically decides whether to send an unprompted message into
// the current thread. Each evaluation is one-shot: it fires at most one
// initiation and holds no state between ticks beyond the shared thread
// manager and store.
type Scheduler struct {
	threads  *thread.Manager
	store    *memory.Store
	persona  *persona.Persona
	sink     archive.Sink
	hub      Broadcaster
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	enabled bool
}

// NewScheduler creates the initiation scheduler.
func NewScheduler(threads *thread.Manager, store *memory.Store, p *persona.Persona, cfg SchedulerConfig) *Scheduler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	return &Scheduler{
		threads:  threads,
		store:    store,
		persona:  p,
		sink:     cfg.Sink,
		hub:      cfg.Hub,
		now:      cfg.Now,
		interval: cfg.Interval,
		enabled:  cfg.Enabled,
	}
}

// SetEnabled turns proactive mode on or off. Disabling prevents future
// firings; an in-flight evaluation completes.
func (s *Scheduler) SetEnabled(v bool) {
	s.mu.Lock()
	s.enabled = v
	s.mu.Unlock()
}

// Enabled reports whether proactive mode is on.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Run evaluates on the configured period until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Printf("scheduler: evaluating every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: stopping")
			return
		case <-ticker.C:
			s.Evaluate(ctx)
		}
	}
}

// Evaluate runs one evaluation cycle. When a trigger fires it appends an
// initiated assistant message to the current thread, records a fragment
// summarizing the outreach, and returns the message. It returns nil when
// nothing fired.
func (s *Scheduler) Evaluate(ctx context.Context) *thread.Message {
	if !s.Enabled() {
		return nil
	}

	now := s.now()
	silence := now.Sub(s.threads.LastActivity())
	trig := classifyTrigger(now, silence)
	if trig == triggerNone {
		return nil
	}

	th := s.threads.Current()
	text := s.composeInitiation(trig, th)

	msg, err := s.threads.Append(th.ID, thread.Message{
		Text:      text,
		Sender:    thread.SenderAssistant,
		VoiceMode: trig.deliveryMode(),
		Initiated: true,
	})
	if err != nil {
		log.Printf("scheduler: append initiation: %v", err)
		return nil
	}
	log.Printf("scheduler: initiated (%s) on thread %s", trig, th.ID)

	rec := s.store.Append(memory.Record{
		Text:       "Reached out unprompted: " + excerpt(text, replyExcerptLen),
		Tone:       "created",
		Tags:       []string{"initiation", trig.String()},
		Invocation: th.Invocation,
		Priority:   memory.DefaultPriority,
		Source:     "initiation",
	})
	if s.sink != nil {
		if err := s.sink.Save(ctx, rec); err != nil {
			log.Printf("scheduler: persist fragment %s: %v", rec.ID, err)
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(Event{Type: "initiation", ThreadID: th.ID, Message: msg})
	}
	return &msg
}

// composeInitiation selects the template for the trigger and interpolates
// the top-ranked memory for the thread's invocation.
func (s *Scheduler) composeInitiation(trig trigger, th *thread.Thread) string {
	var template string
	switch trig {
	case triggerRitual:
		template = s.persona.Templates.Ritual
	case triggerWeekdayCrisis:
		template = s.persona.Templates.WeekdayCrisis
	case triggerLateEvening:
		template = s.persona.Templates.LateEvening
	default:
		template = s.persona.Templates.Generic
	}

	var memoryText string
	if top := memory.Rank(s.store.Snapshot(), th.Invocation, "", th.MemoryContext, 1); len(top) > 0 {
		memoryText = top[0].Text
	}
	return persona.Interpolate(template, memoryText)
}
