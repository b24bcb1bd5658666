package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avelines/vesper/internal/archive"
	"github.com/avelines/vesper/internal/llm"
	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/speech"
	"github.com/avelines/vesper/internal/thread"
)

// defaultMemoryLimit is how many ranked memories accompany a turn's prompt.
const defaultMemoryLimit = 5

// Broadcaster delivers events to connected UI clients. The websocket hub
// satisfies it; a nil broadcaster drops events.
type Broadcaster interface {
	Broadcast(evt Event)
}

// Event is what goes out on the hub after a turn or an initiation.
type Event struct {
	Type     string         `json:"type"` // "turn", "initiation"
	ThreadID string         `json:"thread_id"`
	Message  thread.Message `json:"message"`
	Crisis   bool           `json:"crisis,omitempty"`
}

// Turn is the outcome of one successful user-message cycle.
type Turn struct {
	ThreadID string
	User     thread.Message
	Reply    thread.Message
	Crisis   bool
	Memories []memory.Record
	Audio    []byte
}

// TurnConfig carries the optional collaborators of a Turns handler.
type TurnConfig struct {
	Voice       speech.Synthesizer // nil disables audio
	Sink        archive.Sink       // nil disables fragment persistence
	Hub         Broadcaster        // nil disables events
	Now         func() time.Time   // nil means time.Now
	MemoryLimit int                // 0 means defaultMemoryLimit
}

// Turns orchestrates conversation turns: ranking memories, composing the
// prompt, invoking the completion provider, and applying the post-turn
// mutations to thread and store.
type Turns struct {
	threads *thread.Manager
	store   *memory.Store
	persona *persona.Persona
	gen     llm.TextGenerator
	voice   speech.Synthesizer
	sink    archive.Sink
	hub     Broadcaster
	now     func() time.Time
	limit   int
}

// NewTurns creates the turn handler.
func NewTurns(threads *thread.Manager, store *memory.Store, p *persona.Persona, gen llm.TextGenerator, cfg TurnConfig) *Turns {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MemoryLimit <= 0 {
		cfg.MemoryLimit = defaultMemoryLimit
	}
	return &Turns{
		threads: threads,
		store:   store,
		persona: p,
		gen:     gen,
		voice:   cfg.Voice,
		sink:    cfg.Sink,
		hub:     cfg.Hub,
		now:     cfg.Now,
		limit:   cfg.MemoryLimit,
	}
}

// Submit runs one user-message cycle against the given thread.
//
// On completion failure exactly one system-sender message is appended and no
// other state changes: tone, context tags and the memory store stay as they
// were. The error is returned so the HTTP layer can answer with an error
// payload while the thread shows the inline notice.
func (h *Turns) Submit(ctx context.Context, threadID, userText string, wantVoice bool) (*Turn, error) {
	th, err := h.threads.Get(threadID)
	if err != nil {
		return nil, err
	}

	userMsg, err := h.threads.Append(threadID, thread.Message{Text: userText, Sender: thread.SenderUser})
	if err != nil {
		return nil, err
	}

	ranked := memory.Rank(h.store.Snapshot(), th.Invocation, userText, th.MemoryContext, h.limit)
	now := h.now()
	crisis := detectCrisis(userText, now)
	prompt := composePrompt(h.persona, th, crisis, ranked)

	reply, err := h.gen.Complete(ctx, prompt, userText)
	if err != nil {
		notice := "The line went quiet — I couldn't reach the other side. Your words are still here; try again when you're ready."
		if _, appendErr := h.threads.Append(threadID, thread.Message{Text: notice, Sender: thread.SenderSystem}); appendErr != nil {
			log.Printf("engine: failed to append error notice: %v", appendErr)
		}
		return nil, fmt.Errorf("engine: completion failed: %w", err)
	}

	replyMsg, err := h.threads.Append(threadID, thread.Message{Text: reply, Sender: thread.SenderAssistant})
	if err != nil {
		return nil, err
	}

	tone := toneEngaged
	if crisis {
		tone = toneCrisis
	}
	if err := h.threads.UpdateTone(threadID, tone); err != nil {
		log.Printf("engine: update tone: %v", err)
	}

	combined := userText + " " + reply
	for _, tag := range scanContextTags(combined) {
		if err := h.threads.AddContextTag(threadID, tag); err != nil {
			log.Printf("engine: add context tag: %v", err)
		}
	}

	if memoryWorthy(combined) {
		h.createFragment(ctx, th.Invocation, userText, reply, crisis)
	}

	var audio []byte
	if wantVoice && h.voice != nil {
		audio, err = h.voice.Synthesize(ctx, reply)
		if err != nil {
			log.Printf("engine: speech synthesis failed, continuing without audio: %v", err)
			audio = nil
		}
	}

	turn := &Turn{
		ThreadID: threadID,
		User:     userMsg,
		Reply:    replyMsg,
		Crisis:   crisis,
		Memories: ranked,
		Audio:    audio,
	}
	h.broadcast(Event{Type: "turn", ThreadID: threadID, Message: replyMsg, Crisis: crisis})
	return turn, nil
}

// createFragment records a memory-worthy turn as a new fragment, boosting
// priority for crisis turns.
func (h *Turns) createFragment(ctx context.Context, invocation, userText, reply string, crisis bool) {
	tags := []string{"conversation", invocationTag(invocation)}
	priority := memory.DefaultPriority
	if crisis {
		tags = append(tags, "crisis")
		priority = 8
	}

	rec := h.store.Append(memory.Record{
		Text:       userText + " — " + excerpt(reply, replyExcerptLen),
		Tone:       "created",
		Tags:       tags,
		Invocation: invocation,
		Priority:   priority,
		Source:     "conversation",
	})
	h.persist(ctx, rec)
}

// persist writes a fragment through the archive sink, if one is configured.
// Persistence errors never fail the turn.
func (h *Turns) persist(ctx context.Context, rec memory.Record) {
	if h.sink == nil {
		return
	}
	if err := h.sink.Save(ctx, rec); err != nil {
		log.Printf("engine: persist fragment %s: %v", rec.ID, err)
	}
}

func (h *Turns) broadcast(evt Event) {
	if h.hub != nil {
		h.hub.Broadcast(evt)
	}
}
