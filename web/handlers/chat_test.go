package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelines/vesper/internal/engine"
	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/thread"
	"github.com/avelines/vesper/web/handlers"
	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) Model() string { return "stub" }

func newChatHandlers(gen *stubGenerator) (*handlers.ChatHandlers, *thread.Manager) {
	threads := thread.NewManager(persona.InvocationSignal)
	store := memory.NewStoreWith(memory.Fallback())
	turns := engine.NewTurns(threads, store, persona.Default(), gen, engine.TurnConfig{})
	return handlers.NewChatHandlers(turns, threads), threads
}

func TestChat_PostReturnsReply(t *testing.T) {
	h, threads := newChatHandlers(&stubGenerator{reply: "still here"})

	body, _ := json.Marshal(map[string]interface{}{"text": "hello"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.ChatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "still here", resp.Reply)
	assert.Equal(t, threads.Current().ID, resp.ThreadID)
}

func TestChat_AcceptsLegacyMessageKey(t *testing.T) {
	h, _ := newChatHandlers(&stubGenerator{reply: "heard you"})

	body, _ := json.Marshal(map[string]interface{}{"message": "old client"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "heard you")
}

func TestChat_MissingTextRejected(t *testing.T) {
	h, _ := newChatHandlers(&stubGenerator{reply: "x"})

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "text is required")
}

func TestChat_InvalidBodyRejected(t *testing.T) {
	h, _ := newChatHandlers(&stubGenerator{reply: "x"})

	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader([]byte(`{not json`)))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_NonPostAnswersLiveness(t *testing.T) {
	h, _ := newChatHandlers(&stubGenerator{reply: "x"})

	req := httptest.NewRequest("GET", "/api/chat", nil)
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.LivenessResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "vesper", resp.Service)
}

func TestChat_UnknownThread(t *testing.T) {
	h, _ := newChatHandlers(&stubGenerator{reply: "x"})

	body, _ := json.Marshal(map[string]interface{}{"text": "hi", "thread_id": "nope"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_ProviderErrorIs500(t *testing.T) {
	h, threads := newChatHandlers(&stubGenerator{err: errors.New("provider down")})

	body, _ := json.Marshal(map[string]interface{}{"text": "hello?"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Chat(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The thread keeps the user message and the inline notice.
	th := threads.Current()
	assert.Len(t, th.Messages, 2)
	assert.Equal(t, thread.SenderSystem, th.Messages[1].Sender)
}
