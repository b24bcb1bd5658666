// Package handlers provides HTTP handlers and middleware for the Vesper web UI.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelines/vesper/internal/engine"
	"github.com/avelines/vesper/internal/llm"
	"github.com/avelines/vesper/internal/thread"
)

// ChatHandlers contains the conversation endpoint.
type ChatHandlers struct {
	turns   *engine.Turns
	threads *thread.Manager
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(turns *engine.Turns, threads *thread.Manager) *ChatHandlers {
	return &ChatHandlers{turns: turns, threads: threads}
}

// Chat handles /api/chat. POST runs one conversation turn; any other method
// answers with a liveness payload so a browser poking the endpoint sees the
// service is up.
func (h *ChatHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusOK, LivenessResponse{Status: "alive", Service: "vesper"})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	text := req.Body()
	if text == "" {
		respondError(w, http.StatusBadRequest, "text is required", nil)
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = h.threads.Current().ID
	}

	turn, err := h.turns.Submit(r.Context(), threadID, text, req.Voice)
	if err != nil {
		switch {
		case errors.Is(err, thread.ErrNotFound):
			respondError(w, http.StatusNotFound, "thread not found", err)
		case errors.Is(err, llm.ErrCircuitOpen):
			respondError(w, http.StatusServiceUnavailable, "completion provider unavailable", err)
		default:
			respondError(w, http.StatusInternalServerError, "conversation turn failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{
		Reply:    turn.Reply.Text,
		ThreadID: turn.ThreadID,
		Crisis:   turn.Crisis,
		Audio:    turn.Audio,
	})
}
