package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/thread"
)

// ThreadHandlers contains HTTP handlers for thread management.
type ThreadHandlers struct {
	threads *thread.Manager
}

// NewThreadHandlers creates a new ThreadHandlers instance.
func NewThreadHandlers(threads *thread.Manager) *ThreadHandlers {
	return &ThreadHandlers{threads: threads}
}

// ListThreads handles GET /api/threads.
func (h *ThreadHandlers) ListThreads(w http.ResponseWriter, r *http.Request) {
	current := h.threads.Current()
	list := h.threads.List()

	summaries := make([]ThreadSummary, 0, len(list))
	for _, th := range list {
		summaries = append(summaries, ToThreadSummary(th, th.ID == current.ID))
	}
	respondJSON(w, http.StatusOK, summaries)
}

// CreateThread handles POST /api/threads. The new thread becomes current.
func (h *ThreadHandlers) CreateThread(w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Invocation == "" {
		req.Invocation = persona.InvocationSignal
	}
	if !persona.Valid(req.Invocation) {
		respondError(w, http.StatusBadRequest, "unknown invocation", nil)
		return
	}

	th := h.threads.Create(req.Invocation, req.Name)
	respondJSON(w, http.StatusCreated, ToThreadSummary(th, true))
}

// SwitchThread handles POST /api/threads/{id}/switch. Switching to an
// unknown thread is a silent no-op on the manager; the handler still
// reports the resulting current thread.
func (h *ThreadHandlers) SwitchThread(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.threads.SwitchTo(id)
	current := h.threads.Current()
	respondJSON(w, http.StatusOK, ToThreadSummary(current, true))
}

// GetMessages handles GET /api/threads/{id}/messages.
func (h *ThreadHandlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	th, err := h.threads.Get(id)
	if err != nil {
		if errors.Is(err, thread.ErrNotFound) {
			respondError(w, http.StatusNotFound, "thread not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load thread", err)
		return
	}
	respondJSON(w, http.StatusOK, th.Messages)
}
