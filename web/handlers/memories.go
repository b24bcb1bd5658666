package handlers

import (
	"net/http"

	"github.com/avelines/vesper/internal/archive"
	"github.com/avelines/vesper/internal/memory"
)

// MemoryHandlers contains HTTP handlers for inspecting and reloading the
// fragment store.
type MemoryHandlers struct {
	store  *memory.Store
	source archive.Source // nil disables reload
}

// NewMemoryHandlers creates a new MemoryHandlers instance.
func NewMemoryHandlers(store *memory.Store, source archive.Source) *MemoryHandlers {
	return &MemoryHandlers{store: store, source: source}
}

// ListMemories handles GET /api/memories - the current store snapshot.
func (h *MemoryHandlers) ListMemories(w http.ResponseWriter, r *http.Request) {
	records := h.store.Snapshot()
	respondJSON(w, http.StatusOK, MemoriesResponse{Memories: records, Total: len(records)})
}

// ReloadMemories handles POST /api/memories/reload - re-read the archive
// source and replace the store contents. A failed or empty read keeps the
// current records.
func (h *MemoryHandlers) ReloadMemories(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		respondError(w, http.StatusNotFound, "no archive source configured", nil)
		return
	}
	if err := archive.Reload(r.Context(), h.source, h.store); err != nil {
		respondError(w, http.StatusInternalServerError, "archive reload failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"total":  h.store.Len(),
	})
}
