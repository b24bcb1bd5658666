package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelines/vesper/internal/speech"
)

// SpeechHandlers contains the standalone text-to-speech endpoint.
type SpeechHandlers struct {
	voice speech.Synthesizer // nil means the feature is disabled
}

// NewSpeechHandlers creates a new SpeechHandlers instance.
func NewSpeechHandlers(voice speech.Synthesizer) *SpeechHandlers {
	return &SpeechHandlers{voice: voice}
}

// Speak handles POST /api/speak - synthesize arbitrary text without running
// a conversation turn. Responds with raw audio bytes.
func (h *SpeechHandlers) Speak(w http.ResponseWriter, r *http.Request) {
	if h.voice == nil {
		respondError(w, http.StatusNotImplemented, "speech synthesis is not enabled", nil)
		return
	}

	var req SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required", nil)
		return
	}

	audio, err := h.voice.Synthesize(r.Context(), req.Text)
	if err != nil {
		respondError(w, http.StatusBadGateway, "speech synthesis failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
