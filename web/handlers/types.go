package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/thread"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ChatRequest is the request format for POST /api/chat. The message may
// arrive under either key; "text" wins when both are present.
type ChatRequest struct {
	Text     string `json:"text"`
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
	Voice    bool   `json:"voice"`
}

// Body returns the message text, preferring the "text" key.
func (r ChatRequest) Body() string {
	if r.Text != "" {
		return r.Text
	}
	return r.Message
}

// ChatResponse is the response format for POST /api/chat. Audio is base64
// encoded by the JSON marshaller when present.
type ChatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"thread_id"`
	Crisis   bool   `json:"crisis,omitempty"`
	Audio    []byte `json:"audio,omitempty"`
}

// LivenessResponse answers non-POST requests to /api/chat and GET /api/health.
type LivenessResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ThreadSummary is the list representation of a thread. Messages are elided;
// fetch them through the messages endpoint.
type ThreadSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Invocation    string    `json:"invocation"`
	ToneSignature string    `json:"tone_signature"`
	MemoryContext []string  `json:"memory_context"`
	CaveMode      bool      `json:"cave_mode"`
	Current       bool      `json:"current"`
	Messages      int       `json:"messages"`
	LastActive    time.Time `json:"last_active"`
}

// ToThreadSummary converts a thread for list responses.
func ToThreadSummary(th *thread.Thread, current bool) ThreadSummary {
	return ThreadSummary{
		ID:            th.ID,
		Name:          th.Name,
		Invocation:    th.Invocation,
		ToneSignature: th.ToneSignature,
		MemoryContext: th.MemoryContext,
		CaveMode:      th.CaveMode,
		Current:       current,
		Messages:      len(th.Messages),
		LastActive:    th.LastActive,
	}
}

// CreateThreadRequest is the request format for POST /api/threads.
type CreateThreadRequest struct {
	Invocation string `json:"invocation"`
	Name       string `json:"name"`
}

// MemoriesResponse is the response format for GET /api/memories.
type MemoriesResponse struct {
	Memories []memory.Record `json:"memories"`
	Total    int             `json:"total"`
}

// SpeakRequest is the request format for POST /api/speak.
type SpeakRequest struct {
	Text string `json:"text"`
}

// respondJSON writes data as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; log and move on.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes a standardized error response.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}
