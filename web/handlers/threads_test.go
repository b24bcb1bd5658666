package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/thread"
	"github.com/avelines/vesper/web/handlers"
	"github.com/stretchr/testify/assert"
)

func threadMux(h *handlers.ThreadHandlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/threads", h.ListThreads)
	mux.HandleFunc("POST /api/threads", h.CreateThread)
	mux.HandleFunc("POST /api/threads/{id}/switch", h.SwitchThread)
	mux.HandleFunc("GET /api/threads/{id}/messages", h.GetMessages)
	return mux
}

func TestListThreads_DefaultPresent(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	mux := threadMux(handlers.NewThreadHandlers(threads))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/threads", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var list []handlers.ThreadSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
	assert.True(t, list[0].Current)
	assert.Equal(t, persona.InvocationSignal, list[0].Invocation)
}

func TestCreateThread_BecomesCurrent(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	mux := threadMux(handlers.NewThreadHandlers(threads))

	body, _ := json.Marshal(map[string]string{"invocation": "Cave", "name": "resting"})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/threads", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)

	var created handlers.ThreadSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Cave", created.Invocation)
	assert.True(t, created.CaveMode)
	assert.Equal(t, created.ID, threads.Current().ID)
}

func TestCreateThread_UnknownInvocationRejected(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	mux := threadMux(handlers.NewThreadHandlers(threads))

	body, _ := json.Marshal(map[string]string{"invocation": "Basement"})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/threads", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSwitchThread_UnknownIsNoOp(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	original := threads.Current().ID
	mux := threadMux(handlers.NewThreadHandlers(threads))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/threads/does-not-exist/switch", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var current handlers.ThreadSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, original, current.ID)
}

func TestGetMessages(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	id := threads.Current().ID
	_, err := threads.Append(id, thread.Message{Text: "first", Sender: thread.SenderUser})
	assert.NoError(t, err)

	mux := threadMux(handlers.NewThreadHandlers(threads))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/threads/"+id+"/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var messages []thread.Message
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
	assert.Equal(t, "first", messages[0].Text)
}

func TestGetMessages_UnknownThread(t *testing.T) {
	threads := thread.NewManager(persona.InvocationSignal)
	mux := threadMux(handlers.NewThreadHandlers(threads))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/threads/nope/messages", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
