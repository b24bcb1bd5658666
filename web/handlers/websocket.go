package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/avelines/vesper/internal/engine"
)

// writeTimeout bounds a single frame write so one stalled client cannot
// wedge its delivery goroutine forever.
const writeTimeout = 10 * time.Second

// subscriberBuffer is the per-client event backlog. A client that falls this
// far behind is dropped rather than awaited.
const subscriberBuffer = 64

// WebSocketHub fans turn and initiation events out to every connected page.
// Each connection gets its own buffered delivery channel; Broadcast marshals
// the event once and never blocks the conversation engine.
type WebSocketHub struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

// NewWebSocketHub creates an empty hub.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{subs: make(map[chan []byte]struct{})}
}

// Broadcast delivers one event to every subscriber. It satisfies the
// engine's Broadcaster interface. Subscribers whose backlog is full are
// disconnected instead of awaited.
func (h *WebSocketHub) Broadcast(evt engine.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws: marshal %s event: %v", evt.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			delete(h.subs, ch)
			close(ch)
			log.Printf("ws: dropping slow client (%d connected)", len(h.subs))
		}
	}
}

// Stop disconnects every subscriber. New connections after Stop are refused.
func (h *WebSocketHub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// subscribe registers a delivery channel. On a stopped hub the returned
// channel is already closed, so the caller unwinds immediately.
func (h *WebSocketHub) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	log.Printf("ws: client connected (%d connected)", len(h.subs))
	return ch
}

// unsubscribe removes a delivery channel. Safe to call after Broadcast or
// Stop already dropped it.
func (h *WebSocketHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
		log.Printf("ws: client disconnected (%d connected)", len(h.subs))
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// leaves or the hub stops. Origin checking is disabled to match the
// wildcard CORS policy of the HTTP surface.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	events := h.subscribe()
	defer h.unsubscribe(events)

	// The read side only exists to notice the client going away; inbound
	// frames carry nothing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "hub stopped")
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
			err := conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		case <-gone:
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
