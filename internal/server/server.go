// Package server provides HTTP server initialization and lifecycle
// management for the Vesper web UI.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/avelines/vesper/internal/archive"
	"github.com/avelines/vesper/internal/config"
	"github.com/avelines/vesper/internal/engine"
	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/speech"
	"github.com/avelines/vesper/internal/thread"
	"github.com/avelines/vesper/web/handlers"
)

// Deps bundles the collaborators the HTTP surface exposes.
type Deps struct {
	Turns   *engine.Turns
	Threads *thread.Manager
	Store   *memory.Store
	Source  archive.Source     // nil disables /api/memories/reload
	Voice   speech.Synthesizer // nil disables /api/speak
	Hub     *handlers.WebSocketHub
}

// Start initializes and starts the HTTP server. It returns the actual
// address being listened on (useful for testing with port 0). The server
// shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, deps Deps) (string, error) {
	mux := http.NewServeMux()

	chatHandlers := handlers.NewChatHandlers(deps.Turns, deps.Threads)
	threadHandlers := handlers.NewThreadHandlers(deps.Threads)
	memoryHandlers := handlers.NewMemoryHandlers(deps.Store, deps.Source)
	speechHandlers := handlers.NewSpeechHandlers(deps.Voice)

	// The chat handler answers non-POST methods itself with a liveness
	// payload, so it is registered without a method pattern.
	mux.HandleFunc("/api/chat", chatHandlers.Chat)

	mux.HandleFunc("GET /api/threads", threadHandlers.ListThreads)
	mux.HandleFunc("POST /api/threads", threadHandlers.CreateThread)
	mux.HandleFunc("POST /api/threads/{id}/switch", threadHandlers.SwitchThread)
	mux.HandleFunc("GET /api/threads/{id}/messages", threadHandlers.GetMessages)

	mux.HandleFunc("GET /api/memories", memoryHandlers.ListMemories)
	mux.HandleFunc("POST /api/memories/reload", memoryHandlers.ReloadMemories)

	mux.HandleFunc("POST /api/speak", speechHandlers.Speak)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"vesper"}`))
	})

	if deps.Hub != nil {
		mux.Handle("/ws", deps.Hub)
	}

	// Rate limiting, then CORS, then security headers, outermost first.
	rateLimiter := handlers.NewRateLimiter(10.0, 20)
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = handlers.CORSMiddleware(handler)
	handler = securityHeadersMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if deps.Hub != nil {
			deps.Hub.Stop()
		}
	}()

	return actualAddr, nil
}

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
