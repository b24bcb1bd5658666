package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelines/vesper/internal/archive"
	"github.com/avelines/vesper/internal/config"
	"github.com/avelines/vesper/internal/engine"
	"github.com/avelines/vesper/internal/llm"
	"github.com/avelines/vesper/internal/memory"
	"github.com/avelines/vesper/internal/persona"
	"github.com/avelines/vesper/internal/server"
	"github.com/avelines/vesper/internal/speech"
	"github.com/avelines/vesper/internal/thread"
	"github.com/avelines/vesper/web/handlers"
)

func main() {
	personaPath := flag.String("persona", "", "Path to a YAML persona file (overrides VESPER_PERSONA_PATH)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *personaPath != "" {
		cfg.Persona.Path = *personaPath
	}

	p, err := persona.Load(cfg.Persona.Path)
	if err != nil {
		log.Fatalf("Failed to load persona: %v", err)
	}

	if err := os.MkdirAll(cfg.Archive.DataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// The SQLite store always receives runtime-created fragments; which
	// source seeds the in-memory collection depends on the archive engine.
	sqliteStore, err := archive.NewSQLiteStore(cfg.Archive.DataPath + "/vesper.db")
	if err != nil {
		log.Fatalf("Failed to open fragment database: %v", err)
	}
	defer sqliteStore.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStoreWith(memory.Fallback())

	var source archive.Source
	switch cfg.Archive.Engine {
	case "sqlite":
		source = sqliteStore
	default:
		source = archive.NewDocumentSource(cfg.Archive.DocumentPath)
	}
	if err := archive.Reload(ctx, source, store); err != nil {
		log.Printf("Archive not loaded, starting from the built-in seed: %v", err)
	}
	log.Printf("Memory store holds %d fragments", store.Len())

	var watcher *archive.Watcher
	if cfg.Archive.Engine != "sqlite" && cfg.Archive.WatchEnabled {
		watcher = archive.NewWatcher(cfg.Archive.DocumentPath, func() {
			if err := archive.Reload(context.Background(), source, store); err != nil {
				log.Printf("Archive reload after change failed: %v", err)
			}
		})
		if err := watcher.Start(); err != nil {
			log.Printf("Archive watcher disabled: %v", err)
			watcher = nil
		}
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	gen, err := llm.NewTextGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize completion provider: %v", err)
	}
	log.Printf("Completion provider: %s (%s)", cfg.LLM.Provider, gen.Model())

	var voice speech.Synthesizer
	if cfg.Speech.Enabled {
		voice, err = speech.NewElevenLabsClient(speech.ElevenLabsConfig{
			APIKey:  cfg.Speech.APIKey,
			VoiceID: cfg.Speech.VoiceID,
		})
		if err != nil {
			log.Fatalf("Failed to initialize speech synthesis: %v", err)
		}
	}

	threads := thread.NewManager(persona.InvocationSignal)

	hub := handlers.NewWebSocketHub()

	turns := engine.NewTurns(threads, store, p, gen, engine.TurnConfig{
		Voice: voice,
		Sink:  sqliteStore,
		Hub:   hub,
	})

	scheduler := engine.NewScheduler(threads, store, p, engine.SchedulerConfig{
		Sink:     sqliteStore,
		Hub:      hub,
		Interval: cfg.Proactive.Interval,
		Enabled:  cfg.Proactive.Enabled,
	})
	go scheduler.Run(ctx)

	addr, err := server.Start(ctx, cfg, server.Deps{
		Turns:   turns,
		Threads: threads,
		Store:   store,
		Source:  source,
		Voice:   voice,
		Hub:     hub,
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Vesper running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}
