package speech_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/avelines/vesper/internal/speech"
)

// TestSynthesizeReturnsAudio verifies a successful round trip.
func TestSynthesizeReturnsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c, err := speech.NewElevenLabsClient(speech.ElevenLabsConfig{
		APIKey:  "test-key",
		VoiceID: "river",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewElevenLabsClient: %v", err)
	}

	audio, err := c.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("unexpected audio payload: %q", audio)
	}
}

// TestSynthesizeCachesRepeats verifies the second identical request does not
// hit the provider.
func TestSynthesizeCachesRepeats(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	c, err := speech.NewElevenLabsClient(speech.ElevenLabsConfig{VoiceID: "river", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewElevenLabsClient: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Synthesize(context.Background(), "same text"); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", calls.Load())
	}
}

// TestSynthesizeErrorStatus verifies non-200 responses surface as errors.
func TestSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c, err := speech.NewElevenLabsClient(speech.ElevenLabsConfig{VoiceID: "river", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewElevenLabsClient: %v", err)
	}

	if _, err := c.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for non-200 status")
	}
}

// TestSynthesizeEmptyText verifies empty input is declined without a call.
func TestSynthesizeEmptyText(t *testing.T) {
	c, err := speech.NewElevenLabsClient(speech.ElevenLabsConfig{VoiceID: "river", BaseURL: "http://127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewElevenLabsClient: %v", err)
	}
	audio, err := c.Synthesize(context.Background(), "")
	if err != nil || audio != nil {
		t.Errorf("expected nil, nil for empty text, got %v, %v", audio, err)
	}
}
