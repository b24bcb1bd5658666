package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelines/vesper/internal/llm"
)

func TestOllamaClient_Complete(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "a quiet answer",
			"done":     true,
		})
	}))
	defer srv.Close()

	client := llm.NewOllamaClient(llm.OllamaConfig{BaseURL: srv.URL, Model: "test-model"})

	reply, err := client.Complete(context.Background(), "be gentle", "how was the day")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "a quiet answer" {
		t.Errorf("reply = %q", reply)
	}
	if gotBody["model"] != "test-model" || gotBody["system"] != "be gentle" || gotBody["prompt"] != "how was the day" {
		t.Errorf("request body = %v", gotBody)
	}
	if gotBody["stream"] != false {
		t.Error("streaming not disabled")
	}
}

func TestOllamaClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := llm.NewOllamaClient(llm.OllamaConfig{BaseURL: srv.URL})

	if _, err := client.Complete(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}

func TestOllamaClient_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "", "done": true})
	}))
	defer srv.Close()

	client := llm.NewOllamaClient(llm.OllamaConfig{BaseURL: srv.URL})

	if _, err := client.Complete(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected an error for an empty response")
	}
}

func TestOllamaClient_Defaults(t *testing.T) {
	client := llm.NewOllamaClient(llm.OllamaConfig{})
	if client.Model() != "qwen2.5:7b" {
		t.Errorf("default model = %q", client.Model())
	}
}
