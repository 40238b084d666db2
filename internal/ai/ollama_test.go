package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	srv := ipv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "local hello"},
			"done":    true,
		})
	}))
	c := NewOllamaClient(srv.URL, 5*time.Second)
	resp, err := c.Generate(context.Background(), GenerateRequest{
		Model:    "llama3",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Choices[0].Message.Content != "local hello" {
		t.Errorf("content = %q", resp.Choices[0].Message.Content)
	}
}

func TestOllamaMissingModelIs404(t *testing.T) {
	srv := ipv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	c := NewOllamaClient(srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{
		Model:    "nope",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	var nfErr *ModelNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected ModelNotFoundError, got %v", err)
	}
}

func TestOllamaUnreachable(t *testing.T) {
	c := NewOllamaClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Generate(context.Background(), GenerateRequest{
		Model:    "llama3",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	var unreach *UnreachableError
	if !errors.As(err, &unreach) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
}

func TestOllamaGenerateStream(t *testing.T) {
	srv := ipv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunks := []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": "par"}, "done": false},
			{"message": map[string]any{"role": "assistant", "content": "tial"}, "done": true},
		}
		enc := json.NewEncoder(w)
		for _, c := range chunks {
			_ = enc.Encode(c)
		}
	}))
	c := NewOllamaClient(srv.URL, 5*time.Second)
	var sb strings.Builder
	err := c.GenerateStream(context.Background(), GenerateRequest{
		Model:    "llama3",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, func(s string) { sb.WriteString(s) })
	if err != nil {
		t.Fatalf("GenerateStream: %v", err)
	}
	if sb.String() != "partial" {
		t.Errorf("assembled = %q", sb.String())
	}
}
