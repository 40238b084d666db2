package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/databroomhq/databroom-cli/internal/ai"
)

type fakeRuntime struct {
	reply   string
	err     error
	lastReq ai.GenerateRequest
}

func (f *fakeRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResponse{
		Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: f.reply}}},
	}, nil
}

func TestAnalyzeReturnsModelText(t *testing.T) {
	rt := &fakeRuntime{reply: "The Age column has missing values."}
	r := New(rt, Config{Model: "test/model"})
	got, err := r.Analyze(context.Background(), "[DATASET SUMMARY]\nRows: 4\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The Age column has missing values." {
		t.Fatalf("unexpected narrative: %q", got)
	}
	if len(rt.lastReq.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(rt.lastReq.Messages))
	}
	if !strings.Contains(rt.lastReq.Messages[1].Content, "[DATASET SUMMARY]") {
		t.Fatalf("profile not included in prompt: %q", rt.lastReq.Messages[1].Content)
	}
}

func TestAnalyzeFailureIsUnavailable(t *testing.T) {
	rt := &fakeRuntime{err: errors.New("boom")}
	r := New(rt, Config{Model: "test/model"})
	_, err := r.Analyze(context.Background(), "profile")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNarrativeUnavailable) {
		t.Fatalf("error %v does not match ErrNarrativeUnavailable", err)
	}
}

func TestSummarizeIncludesFacts(t *testing.T) {
	rt := &fakeRuntime{reply: "All clean."}
	r := New(rt, Config{Model: "test/model"})
	facts := CleaningFacts{
		RowsBefore: 10, RowsAfter: 8,
		ColsBefore: 4, ColsAfter: 3,
		BeforeScore: 75, AfterScore: 100,
		DuplicateRowsRemoved: 2,
		CellsImputed:         3,
		DroppedColumns:       []string{"Notes"},
	}
	if _, err := r.Summarize(context.Background(), facts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := rt.lastReq.Messages[1].Content
	for _, want := range []string{"10 before, 8 after", "75.00 before, 100.00 after", "Duplicate rows removed: 2", "Notes"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestEmptyResponseIsUnavailable(t *testing.T) {
	rt := &fakeRuntime{reply: "   "}
	r := New(rt, Config{Model: "test/model"})
	_, err := r.Summarize(context.Background(), CleaningFacts{})
	if !errors.Is(err, ErrNarrativeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

type fakeStreamRuntime struct {
	fakeRuntime
	chunks []string
}

func (f *fakeStreamRuntime) GenerateStream(_ context.Context, req ai.GenerateRequest, onDelta func(string)) error {
	f.lastReq = req
	for _, c := range f.chunks {
		onDelta(c)
	}
	return nil
}

func TestStreamingAssemblesDeltas(t *testing.T) {
	rt := &fakeStreamRuntime{chunks: []string{"Hello ", "world"}}
	var seen []string
	r := New(rt, Config{Model: "test/model", OnDelta: func(s string) { seen = append(seen, s) }})
	got, err := r.Analyze(context.Background(), "profile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("unexpected assembled text: %q", got)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(seen))
	}
}
