package ai

import "context"

// Runtime is the minimal interface implemented by text-generation
// backends: the hosted OpenRouter client and the local Ollama client.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// StreamRuntime is an optional extension for backends that can deliver
// partial content chunks. Implementors invoke onDelta per chunk.
type StreamRuntime interface {
	GenerateStream(ctx context.Context, req GenerateRequest, onDelta func(string)) error
}

// Provider identifiers used for runtime selection.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)
