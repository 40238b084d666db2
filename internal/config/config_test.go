package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultModel != "openai/gpt-4o-mini" {
		t.Errorf("default_model = %q", cfg.DefaultModel)
	}
	if cfg.Provider != "openrouter" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.MaxTokens != 1024 || cfg.PromptBudget != 60000 {
		t.Errorf("token defaults wrong: max=%d budget=%d", cfg.MaxTokens, cfg.PromptBudget)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.HTTPTimeoutSec != 60 {
		t.Errorf("retry/http defaults wrong: %+v", cfg)
	}
	if cfg.OllamaHost != "http://127.0.0.1:11434" {
		t.Errorf("ollama_host = %q", cfg.OllamaHost)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABROOM_API_KEY", "sk-test-123")
	t.Setenv("DATABROOM_DEFAULT_MODEL", "anthropic/claude-sonnet")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "sk-test-123" {
		t.Errorf("api_key = %q", cfg.APIKey)
	}
	if cfg.DefaultModel != "anthropic/claude-sonnet" {
		t.Errorf("default_model = %q", cfg.DefaultModel)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := &Global{
		DefaultModel: "openai/gpt-4o",
		Provider:     "ollama",
		MaxTokens:    2048,
		Temperature:  0.3,
		OllamaHost:   "http://localhost:11434",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultModel != want.DefaultModel || got.Provider != want.Provider {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
}
