package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/databroomhq/databroom-cli/internal/ai"
	cfgpkg "github.com/databroomhq/databroom-cli/internal/config"
	"github.com/databroomhq/databroom-cli/internal/table"
)

// parseLoadOptions translates the shared --delimiter/--sheet-name/--sheet-index
// flags into loader options.
func parseLoadOptions(delimiter, sheetName string, sheetIndex int) (table.Options, error) {
	opt := table.Options{SheetName: sheetName, SheetIndex: sheetIndex}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	return opt, nil
}

// parseNumberFormat translates --decimal/--thousands into the numeric format
// used for coercion and profiling. Empty values leave auto-detection on.
func parseNumberFormat(decimal, thousands string) (table.NumberFormat, error) {
	var f table.NumberFormat
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case "":
	case ",", "comma":
		f.DecimalSeparator = ','
	case ".", "dot":
		f.DecimalSeparator = '.'
	default:
		return f, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case "":
	case ",":
		f.ThousandsSeparator = ','
	case ".":
		f.ThousandsSeparator = '.'
	case "space", " ":
		f.ThousandsSeparator = ' '
	default:
		return f, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	return f, nil
}

// derivedPath swaps the input extension for the given suffix, e.g.
// data.csv -> data.cleaned.csv.
func derivedPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix
}

// buildRuntime selects the generation backend from config plus optional
// per-command overrides, and returns the provider name for hint messages.
func buildRuntime(cfg *cfgpkg.Global, providerFlag, ollamaHostFlag string) (ai.Runtime, string, error) {
	if cfg == nil {
		cfg = &cfgpkg.Global{}
	}
	provider := cfg.Provider
	if providerFlag != "" {
		provider = providerFlag
	}
	switch provider {
	case "", ai.ProviderOpenRouter:
		rt := ai.NewClientWithBaseURL(
			cfg.APIKey,
			time.Duration(cfg.HTTPTimeoutSec)*time.Second,
			cfg.RetryMaxAttempts,
			time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
			time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond,
			"",
		)
		return rt, ai.ProviderOpenRouter, nil
	case ai.ProviderOllama, "local":
		host := cfg.OllamaHost
		if ollamaHostFlag != "" {
			host = ollamaHostFlag
		}
		rt := ai.NewOllamaClient(host, time.Duration(cfg.OllamaTimeoutSec)*time.Second)
		return rt, ai.ProviderOllama, nil
	}
	return nil, "", fmt.Errorf("unknown provider: %s (use openrouter or ollama)", provider)
}

// narrativeHint turns a generation failure into a short actionable message
// for common error classes.
func narrativeHint(err error, providerName, model string) string {
	var (
		authErr *ai.AuthError
		rlErr   *ai.RateLimitError
		nfErr   *ai.ModelNotFoundError
		qErr    *ai.QuotaExceededError
		sErr    *ai.ServerError
		unreach *ai.UnreachableError
	)
	switch {
	case errors.As(err, &unreach):
		if providerName == ai.ProviderOllama {
			return fmt.Sprintf("Ollama not reachable at %s. Ensure Ollama is running (see https://ollama.com) or set 'ollama_host' in config.", unreach.Host)
		}
		return "endpoint unreachable, check your network and provider settings"
	case errors.As(err, &authErr):
		return "authentication failed: set DATABROOM_API_KEY or add api_key in config (~/.databroom/config.yaml)"
	case errors.As(err, &rlErr):
		if rlErr.RetryAfter > 0 {
			return fmt.Sprintf("rate limited, try again in ~%ds", int(rlErr.RetryAfter.Seconds()))
		}
		return "rate limited by provider, please retry"
	case errors.As(err, &nfErr):
		if providerName == ai.ProviderOllama {
			return fmt.Sprintf("local model not available (%s). Install it with 'ollama pull %s' or choose another model.", model, model)
		}
		return fmt.Sprintf("model not found (%s), verify the model name", model)
	case errors.As(err, &qErr):
		return "quota/billing issue, check your provider account"
	case errors.As(err, &sErr):
		return "provider appears unavailable (server error), please retry later"
	}
	return ""
}
