// Package narrative turns dataset profiles and cleaning statistics into
// model-written prose for the final report. Every failure here is advisory:
// cleaning and CSV output never depend on a narrative being available.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/databroomhq/databroom-cli/internal/ai"
	"github.com/databroomhq/databroom-cli/internal/utils"
)

// ErrNarrativeUnavailable is the sentinel callers match with errors.Is to
// recognize that prose generation failed but the run should continue.
var ErrNarrativeUnavailable = errors.New("narrative unavailable")

// UnavailableError wraps a generation failure with the operation that hit
// it. It matches ErrNarrativeUnavailable under errors.Is.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("narrative %s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrNarrativeUnavailable }

// CleaningFacts is the numeric summary of one cleaning run handed to the
// summarization prompt.
type CleaningFacts struct {
	RowsBefore  int
	RowsAfter   int
	ColsBefore  int
	ColsAfter   int
	BeforeScore float64
	AfterScore  float64

	DuplicateRowsRemoved int
	BlankCellsCleared    int
	CellsImputed         int
	OutliersClipped      int
	DroppedColumns       []string
}

// Config controls generation parameters for both prompts.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// PromptBudget caps the profile context in estimated tokens.
	PromptBudget int
	// OnDelta, when set and the runtime supports streaming, receives
	// partial chunks as they arrive.
	OnDelta func(string)
}

// Reporter generates the pre-clean analysis and post-clean summary.
type Reporter struct {
	rt  ai.Runtime
	cfg Config
}

// New builds a Reporter over any generation runtime.
func New(rt ai.Runtime, cfg Config) *Reporter {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.PromptBudget <= 0 {
		cfg.PromptBudget = 60000
	}
	return &Reporter{rt: rt, cfg: cfg}
}

const analyzeSystem = "You are a data cleaning assistant. You examine dataset profiles and describe data quality issues in clear, plain language for a non-technical reader."

// Analyze asks the model to identify quality issues in the raw dataset,
// given its markdown profile.
func (r *Reporter) Analyze(ctx context.Context, profileMD string) (string, error) {
	profileMD = utils.TruncateToTokenLimit(profileMD, r.cfg.PromptBudget)
	prompt := "Here is a profile of a dataset before cleaning:\n\n" + profileMD + "\n\n" +
		"Identify issues such as missing values, duplicate rows, inconsistent column types, and likely outliers. " +
		"Describe the issues briefly and suggest what cleaning would help."
	out, err := r.generate(ctx, analyzeSystem, prompt)
	if err != nil {
		return "", &UnavailableError{Op: "analysis", Err: err}
	}
	return out, nil
}

// Summarize asks the model to restate the cleaning outcome in
// human-readable language.
func (r *Reporter) Summarize(ctx context.Context, facts CleaningFacts) (string, error) {
	out, err := r.generate(ctx, analyzeSystem, summaryPrompt(facts))
	if err != nil {
		return "", &UnavailableError{Op: "summary", Err: err}
	}
	return out, nil
}

func summaryPrompt(f CleaningFacts) string {
	var b strings.Builder
	b.WriteString("The dataset has been cleaned. Facts about the run:\n")
	fmt.Fprintf(&b, "- Rows: %d before, %d after\n", f.RowsBefore, f.RowsAfter)
	fmt.Fprintf(&b, "- Columns: %d before, %d after\n", f.ColsBefore, f.ColsAfter)
	fmt.Fprintf(&b, "- Quality score: %.2f before, %.2f after\n", f.BeforeScore, f.AfterScore)
	fmt.Fprintf(&b, "- Duplicate rows removed: %d\n", f.DuplicateRowsRemoved)
	fmt.Fprintf(&b, "- Blank cells normalized: %d\n", f.BlankCellsCleared)
	fmt.Fprintf(&b, "- Missing values imputed: %d\n", f.CellsImputed)
	fmt.Fprintf(&b, "- Outliers clipped: %d\n", f.OutliersClipped)
	if len(f.DroppedColumns) > 0 {
		fmt.Fprintf(&b, "- Empty columns dropped: %s\n", strings.Join(f.DroppedColumns, ", "))
	}
	b.WriteString("\nSummarize the cleaning improvements in human-readable language, in one or two short paragraphs.")
	return b.String()
}

// generate routes through streaming when both sides support it, otherwise
// falls back to a blocking call.
func (r *Reporter) generate(ctx context.Context, system, user string) (string, error) {
	req := ai.GenerateRequest{
		Model: r.cfg.Model,
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
	if r.cfg.OnDelta != nil {
		if sr, ok := r.rt.(ai.StreamRuntime); ok {
			var sb strings.Builder
			err := sr.GenerateStream(ctx, req, func(delta string) {
				sb.WriteString(delta)
				r.cfg.OnDelta(delta)
			})
			if err != nil {
				return "", err
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				return "", errors.New("empty response")
			}
			return text, nil
		}
	}
	resp, err := r.rt.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}
