// Package report assembles the outcome of a cleaning run into a single
// value and renders it as a one-page PDF summary.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/databroomhq/databroom-cli/internal/cleaning"
)

// Report captures everything the summary document needs about one run.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Source      string

	RowsBefore int
	RowsAfter  int
	ColsBefore int
	ColsAfter  int

	BeforeScore float64
	AfterScore  float64
	Improvement float64

	Pipeline cleaning.Stats

	// Analysis and Summary hold the model narratives; either may be empty
	// when narrative generation was skipped or unavailable.
	Analysis string
	Summary  string
}

// New builds a report and derives the improvement delta from the scores.
func New(source string, rowsBefore, colsBefore, rowsAfter, colsAfter int, beforeScore, afterScore float64, stats cleaning.Stats) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		RowsBefore:  rowsBefore,
		RowsAfter:   rowsAfter,
		ColsBefore:  colsBefore,
		ColsAfter:   colsAfter,
		BeforeScore: beforeScore,
		AfterScore:  afterScore,
		Improvement: afterScore - beforeScore,
		Pipeline:    stats,
	}
}
