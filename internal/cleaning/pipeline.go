// Package cleaning implements the fixed five-stage table cleaning pipeline:
// header normalization, duplicate removal, blank normalization, type
// coercion with imputation, IQR outlier clipping, and dead-column pruning.
package cleaning

import (
	"github.com/databroomhq/databroom-cli/internal/table"
)

// Stats accumulates per-stage counters for reporting and logging.
type Stats struct {
	DuplicateRowsRemoved int
	BlankCellsCleared    int
	ColumnsCoerced       int
	CellsImputed         int
	OutliersClipped      int
	ColumnsDropped       int
	DroppedColumns       []string
}

// Stage is one named transformation. Stages mutate the table they are
// given; ownership is scoped to Pipeline.Run, which operates on a clone.
type Stage struct {
	Name  string
	Apply func(t *table.Table, s *Stats)
}

// Pipeline is the ordered stage sequence. Order matters: each stage
// assumes the previous stage's postcondition.
type Pipeline struct {
	format table.NumberFormat
	stages []Stage
}

// New builds the standard pipeline using the given numeric format for
// column coercion.
func New(format table.NumberFormat) *Pipeline {
	p := &Pipeline{format: format}
	p.stages = []Stage{
		{Name: "normalize-headers", Apply: normalizeHeaders},
		{Name: "drop-duplicate-rows", Apply: dropDuplicateRows},
		{Name: "blank-to-missing", Apply: blankToMissing},
		{Name: "coerce-and-impute", Apply: p.coerceAndImpute},
		{Name: "clip-outliers", Apply: clipOutliers},
		{Name: "prune-dead-columns", Apply: pruneDeadColumns},
	}
	return p
}

// StageNames lists the stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run clones the input and applies every stage in order. The caller's
// table is untouched, so before/after quality scoring sees the same
// logical dataset at two points in its lifecycle.
func (p *Pipeline) Run(t *table.Table) (*table.Table, Stats) {
	out := t.Clone()
	var stats Stats
	for _, st := range p.stages {
		st.Apply(out, &stats)
	}
	return out, stats
}
