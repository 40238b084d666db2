// Package quality computes data-quality metrics and prompt-ready dataset
// profiles for a table.
package quality

import "github.com/databroomhq/databroom-cli/internal/table"

// Score returns the completeness percentage of the table's current state:
// 100 × (1 − missing/total). A table with zero cells scores 100.
func Score(t *table.Table) float64 {
	total := t.CellCount()
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(t.MissingCells())/float64(total))
}
