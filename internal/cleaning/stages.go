package cleaning

import (
	"sort"
	"strings"

	"github.com/databroomhq/databroom-cli/internal/table"
)

// normalizeHeaders trims surrounding whitespace from every column name and
// re-disambiguates any collision the trim introduced. Idempotent.
func normalizeHeaders(t *table.Table, _ *Stats) {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = strings.TrimSpace(c.Name)
	}
	for i, name := range table.UniqueHeaders(names) {
		t.Columns[i].Name = name
	}
}

// dropDuplicateRows removes rows that exactly repeat an earlier row,
// missing-equals-missing. First occurrence wins; survivor order is
// preserved. Idempotent.
func dropDuplicateRows(t *table.Table, s *Stats) {
	rows := t.RowCount()
	if rows == 0 {
		return
	}
	seen := make(map[string]struct{}, rows)
	keep := make([]bool, rows)
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		sb.Reset()
		for _, c := range t.Columns {
			v := c.Values[i]
			switch v.Kind() {
			case table.KindMissing:
				sb.WriteString("\x00m")
			case table.KindNumber:
				sb.WriteString("\x00n")
				sb.WriteString(v.String())
			default:
				sb.WriteString("\x00t")
				sb.WriteString(v.Text())
			}
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			s.DuplicateRowsRemoved++
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}
	if s.DuplicateRowsRemoved > 0 {
		t.FilterRows(keep)
	}
}

// blankToMissing turns empty and whitespace-only text cells into the
// missing marker so later stages see one uniform representation.
func blankToMissing(t *table.Table, s *Stats) {
	for _, c := range t.Columns {
		for i, v := range c.Values {
			if v.Kind() == table.KindText && strings.TrimSpace(v.Text()) == "" {
				c.Values[i] = table.Missing()
				s.BlankCellsCleared++
			}
		}
	}
}

// coerceAndImpute applies per-column type coercion followed by imputation.
// Coercion is all-or-nothing: a single unparseable non-missing value keeps
// the column textual. Numeric columns impute the median, textual columns
// the mode (ties toward the smallest value) or "Unknown" when no value was
// ever observed. A column with zero non-missing cells is left untouched;
// the pruning stage removes it.
func (p *Pipeline) coerceAndImpute(t *table.Table, s *Stats) {
	for _, c := range t.Columns {
		if nums, ok := tryParseNumeric(c, p.format); ok {
			coerceNumeric(c, nums, s)
			continue
		}
		imputeText(c, s)
	}
}

// tryParseNumeric attempts to reinterpret the whole column as numeric.
// It returns the parsed values aligned with c.Values (missing entries
// untouched) and whether every non-missing value parsed. A column with no
// non-missing values reports false: there is no evidence it is numeric.
func tryParseNumeric(c *table.Column, f table.NumberFormat) ([]float64, bool) {
	nums := make([]float64, len(c.Values))
	observed := false
	for i, v := range c.Values {
		switch v.Kind() {
		case table.KindMissing:
			continue
		case table.KindNumber:
			nums[i] = v.Number()
			observed = true
		default:
			x, ok := table.ParseNumber(v.Text(), f)
			if !ok {
				return nil, false
			}
			nums[i] = x
			observed = true
		}
	}
	return nums, observed
}

func coerceNumeric(c *table.Column, nums []float64, s *Stats) {
	var present []float64
	for i, v := range c.Values {
		if !v.IsMissing() {
			present = append(present, nums[i])
		}
	}
	med := median(present)
	for i, v := range c.Values {
		if v.IsMissing() {
			c.Values[i] = table.Number(med)
			s.CellsImputed++
		} else {
			c.Values[i] = table.Number(nums[i])
		}
	}
	c.Numeric = true
	s.ColumnsCoerced++
}

func imputeText(c *table.Column, s *Stats) {
	counts := make(map[string]int)
	missing := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			missing++
			continue
		}
		counts[v.Text()]++
	}
	if missing == 0 {
		return
	}
	if missing == len(c.Values) {
		// nothing observed; leave for the pruning stage
		return
	}
	fill, ok := mode(counts)
	if !ok {
		fill = "Unknown"
	}
	for i, v := range c.Values {
		if v.IsMissing() {
			c.Values[i] = table.Text(fill)
			s.CellsImputed++
		}
	}
}

// clipOutliers bounds numeric columns to [Q1-1.5*IQR, Q3+1.5*IQR], with
// quartiles and the replacement median both computed after imputation.
// Values strictly outside the fences become the median. When IQR is zero
// the fences collapse to Q1, so any value differing from the common value
// is normalized to it.
func clipOutliers(t *table.Table, s *Stats) {
	for _, c := range t.Columns {
		if !c.Numeric || len(c.Values) == 0 {
			continue
		}
		vals := make([]float64, 0, len(c.Values))
		for _, v := range c.Values {
			vals = append(vals, v.Number())
		}
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		med := quantile(sorted, 0.5)
		iqr := q3 - q1
		lower := q1 - 1.5*iqr
		upper := q3 + 1.5*iqr
		for i, x := range vals {
			if x < lower || x > upper {
				c.Values[i] = table.Number(med)
				s.OutliersClipped++
			}
		}
	}
}

// pruneDeadColumns drops columns that are entirely missing, plus the
// defensive case of columns whose non-missing values are all the empty
// string (normally impossible after blank normalization).
func pruneDeadColumns(t *table.Table, s *Stats) {
	removed := t.DropColumns(func(c *table.Column) bool {
		allMissing := true
		allEmptyText := true
		for _, v := range c.Values {
			if !v.IsMissing() {
				allMissing = false
				if v.Kind() != table.KindText || v.Text() != "" {
					allEmptyText = false
				}
			}
		}
		if len(c.Values) == 0 {
			return false
		}
		return allMissing || allEmptyText
	})
	s.ColumnsDropped += len(removed)
	s.DroppedColumns = append(s.DroppedColumns, removed...)
}
