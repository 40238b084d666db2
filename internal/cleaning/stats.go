package cleaning

import (
	"math"
	"sort"
)

// quantile interpolates linearly between the closest ranks of a sorted
// slice, matching the convention used for Q1/Q3 in outlier clipping.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// median returns the 0.5 quantile of vals without mutating the input.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

// mode returns the most frequent value. Ties break toward the smallest
// value so imputation stays deterministic.
func mode(counts map[string]int) (string, bool) {
	best := ""
	bestN := 0
	for v, n := range counts {
		if n > bestN || (n == bestN && bestN > 0 && v < best) {
			best = v
			bestN = n
		}
	}
	return best, bestN > 0
}
