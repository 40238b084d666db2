package cleaning

import (
	"math"
	"testing"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		q, want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, c := range cases {
		if got := quantile(sorted, c.q); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("quantile(%v) = %v, want %v", c.q, got, c.want)
		}
	}
	if quantile(nil, 0.5) != 0 {
		t.Error("empty slice should yield 0")
	}
}

func TestMedian(t *testing.T) {
	in := []float64{3, 1, 2}
	if got := median(in); got != 2 {
		t.Errorf("median = %v", got)
	}
	if in[0] != 3 {
		t.Error("median mutated its input")
	}
	if got := median([]float64{4, 1}); got != 2.5 {
		t.Errorf("even median = %v", got)
	}
}

func TestModeTieBreaksSmallest(t *testing.T) {
	got, ok := mode(map[string]int{"b": 2, "a": 2, "c": 1})
	if !ok || got != "a" {
		t.Errorf("mode = %q ok=%v", got, ok)
	}
	if _, ok := mode(nil); ok {
		t.Error("empty counts should report no mode")
	}
}
