package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/databroomhq/databroom-cli/internal/cleaning"
)

func TestNewDerivesImprovement(t *testing.T) {
	r := New("data.csv", 4, 3, 3, 2, 75, 100, cleaning.Stats{})
	if math.Abs(r.Improvement-25) > 1e-9 {
		t.Fatalf("improvement = %v, want 25", r.Improvement)
	}
	if r.ID == "" {
		t.Fatal("expected a report id")
	}
	if r.GeneratedAt.IsZero() {
		t.Fatal("expected a timestamp")
	}
}

func TestRenderPDF(t *testing.T) {
	r := New("data.csv", 4, 3, 3, 2, 75, 100, cleaning.Stats{
		DuplicateRowsRemoved: 1,
		CellsImputed:         2,
		DroppedColumns:       []string{"Notes"},
	})
	r.Analysis = "The Age column has missing values."
	r.Summary = "Missing ages were filled with the median."

	out, err := RenderPDF(r)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", out[:min(8, len(out))])
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(out))
	}
}

func TestRenderPDFWithoutNarratives(t *testing.T) {
	r := New("data.csv", 2, 2, 2, 2, 100, 100, cleaning.Stats{})
	out, err := RenderPDF(r)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a pdf")
	}
}
