package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Letter portrait in points, with a text column that leaves the classic
// 40pt margins on both sides.
const (
	pageMarginX = 40.0
	bodyWidth   = 532.0
	bodyLine    = 14.0
)

// RenderPDF lays out the one-page summary: a centered title, the shape and
// score metrics, then the narrative sections when present.
func RenderPDF(r *Report) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Data Cleaning Summary Report", false)
	pdf.SetAutoPageBreak(true, 40)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(180, 60, "Data Cleaning Summary Report")

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(pageMarginX, 100, fmt.Sprintf("Rows: %d -> %d", r.RowsBefore, r.RowsAfter))
	pdf.Text(200, 100, fmt.Sprintf("Columns: %d -> %d", r.ColsBefore, r.ColsAfter))

	pdf.Text(pageMarginX, 130, fmt.Sprintf("Before Score: %.2f", r.BeforeScore))
	pdf.Text(250, 130, fmt.Sprintf("After Score: %.2f", r.AfterScore))
	pdf.Text(450, 130, fmt.Sprintf("Improvement: %.2f", r.Improvement))

	pdf.SetXY(pageMarginX, 180-bodyLine)
	pdf.SetFont("Helvetica", "", 10)
	writeSection(pdf, "Cleaning Summary", r.Summary)
	writeSection(pdf, "Initial Analysis", r.Analysis)
	writeSection(pdf, "Actions Taken", actionLines(r))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, heading, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(bodyWidth, bodyLine, heading, "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(bodyWidth, bodyLine, body, "", "L", false)
	pdf.Ln(bodyLine / 2)
	pdf.SetX(pageMarginX)
}

// actionLines summarizes the pipeline counters so the PDF stays useful
// even when both narratives are unavailable.
func actionLines(r *Report) string {
	var lines []string
	if n := r.Pipeline.DuplicateRowsRemoved; n > 0 {
		lines = append(lines, fmt.Sprintf("- Removed %d duplicate row(s)", n))
	}
	if n := r.Pipeline.BlankCellsCleared; n > 0 {
		lines = append(lines, fmt.Sprintf("- Normalized %d blank cell(s)", n))
	}
	if n := r.Pipeline.CellsImputed; n > 0 {
		lines = append(lines, fmt.Sprintf("- Imputed %d missing value(s)", n))
	}
	if n := r.Pipeline.OutliersClipped; n > 0 {
		lines = append(lines, fmt.Sprintf("- Clipped %d outlier(s) to the column median", n))
	}
	if cols := r.Pipeline.DroppedColumns; len(cols) > 0 {
		lines = append(lines, fmt.Sprintf("- Dropped empty column(s): %s", strings.Join(cols, ", ")))
	}
	if len(lines) == 0 {
		lines = append(lines, "- No changes were necessary")
	}
	return strings.Join(lines, "\n")
}
