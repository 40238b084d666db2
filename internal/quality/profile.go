package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/databroomhq/databroom-cli/internal/table"
)

// ProfileOptions controls profiling behavior.
type ProfileOptions struct {
	// SampleRows determines how many example rows the profile includes.
	SampleRows int
	// NumberFormat used when deciding whether a text cell is numeric.
	NumberFormat table.NumberFormat
}

// DefaultProfileOptions returns reasonable defaults.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{SampleRows: 5}
}

// Profile is a compact, markdown-friendly description of a table, used as
// context for the narrative prompts and for the `profile` command.
type Profile struct {
	Name    string
	Rows    int
	Columns []ColumnProfile
	Samples [][]string
}

// ColumnProfile captures the inferred kind and statistics of one column.
type ColumnProfile struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []ValueCount
	Examples  []string
}

type ValueCount struct {
	Value string
	Count int
}

// NewProfile inspects every cell once and classifies each column by its
// predominant parsed type. Numeric parsing is tried first, then datetime,
// then categorical/text.
func NewProfile(t *table.Table, opt ProfileOptions) *Profile {
	p := &Profile{Name: t.Name, Rows: t.RowCount()}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < t.RowCount() && i < sampleRows; i++ {
		row := t.Row(i)
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.String()
		}
		p.Samples = append(p.Samples, rec)
	}

	for _, c := range t.Columns {
		var (
			numCnt, dtCnt, txtCnt int
			n                     int
			mean, m2              float64
			minV                  = math.Inf(1)
			maxV                  = math.Inf(-1)
			cats                  = make(map[string]int)
			examples              []string
		)
		cp := ColumnProfile{Name: c.Name}
		for _, v := range c.Values {
			var text string
			switch v.Kind() {
			case table.KindMissing:
				cp.Missing++
				continue
			case table.KindNumber:
				text = v.String()
			default:
				text = strings.TrimSpace(v.Text())
				if text == "" {
					cp.Missing++
					continue
				}
			}
			cp.NonNull++
			if x, ok := numericCell(v, opt.NumberFormat); ok {
				numCnt++
				n++
				if x < minV {
					minV = x
				}
				if x > maxV {
					maxV = x
				}
				// Welford update
				delta := x - mean
				mean += delta / float64(n)
				m2 += delta * (x - mean)
				continue
			}
			if _, err := dateparse.ParseAny(text); err == nil {
				dtCnt++
				continue
			}
			txtCnt++
			if len(cats) <= 10000 && len(text) <= 64 {
				cats[text]++
			}
			if len(examples) < 3 {
				examples = append(examples, text)
			}
		}

		kind := "unknown"
		switch {
		case numCnt >= dtCnt && numCnt >= txtCnt && numCnt > 0:
			kind = "numeric"
			cp.Min = minV
			cp.Max = maxV
			cp.Mean = mean
			if n > 1 {
				cp.Std = math.Sqrt(m2 / float64(n-1))
			}
		case dtCnt >= txtCnt && dtCnt > 0:
			kind = "datetime"
		case len(cats) > 0:
			kind = "categorical"
			tops := make([]ValueCount, 0, len(cats))
			for v, cnt := range cats {
				tops = append(tops, ValueCount{Value: v, Count: cnt})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 8 {
				tops = tops[:8]
			}
			cp.TopValues = tops
			cp.Unique = len(cats)
		case txtCnt > 0:
			kind = "text"
			cp.Examples = examples
		}
		cp.Kind = kind
		p.Columns = append(p.Columns, cp)
	}
	return p
}

func numericCell(v table.Value, f table.NumberFormat) (float64, bool) {
	if v.Kind() == table.KindNumber {
		return v.Number(), true
	}
	return table.ParseNumber(v.Text(), f)
}

// Markdown renders the profile in a compact form suitable for prompts or
// standalone output.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", p.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", p.Rows)
	fmt.Fprintf(&b, "Columns: %d\n\n", len(p.Columns))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Columns {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100 / float64(total)
		}
		fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct)
		switch c.Kind {
		case "numeric":
			fmt.Fprintf(&b, " — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s(%d)", safeValue(kv.Value), kv.Count)
				}
				if c.Unique > len(c.TopValues) {
					fmt.Fprintf(&b, "; unique=%d", c.Unique)
				}
			}
		case "text":
			if len(c.Examples) > 0 {
				b.WriteString(" — e.g., ")
				for i, ex := range c.Examples {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeValue(ex))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(p.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n| ")
		for i, c := range p.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range p.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range p.Samples {
			b.WriteString("| ")
			for i := range p.Columns {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeValue(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeValue(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
