package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the semantic type of a cell value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

// Value is a tri-state cell: a number, a piece of text, or the missing
// marker. Missing is distinct from the empty string and from numeric zero.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns the missing marker.
func Missing() Value { return Value{kind: KindMissing} }

// Text wraps a string as a text cell. The empty string is a valid text
// value; blank normalization is the cleaning pipeline's job, not the model's.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a float as a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Number returns the numeric payload. Only meaningful for KindNumber.
func (v Value) Number() float64 { return v.num }

// Text returns the text payload. Only meaningful for KindText.
func (v Value) Text() string { return v.text }

// String renders the value for CSV output. Missing serializes as the empty
// field; numbers use the shortest round-trip representation.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Equal reports value equality with missing-equals-missing semantics.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

// Column is a named, ordered sequence of values. Numeric is set once the
// cleaning pipeline coerces the whole column.
type Column struct {
	Name    string
	Values  []Value
	Numeric bool
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	vals := make([]Value, len(c.Values))
	copy(vals, c.Values)
	return &Column{Name: c.Name, Values: vals, Numeric: c.Numeric}
}

// Table is an ordered sequence of named columns of equal length.
// Column names are unique; the loader disambiguates collisions.
type Table struct {
	Name    string
	Columns []*Column
}

// New creates an empty table carrying the source name (usually the file base).
func New(name string) *Table {
	return &Table{Name: name}
}

// RowCount returns the number of rows (0 for a column-less table).
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// CellCount returns rows × columns.
func (t *Table) CellCount() int { return t.RowCount() * t.ColumnCount() }

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Headers returns the column names in order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Row materializes row i across all columns.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Values[i]
	}
	return out
}

// Clone returns a deep copy. The cleaning pipeline operates on a clone so
// the caller's table survives for before/after comparison.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone()
	}
	return out
}

// FilterRows keeps only the rows whose index is marked true. keep must have
// RowCount entries.
func (t *Table) FilterRows(keep []bool) {
	for _, c := range t.Columns {
		vals := c.Values[:0]
		for i, v := range c.Values {
			if keep[i] {
				vals = append(vals, v)
			}
		}
		c.Values = vals
	}
}

// DropColumns removes every column for which drop returns true and reports
// the removed names in original order.
func (t *Table) DropColumns(drop func(*Column) bool) []string {
	var removed []string
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if drop(c) {
			removed = append(removed, c.Name)
			continue
		}
		cols = append(cols, c)
	}
	t.Columns = cols
	return removed
}

// MissingCells counts cells with no usable value: missing markers plus
// text cells that are empty or whitespace-only. Blank text counts because
// raw loads keep blanks as text until the cleaning pipeline normalizes
// them, and completeness scoring must see both states the same way.
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.Columns {
		for _, v := range c.Values {
			if v.IsMissing() || (v.Kind() == KindText && strings.TrimSpace(v.Text()) == "") {
				n++
			}
		}
	}
	return n
}

// UniqueHeaders disambiguates duplicate names by suffixing an ordinal,
// keeping the first occurrence untouched: Name, Name_2, Name_3.
// Empty names become Column_N. Comparison is case-insensitive.
func UniqueHeaders(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		candidate := name
		for n := 2; used[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		used[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}

// FromRecords builds a table from a header plus string records. Short
// records are padded with empty text cells to the header width; long
// records are truncated. Every cell starts life as text.
func FromRecords(name string, header []string, records [][]string) *Table {
	t := New(name)
	names := UniqueHeaders(header)
	t.Columns = make([]*Column, len(names))
	for j, hn := range names {
		col := &Column{Name: hn, Values: make([]Value, len(records))}
		for i, rec := range records {
			if j < len(rec) {
				col.Values[i] = Text(rec[j])
			} else {
				col.Values[i] = Text("")
			}
		}
		t.Columns[j] = col
	}
	return t
}
