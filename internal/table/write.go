package table

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/databroomhq/databroom-cli/internal/utils"
)

// EncodeCSV serializes the table to comma-separated text. Missing cells
// become empty fields, numbers use their shortest round-trip form.
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if t.ColumnCount() == 0 {
		return buf.Bytes(), nil
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	rows := t.RowCount()
	rec := make([]string, t.ColumnCount())
	for i := 0; i < rows; i++ {
		for j, c := range t.Columns {
			rec[j] = c.Values[i].String()
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV serializes the table and writes it to path atomically.
func WriteCSV(t *Table, path string) error {
	b, err := EncodeCSV(t)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
