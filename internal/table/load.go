package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options controls loading behavior.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over index.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index (Sheet1 == 1).
	SheetIndex int
}

// LoadError reports that a file could not be read or parsed. It always
// fires before any cleaning step runs; callers see no partial output.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a tabular file into a Table, dispatching on extension.
// Supported formats: .csv, .tsv, .xlsx.
func Load(path string, opt Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return loadCSV(path, opt)
	case ".xlsx":
		return loadXLSX(path, opt)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported format %q (expected .csv, .tsv, or .xlsx)", filepath.Ext(path))}
	}
}

func loadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(filepath.Base(path)), nil
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{Path: path, Err: fmt.Errorf("read row %d: %w", len(records)+2, err)}
		}
		row := make([]string, len(rec))
		copy(row, rec)
		records = append(records, row)
	}
	return FromRecords(filepath.Base(path), header, records), nil
}

// sniffDelimiter picks a delimiter from the file extension. TSV files are
// tab-separated, everything else defaults to comma.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
