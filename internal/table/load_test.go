package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFixture(t, "people.csv", "Name,Age\nAlice,34\nBob,\n")
	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.Headers(); len(got) != 2 || got[0] != "Name" || got[1] != "Age" {
		t.Fatalf("headers = %v", got)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("rows = %d", tbl.RowCount())
	}
	if v := tbl.Column("Age").Values[0]; v.Text() != "34" {
		t.Errorf("Age[0] = %q", v.Text())
	}
}

func TestLoadCSVRaggedRowsArePadded(t *testing.T) {
	path := writeFixture(t, "ragged.csv", "A,B,C\n1,2\n4,5,6,7\n")
	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.ColumnCount() != 3 {
		t.Fatalf("cols = %d", tbl.ColumnCount())
	}
	if v := tbl.Column("C").Values[0]; v.Text() != "" {
		t.Errorf("short row not padded: %q", v.Text())
	}
}

func TestLoadTSVSniffsTab(t *testing.T) {
	path := writeFixture(t, "data.tsv", "X\tY\n1\t2\n")
	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.ColumnCount() != 2 {
		t.Fatalf("cols = %d, want 2", tbl.ColumnCount())
	}
}

func TestLoadCSVSemicolonDelimiter(t *testing.T) {
	path := writeFixture(t, "semi.csv", "A;B\n1;2\n")
	tbl, err := Load(path, Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.ColumnCount() != 2 {
		t.Fatalf("cols = %d, want 2", tbl.ColumnCount())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFixture(t, "empty.csv", "")
	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.RowCount() != 0 || tbl.ColumnCount() != 0 {
		t.Fatalf("expected empty table, got %dx%d", tbl.RowCount(), tbl.ColumnCount())
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFixture(t, "data.parquet", "not really")
	_, err := Load(path, Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]string{"Name", "name", "", "Age", "Name"})
	want := []string{"Name", "name_2", "Column_3", "Age", "Name_3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	tbl := FromRecords("t", []string{"A", "B"}, [][]string{{"1", "x"}, {"2", "y"}})
	tbl.Columns[0].Values[1] = Missing()
	out, err := EncodeCSV(tbl)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d: %q", len(lines), out)
	}
	if lines[0] != "A,B" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[2] != ",y" {
		t.Errorf("missing cell should encode empty: %q", lines[2])
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := FromRecords("t", []string{"A"}, [][]string{{"1"}})
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(tbl, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(b), "A\n") {
		t.Errorf("unexpected content: %q", b)
	}
}
