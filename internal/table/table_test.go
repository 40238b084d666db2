package table

import "testing"

func sampleTable() *Table {
	return FromRecords("t", []string{"A", "B"}, [][]string{
		{"1", "x"},
		{"2", "y"},
		{"3", "z"},
	})
}

func TestCloneIsIndependent(t *testing.T) {
	orig := sampleTable()
	cp := orig.Clone()
	cp.Columns[0].Values[0] = Missing()
	cp.Columns[0].Name = "renamed"
	if orig.Columns[0].Values[0].IsMissing() {
		t.Error("clone mutation leaked into original values")
	}
	if orig.Columns[0].Name != "A" {
		t.Error("clone mutation leaked into original name")
	}
}

func TestFilterRows(t *testing.T) {
	tbl := sampleTable()
	tbl.FilterRows([]bool{true, false, true})
	if tbl.RowCount() != 2 {
		t.Fatalf("rows = %d", tbl.RowCount())
	}
	if tbl.Column("B").Values[1].Text() != "z" {
		t.Errorf("survivor order broken: %q", tbl.Column("B").Values[1].Text())
	}
}

func TestDropColumns(t *testing.T) {
	tbl := sampleTable()
	removed := tbl.DropColumns(func(c *Column) bool { return c.Name == "A" })
	if len(removed) != 1 || removed[0] != "A" {
		t.Fatalf("removed = %v", removed)
	}
	if tbl.ColumnCount() != 1 || tbl.Headers()[0] != "B" {
		t.Fatalf("remaining headers = %v", tbl.Headers())
	}
}

func TestMissingCellsAndCellCount(t *testing.T) {
	tbl := sampleTable()
	tbl.Columns[0].Values[1] = Missing()
	if tbl.CellCount() != 6 {
		t.Errorf("cells = %d", tbl.CellCount())
	}
	if tbl.MissingCells() != 1 {
		t.Errorf("missing = %d", tbl.MissingCells())
	}
}

func TestValueString(t *testing.T) {
	if Missing().String() != "" {
		t.Error("missing should render empty")
	}
	if got := Number(2.5).String(); got != "2.5" {
		t.Errorf("number string = %q", got)
	}
	if got := Number(10).String(); got != "10" {
		t.Errorf("integral number string = %q", got)
	}
	if !Missing().Equal(Missing()) {
		t.Error("missing should equal missing")
	}
}
