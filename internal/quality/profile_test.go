package quality

import (
	"strings"
	"testing"

	"github.com/databroomhq/databroom-cli/internal/table"
)

func profileFixture() *table.Table {
	return table.FromRecords("metrics.csv",
		[]string{"Score", "When", "Category", "Note"},
		[][]string{
			{"10.5", "2024-01-02", "alpha", "first note"},
			{"11.0", "2024-02-03", "alpha", "second note"},
			{"9.5", "2024-03-04", "beta", "third note"},
			{"", "2024-04-05", "alpha", ""},
		})
}

func TestProfileKinds(t *testing.T) {
	p := NewProfile(profileFixture(), DefaultProfileOptions())
	kinds := map[string]string{}
	for _, c := range p.Columns {
		kinds[c.Name] = c.Kind
	}
	want := map[string]string{
		"Score":    "numeric",
		"When":     "datetime",
		"Category": "categorical",
	}
	for name, k := range want {
		if kinds[name] != k {
			t.Errorf("%s kind = %q, want %q", name, kinds[name], k)
		}
	}
}

func TestProfileNumericStats(t *testing.T) {
	p := NewProfile(profileFixture(), DefaultProfileOptions())
	var score ColumnProfile
	for _, c := range p.Columns {
		if c.Name == "Score" {
			score = c
		}
	}
	if score.NonNull != 3 || score.Missing != 1 {
		t.Fatalf("counts = %d/%d", score.NonNull, score.Missing)
	}
	if score.Min != 9.5 || score.Max != 11.0 {
		t.Errorf("min/max = %v/%v", score.Min, score.Max)
	}
}

func TestProfileCategoricalTops(t *testing.T) {
	p := NewProfile(profileFixture(), DefaultProfileOptions())
	for _, c := range p.Columns {
		if c.Name != "Category" {
			continue
		}
		if len(c.TopValues) == 0 || c.TopValues[0].Value != "alpha" || c.TopValues[0].Count != 3 {
			t.Fatalf("top values = %+v", c.TopValues)
		}
		if c.Unique != 2 {
			t.Errorf("unique = %d", c.Unique)
		}
	}
}

func TestProfileMarkdownSections(t *testing.T) {
	p := NewProfile(profileFixture(), ProfileOptions{SampleRows: 2})
	md := p.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "[SAMPLE ROWS]", "File: metrics.csv", "Rows: 4"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Count(md, "\n| ") < 2 {
		t.Error("sample rows table missing")
	}
}

func TestProfileSampleRowsCapped(t *testing.T) {
	p := NewProfile(profileFixture(), ProfileOptions{SampleRows: 2})
	if len(p.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(p.Samples))
	}
}
