package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// loadXLSX extracts the selected worksheet of an .xlsx workbook into a
// Table. Sheet selection: by name if given, else by 1-based index, else the
// first sheet. Cell values are read as their raw string representation;
// shared and inline strings are resolved.
func loadXLSX(path string, opt Options) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("open workbook: %w", err)}
	}

	sheets := parseWorkbook(zipEntry(zr, "xl/workbook.xml"))
	rels := parseRelationships(zipEntry(zr, "xl/_rels/workbook.xml.rels"))
	shared := parseSharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	target := resolveSheetPath(sheets, rels, opt.SheetName, opt.SheetIndex)
	if target == "" {
		names := make([]string, len(sheets))
		for i, s := range sheets {
			names[i] = s.Name
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("sheet %q not found (available: %s)", opt.SheetName, strings.Join(names, ", "))}
	}

	rr := newSheetReader(zipEntry(zr, target), shared)
	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return New(filepath.Base(path)), nil
	}
	var records [][]string
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		records = append(records, row)
	}
	return FromRecords(filepath.Base(path), header, records), nil
}

func resolveSheetPath(sheets []workbookSheet, rels map[string]string, name string, index int) string {
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, name) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel)
				}
			}
		}
		return ""
	}
	idx := index
	if idx <= 0 {
		idx = 1
	}
	for _, s := range sheets {
		if s.SheetID == idx {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel)
			}
		}
	}
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
}

type workbookSheet struct {
	Name    string
	SheetID int
	RID     string
}

func parseWorkbook(data []byte) []workbookSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []workbookSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s workbookSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = digitsPrefix(a.Value)
			case "id": // r: namespace
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, targetPath string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				targetPath = a.Value
			}
		}
		if id != "" && targetPath != "" {
			out[id] = targetPath
		}
	}
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sheetReader yields worksheet rows as string slices, resolving cell
// references so sparse rows keep their column positions.
type sheetReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []string
	maxCol int
}

func newSheetReader(data []byte, shared []string) *sheetReader {
	return &sheetReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnIndex(ref)
				if col < 0 {
					// no reference attribute: append after the last cell
					col = len(r.curRow)
				}
				if col+1 > r.maxCol {
					r.maxCol = col + 1
				}
				val := r.cellValue(typ)
				if len(r.curRow) <= col {
					grown := make([]string, col+1)
					copy(grown, r.curRow)
					r.curRow = grown
				}
				r.curRow[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					grown := make([]string, r.maxCol)
					copy(grown, r.curRow)
					r.curRow = grown
				}
				r.inRow = false
				return r.curRow, true
			}
		}
	}
}

// cellValue consumes tokens up to </c>, capturing <v> or inline <is><t>
// content. Shared-string cells (t="s") are resolved through the table.
func (r *sheetReader) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					inner, err := r.dec.Token()
					if err != nil {
						break
					}
					if end, ok := inner.(xml.EndElement); ok && (end.Name.Local == "v" || end.Name.Local == "t") {
						break
					}
					if ch, ok := inner.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					idx := digitsPrefix(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex converts an A1-style reference to a 0-based column index.
func columnIndex(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			i++
			continue
		}
		break
	}
	letters := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(letters); j++ {
		idx = idx*26 + int(letters[j]-'A'+1)
	}
	return idx - 1
}

func digitsPrefix(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// normalizeRelPath maps relationship targets onto ZIP entry names, which
// never carry a leading slash.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return "xl/" + rel
}
