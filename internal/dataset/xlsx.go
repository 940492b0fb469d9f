package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadXLSX extracts rows from the selected sheet of a .xlsx workbook.
// If sheetName is empty and sheetIndex <= 0, it defaults to the first sheet.
// sheetIndex is 1-based (Sheet1 == 1).
func LoadXLSX(file string, opt Options, sheetName string, sheetIndex int) (*Dataset, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	name := filepath.Base(file)
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			available := make([]string, len(sheets))
			for i, s := range sheets {
				available[i] = s.Name
			}
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheetName, name, strings.Join(available, ", "))
		}
	}
	if target == "" {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range sheets {
			if s.SheetID == idx {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			target = path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx))
		}
	}

	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))
	rr := newSheetRowReader(readZipFile(zr, target), shared)
	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return &Dataset{Name: name}, nil
	}
	header = append([]string(nil), header...)
	col := newCollector(header, opt)
	for {
		rec, ok := rr.Next()
		if !ok {
			break
		}
		col.add(rec)
	}
	return col.dataset(name), nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbook extracts sheet entries with names and relationship ids. The
// r:id prefix varies between writers, so attributes are matched by local name.
func parseWorkbook(data []byte) []wbSheet {
	var wb struct {
		Sheets []struct {
			Attrs []xml.Attr `xml:",any,attr"`
		} `xml:"sheets>sheet"`
	}
	if len(data) == 0 || xml.Unmarshal(data, &wb) != nil {
		return nil
	}
	out := make([]wbSheet, 0, len(wb.Sheets))
	for _, raw := range wb.Sheets {
		var s wbSheet
		for _, a := range raw.Attrs {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID, _ = strconv.Atoi(a.Value)
			case "id":
				s.RID = a.Value
			}
		}
		out = append(out, s)
	}
	return out
}

// parseRelationships maps relationship ids to their targets.
func parseRelationships(data []byte) map[string]string {
	var rels struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	out := map[string]string{}
	if len(data) == 0 || xml.Unmarshal(data, &rels) != nil {
		return out
	}
	for _, r := range rels.Items {
		if r.ID != "" && r.Target != "" {
			out[r.ID] = r.Target
		}
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) []byte {
	f, err := zr.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()
	b, _ := io.ReadAll(f)
	return b
}

// parseSharedStrings flattens every <si> entry, including rich-text runs.
func parseSharedStrings(data []byte) []string {
	var sst struct {
		Items []struct {
			T    string `xml:"t"`
			Runs []struct {
				T string `xml:"t"`
			} `xml:"r"`
		} `xml:"si"`
	}
	if len(data) == 0 || xml.Unmarshal(data, &sst) != nil {
		return nil
	}
	out := make([]string, len(sst.Items))
	for i, si := range sst.Items {
		if len(si.Runs) == 0 {
			out[i] = si.T
			continue
		}
		var sb strings.Builder
		sb.WriteString(si.T)
		for _, r := range si.Runs {
			sb.WriteString(r.T)
		}
		out[i] = sb.String()
	}
	return out
}

// sheetRowReader streams <row> elements so large sheets never load as a DOM.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
}

type sheetCell struct {
	Ref    string `xml:"r,attr"`
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the next row with cells placed by their column reference.
func (r *sheetRowReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		var row struct {
			Cells []sheetCell `xml:"c"`
		}
		if err := r.dec.DecodeElement(&row, &se); err != nil {
			return nil, false
		}
		var out []string
		for i, c := range row.Cells {
			idx := i
			if c.Ref != "" {
				idx = colIndexFromRef(c.Ref)
			}
			if idx < 0 {
				continue
			}
			for len(out) <= idx {
				out = append(out, "")
			}
			out[idx] = r.cellValue(c)
		}
		return out, true
	}
}

func (r *sheetRowReader) cellValue(c sheetCell) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(r.shared) {
			return ""
		}
		return r.shared[idx]
	case "inlineStr":
		return c.Inline
	default:
		return c.Value
	}
}

// colIndexFromRef maps refs like "C12" to a 0-based column index.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		ch := ref[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			idx = idx*26 + int(ch-'A'+1)
		case ch >= 'a' && ch <= 'z':
			idx = idx*26 + int(ch-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// normalizeRelPath converts relationship Target paths to ZIP entry names.
// Targets may carry a leading slash and may be relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
