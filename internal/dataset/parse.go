package dataset

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Options controls how tabular sources are turned into a Dataset.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// DecimalSeparator and ThousandsSeparator fix the number locale. A zero
	// DecimalSeparator detects it per cell; a zero ThousandsSeparator drops
	// any of ',', '.' or ' ' that is not the decimal mark.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{MaxRows: 100000}
}

func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

var timeLayouts = []string{
	time.RFC3339, time.DateOnly, time.DateTime, "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func looksLikeTime(s string) bool {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// separators resolves the decimal and grouping marks for one cell. With no
// configured decimal mark, the last of ',' and '.' wins when both appear.
func separators(cell string, opt Options) (dec, group rune) {
	if opt.DecimalSeparator != 0 {
		return opt.DecimalSeparator, opt.ThousandsSeparator
	}
	comma, dot := strings.LastIndexByte(cell, ','), strings.LastIndexByte(cell, '.')
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		return ',', '.'
	case comma >= 0 && dot >= 0:
		return '.', ','
	case comma >= 0:
		return ',', opt.ThousandsSeparator
	}
	return '.', opt.ThousandsSeparator
}

// parseNumeric reads a locale-formatted number. Percent signs and
// non-breaking spaces are ignored.
func parseNumeric(s string, opt Options) (float64, bool) {
	cell := strings.TrimSpace(strings.NewReplacer("%", "", "\u00A0", " ").Replace(s))
	if cell == "" {
		return 0, false
	}
	dec, group := separators(cell, opt)
	var b strings.Builder
	for _, r := range cell {
		switch {
		case r == dec:
			b.WriteByte('.')
		case group == 0 && (r == ',' || r == '.' || r == ' '):
		case r == group:
		default:
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	return f, err == nil
}

// headerUnits are recognized as a trailing unit after '_', '-' or a space.
var headerUnits = []string{"mg/L", "ug/L", "g/L", "°C", "°F", "Brix", "ppm", "ppb", "%"}

// splitUnits separates a unit from a column header: "Temp (°F)", "Mass [mg/L]"
// and "nitrate_mg/L" all yield a bare name plus the unit.
func splitUnits(header string) (name, unit string) {
	s := strings.TrimSpace(header)
	for _, br := range [...][2]string{{"(", ")"}, {"[", "]"}} {
		if !strings.HasSuffix(s, br[1]) {
			continue
		}
		if open := strings.LastIndex(s, br[0]); open > 0 {
			n, u := strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1:len(s)-1])
			if n != "" && u != "" {
				return n, u
			}
		}
	}
	for _, u := range headerUnits {
		base, ok := strings.CutSuffix(s, u)
		if !ok {
			continue
		}
		if n := strings.TrimRight(base, "_- \t"); n != "" && len(n) < len(base) {
			return n, u
		}
	}
	return s, ""
}
