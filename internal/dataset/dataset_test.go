package dataset

import (
	"encoding/base64"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var csvRows = []string{
	"Group;Concentration (g/L);Temp (°F);Score;LocaleNumber;Category;Note",
	"A;0,5;70;10,0;1.000,0;alpha;first",
	"A;0,6;71;11,0;1.100,0;alpha;second",
	"A;0,55;69;9,5;0.900,0;beta;third",
	"B;0,7;75;10,5;1.050,0;alpha;fourth",
	"B;0,65;74;9,8;0.980,0;beta;fifth",
	"B;0,68;73;10,2;1.020,0;alpha;sixth",
	"A;0,52;68;8,8;0.880,0;gamma;seventh",
	"B;0,75;76;9,7;0.970,0;beta;eighth",
	"A;3,0;95;50,0;5.000,0;alpha;ninth",
	"B;0,66;72;10,1;1.010,0;gamma;tenth",
}

var (
	processedConcentration = []float64{0.5, 0.6, 0.55, 0.7, 0.65, 0.68, 0.52, 0.75, 3.0}
	processedTemp          = []float64{70, 71, 69, 75, 74, 73, 68, 76, 95}
	processedScore         = []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50}
	processedLocale        = []float64{1000, 1100, 900, 1050, 980, 1020, 880, 970, 5000}
)

const xlsxFixtureBase64 = `
UEsDBBQAAAAIAMEwN1vYAxPv/wAAALYCAAATABwAW0NvbnRlbnRfVHlwZXNdLnhtbFVUCQADyjjSaMo40mh1eAsAAQQAAAAABAAAAAC1ks1OwzAQhO95CsvX
Kt60B4RQkh74OQKH8gDG3iRW/CfbLeHtcVIEEqIIpHJaWTOz32jlejsZTQ4YonK2oWtWUYJWOKls39Cn3V15SbdtUe9ePUaSvTY2dEjJXwFEMaDhkTmPNiud
C4an/Aw9eC5G3iNsquoChLMJbSrTvIO2BSH1DXZ8rxO5nbJyRAfUkZLro3fGNZR7r5XgKetwsPILqHyHsJxcPHFQPq6ygcIpyCyeZnxGH/JFgpJIHnlI99xk
I0waXlwYn50b2c97vunquk4JlE7sTY6w6ANyGQfEZDRbJjNc2dWvKiz+CMtYn7nLx/6/V9n8d5Ualm/YFm9QSwMECgAAAAAAxDA3WwAAAAAAAAAAAAAAAAMA
HAB4bC9VVAkAA9A40mjyONJodXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIAMQwN1tM2kS6xQAAAEkBAAAPABwAeGwvd29ya2Jvb2sueG1sVVQJAAPQONJo0DjS
aHV4CwABBAAAAAAEAAAAAI1Qu27DMAzc/RUC90aOhyIwZGcJAnhvP0CxaVuIRRqk+vj8qjEMZOjQ7Y7k3ZF05++4mE8UDUwNHA8lGKSeh0BTA+9v15cTnNvC
fbHcb8x3k8dJG5hTWmtrtZ8xej3wipQ7I0v0KVOZrK6CftAZMcXFVmX5aqMPBJtDLf/x4HEMPV64/4hIaTMRXHzKy+ocVoW2MMY9QvQX7sSQj9hANxELgnnU
uiHfB0bqkIF0wxHsH5KLT/5JUD0Jqk3g7J7n7P6WtvgBUEsDBAoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABwAeGwvd29ya3NoZWV0cy9VVAkAA+s40mjyONJo
dXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIANIwN1u3fFZsqwIAAIASAAAYABwAeGwvd29ya3NoZWV0cy9zaGVldDIueG1sVVQJAAPrONJo6zjSaHV4CwABBAAA
AAAEAAAAAJ3YT26bQBiH4X1OgVilkguD/wEVJkoMzibKJukBJngMqGYGDeMkvVXP0JN1nEhVQ/r7QCxx/BDsV9/gIbl6bY7Os9BdreTGDTzmOkIWal/LcuN+
f9x9jdyr9CJ5UfpHVwlhHPt+2W3cypj2m+93RSUa3nmqFdL+5aB0w4091KXftVrw/Rtqjv6csbXf8Fq66YXjJG8vZ9zw85E91urF0fb/u+/H9pXifHwduI7Z
uLU81lI8GO2mSd2liUlvtTq1iW/SxD+/4Bcf3Q1yWyULIY3mxn5e57L0777gs2zRWR5F0zqXv3/tCJwh/FAoLbDLkbtTBT+K+1PzJDTmO/jJuRGl0j8xvUX0
Xpn/XHDi22gf8837+ebgjNdEOmTYbEWkQipkRCKEAjYjWA6Zxxgpd0jyY1txogxyh1p3ZlSaRT/NYkIaZNhsTaRBKgyINAgFAZkGMi8YSIPkUBrkOlEouR/V
Ztlvs5zQBhk7NtTcILaOiTgIxdSI5vAKvXigDZJPwlBpEDNVrceVWfXLrMApb4gyyLBZSIRBKiS+4gyhgFw8c8g8tqLLIDk0Ncgd1EmbalSbdb/NekIbZOyK
Rk0NYuGSiINQPIuINvAKvTii2yA5MDWIHerDyDJhv0w4oQwytgzxdW0RCxdEGYTs2MyJNJB5bE6nQXJobJDr6teRbaJ+m2jCvQYZu8oQ39cWMSpohlBETg28
Qi8amBokS940VBrkOvFsNxzj4sT9OPGEwUHG3m6oJQ2xkPhplyEUU7e2HF6hF4d0HCQHljTERF1WI9ME7NPWlE2YHIgW1OfeQhZTvwagom/qOXaDGxxIh1Y2
CGU9dnqCz08P0I6Wmh+I7J2H2uZAFxJrYgaVvfcQ+6McO4/R29cdpENLHIRmYIVL/H+e9yT+34dJ6cUfUEsDBBQAAAAIAMcwN1sqMey0swAAAPgAAAAYABwA
eGwvd29ya3NoZWV0cy9zaGVldDEueG1sVVQJAAPWONJo1jjSaHV4CwABBAAAAAAEAAAAAE2P3WrDMAxG7/MURverkl6MUhyXwegLrHsA46iNqf+QxbLHr5OO
0cvzSfoO0qffGNQPcfU5jTDselCUXJ58uo3wfTm/HeBkOr1kvteZSFTbT3WEWaQcEaubKdq6y4VSm1wzRysN+Ya1MNlpO4oB933/jtH6BKZTSm/xpxW7UmPO
i+Lmhye3xK38MYCSEXwKPtGXMBjtq9FiSrCO5hwmYo1iNK4xur82bHWbBl88Gv+fMN0DUEsDBAoAAAAAAMYwN1sAAAAAAAAAAAAAAAAJABwAeGwvX3JlbHMv
VVQJAAPTONJo8jjSaHV4CwABBAAAAAAEAAAAAFBLAwQUAAAACADGMDdbCmPblLYAAACtAQAAGgAcAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxzVVQJAAPT
ONJo0zjSaHV4CwABBAAAAAAEAAAAAL2QSwrCMBBA9z1FmL2dtgsRadqNCN1KPUBIpx/aJiGJv9sbBMWCgitXw/zePCYvr/PEzmTdoBWHNE6AkZK6GVTH4Vjv
Vxsoiyg/0CR8GHH9YBwLO8px6L03W0Qne5qFi7UhFTqttrPwIbUdGiFH0RFmSbJG+86AImJsgWVVw8FWTQqsvhn6Ba/bdpC00/I0k/IfruBF29H1RD5Ahe3I
c3iVHD5CGgcq4Fef7M8+2dMnx8XXi+gOUEsDBAoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABwAX3JlbHMvVVQJAAPNONJo8jjSaHV4CwABBAAAAAAEAAAAAFBL
AwQUAAAACADDMDdbDxvLDKoAAAAcAQAACwAcAF9yZWxzLy5yZWxzVVQJAAPNONJozTjSaHV4CwABBAAAAAAEAAAAAI3PsQ6CMBAG4J2naG6XgoMxxsJiTFgN
PkAtRyHQXtNWxbe3oxgHx8v9913+Y72YmT3Qh5GsgDIvgKFV1I1WC7i2580e6io7XnCWMUXCMLrA0o0NAoYY3YHzoAY0MuTk0KZNT97ImEavuZNqkhr5tih2
3H8aUGWMrVjWdAJ805XA2pfDf3jq+1HhidTdoI0/vnwlkiy9xihgmfmT/HQjmvKEAk8d+apklb0BUEsBAh4DFAAAAAgAwTA3W9gDE+//AAAAtgIAABMAGAAA
AAAAAQAAAKSBAAAAAFtDb250ZW50X1R5cGVzXS54bWxVVAUAA8o40mh1eAsAAQQAAAAABAAAAABQSwECHgMKAAAAAADEMDdbAAAAAAAAAAAAAAAAAwAYAAAA
AAAAABAA7UFMAQAAeGwvVVQFAAPQONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DFAAAAAgAxDA3W0zaRLrFAAAASQEAAA8AGAAAAAAAAQAAAKSBiQEAAHhsL3dv
cmtib29rLnhtbFVUBQAD0DjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABgAAAAAAAAAEADtQZcCAAB4bC93b3Jrc2hl
ZXRzL1VUBQAD6zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIANIwN1u3fFZsqwIAAIASAAAYABgAAAAAAAEAAACkgd8CAAB4bC93b3Jrc2hlZXRzL3No
ZWV0Mi54bWxVVAUAA+s40mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADHMDdbKjHstLMAAAD4AAAAGAAYAAAAAAABAAAApIHcBQAAeGwvd29ya3NoZWV0
cy9zaGVldDEueG1sVVQFAAPWONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DCgAAAAAAxjA3WwAAAAAAAAAAAAAAAAkAGAAAAAAAAAAQAO1B4QYAAHhsL19yZWxz
L1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIAMYwN1sKY9uUtgAAAK0BAAAaABgAAAAAAAEAAACkgSQHAAB4bC9fcmVscy93b3JrYm9vay54
bWwucmVsc1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABgAAAAAAAAAEADtQS4IAABfcmVscy9VVAUAA804
0mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADDMDdbDxvLDKoAAAAcAQAACwAYAAAAAAABAAAApIFuCAAAX3JlbHMvLnJlbHNVVAUAA8040mh1eAsAAQQA
AAAABAAAAABQSwUGAAAAAAoACgBTAwAAXQkAAAAA
`

func localeOptions() Options {
	opt := DefaultOptions()
	opt.MaxRows = 9
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	return opt
}

func TestLoadCSV(t *testing.T) {
	tmp := t.TempDir()
	csvPath := filepath.Join(tmp, "metrics.csv")
	if err := os.WriteFile(csvPath, []byte(strings.Join(csvRows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	opt := localeOptions()
	opt.Delimiter = ';'

	ds, err := LoadCSV(csvPath, opt)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	assertDataset(t, ds, "metrics.csv")
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeXLSXFixture(t)

	byName, err := LoadXLSX(path, localeOptions(), "Data", 0)
	if err != nil {
		t.Fatalf("LoadXLSX name: %v", err)
	}
	assertDataset(t, byName, "analysis_dataset.xlsx")

	byIndex, err := LoadXLSX(path, localeOptions(), "", 2)
	if err != nil {
		t.Fatalf("LoadXLSX index: %v", err)
	}
	assertDataset(t, byIndex, "analysis_dataset.xlsx")

	viaLoad, err := Load(path, localeOptions(), "data", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertDataset(t, viaLoad, "analysis_dataset.xlsx")
}

func TestLoadXLSXUnknownSheet(t *testing.T) {
	path := writeXLSXFixture(t)
	_, err := LoadXLSX(path, localeOptions(), "Missing", 0)
	if err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
	if !strings.Contains(err.Error(), "Available sheets: Ignore, Data") {
		t.Fatalf("error should list sheets, got %v", err)
	}
}

func TestLoadXLSXPlaceholderSheetHasNoNumericColumns(t *testing.T) {
	path := writeXLSXFixture(t)
	ds, err := LoadXLSX(path, localeOptions(), "", 1)
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if ds.Len() != 0 {
		t.Fatalf("columns = %d, want 0", ds.Len())
	}
	if ds.Rows != 0 {
		t.Fatalf("rows = %d, want 0", ds.Rows)
	}
}

func TestReadCSVMissingValuesBecomeNaN(t *testing.T) {
	in := "a,b,label\n1,2,x\n,4,y\n3,,z\n4,8,w\n"
	ds, err := ReadCSV(strings.NewReader(in), "inline", DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := ds.Names(); !equalStrings(got, []string{"a", "b"}) {
		t.Fatalf("names = %#v", got)
	}
	if !equalStrings(ds.Skipped, []string{"label"}) {
		t.Fatalf("skipped = %#v", ds.Skipped)
	}
	if ds.Rows != 4 {
		t.Fatalf("rows = %d, want 4", ds.Rows)
	}
	if !math.IsNaN(ds.Values(0)[1]) || !math.IsNaN(ds.Values(1)[2]) {
		t.Fatalf("missing cells should be NaN: %v %v", ds.Values(0), ds.Values(1))
	}
	if ds.Missing(0) != 1 || ds.Missing(1) != 1 {
		t.Fatalf("missing counts = %d/%d", ds.Missing(0), ds.Missing(1))
	}
}

func TestReadCSVEmpty(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(""), "empty.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Len() != 0 || ds.Name != "empty.csv" {
		t.Fatalf("unexpected dataset %#v", ds)
	}
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New("x", Column{Name: "a", Values: []float64{1, 2}}, Column{Name: "b", Values: []float64{1}})
	if err == nil {
		t.Fatalf("expected ragged column error")
	}
}

func TestReorder(t *testing.T) {
	ds, err := New("x",
		Column{Name: "a", Values: []float64{1, 2}},
		Column{Name: "b", Values: []float64{3, 4}},
		Column{Name: "c", Values: []float64{5, 6}},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	re, err := ds.Reorder([]int{2, 0, 1})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if !equalStrings(re.Names(), []string{"c", "a", "b"}) {
		t.Fatalf("names = %#v", re.Names())
	}
	if _, err := ds.Reorder([]int{0, 0, 1}); err == nil {
		t.Fatalf("expected duplicate index error")
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
		{"/xl/styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	cases := map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA1": 26, "ab7": 27}
	for ref, want := range cases {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"1.234,5", Options{}, 1234.5, true},
		{"1,234.5", Options{}, 1234.5, true},
		{"12%", Options{}, 12, true},
		{"0,5", Options{DecimalSeparator: ','}, 0.5, true},
		{"1 000", Options{DecimalSeparator: '.', ThousandsSeparator: ' '}, 1000, true},
		{"2.5e3", Options{}, 2500, true},
		{"1\u00A0234,5", Options{}, 1234.5, true},
		{"-0,25", Options{}, -0.25, true},
		{"1,5", Options{DecimalSeparator: '.', ThousandsSeparator: ','}, 15, true},
		{"n/a", Options{}, 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, c.opt)
		if ok != c.ok || (ok && !almostEqual(got, c.want, 1e-9)) {
			t.Errorf("parseNumeric(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSplitUnits(t *testing.T) {
	cases := []struct{ in, name, unit string }{
		{"Temp (°F)", "Temp", "°F"},
		{"Mass [mg/L]", "Mass", "mg/L"},
		{"nitrate_mg/L", "nitrate", "mg/L"},
		{"sugar Brix", "sugar", "Brix"},
		{"growth-%", "growth", "%"},
		{"(°C)", "(°C)", ""},
		{"Score", "Score", ""},
		{"mg/L", "mg/L", ""},
	}
	for _, c := range cases {
		name, unit := splitUnits(c.in)
		if name != c.name || unit != c.unit {
			t.Errorf("splitUnits(%q) = %q,%q want %q,%q", c.in, name, unit, c.name, c.unit)
		}
	}
}

func TestDelimiterFor(t *testing.T) {
	if delimiterFor("a/b.TSV") != '\t' || delimiterFor("a/b.csv") != ',' {
		t.Fatalf("unexpected delimiter choice")
	}
}

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	raw := strings.ReplaceAll(strings.TrimSpace(xlsxFixtureBase64), "\n", "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("decode xlsx fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "analysis_dataset.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write xlsx fixture: %v", err)
	}
	return path
}

func assertDataset(t *testing.T, ds *Dataset, expectName string) {
	t.Helper()
	if ds.Name != expectName {
		t.Fatalf("dataset name = %q, want %q", ds.Name, expectName)
	}
	if ds.Rows != 9 {
		t.Fatalf("rows = %d, want 9", ds.Rows)
	}
	if len(ds.Warnings) != 1 || ds.Warnings[0] != "processed only 9/10 rows due to MaxRows" {
		t.Fatalf("warnings = %#v", ds.Warnings)
	}
	if !equalStrings(ds.Names(), []string{"Concentration", "Temp", "Score", "LocaleNumber"}) {
		t.Fatalf("columns = %#v", ds.Names())
	}
	if !equalStrings(ds.Skipped, []string{"Group", "Category", "Note"}) {
		t.Fatalf("skipped = %#v", ds.Skipped)
	}
	if ds.Columns[0].Unit != "g/L" || ds.Columns[1].Unit != "°F" || ds.Columns[2].Unit != "" {
		t.Fatalf("units = %q %q %q", ds.Columns[0].Unit, ds.Columns[1].Unit, ds.Columns[2].Unit)
	}
	checkValues(t, "Concentration", ds.Values(0), processedConcentration)
	checkValues(t, "Temp", ds.Values(1), processedTemp)
	checkValues(t, "Score", ds.Values(2), processedScore)
	checkValues(t, "LocaleNumber", ds.Values(3), processedLocale)
}

func checkValues(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: len = %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-6) {
			t.Fatalf("%s[%d] = %f, want %f", name, i, got[i], want[i])
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
