package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/corrloom/internal/correlation"
)

// Markdown renders a compact report suitable for standalone docs.
func Markdown(res *correlation.Result) string {
	var b strings.Builder
	b.WriteString("[CORRELATION SUMMARY]\n")
	if res.Dataset != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", res.Dataset))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(res.AxisRange)))
	if len(res.Methods) > 0 {
		b.WriteString(fmt.Sprintf("Methods: %s\n", strings.Join(res.Methods, ", ")))
	}

	for _, m := range res.Methods {
		rows := res.Data[m]
		b.WriteString(fmt.Sprintf("\n[%s PAIRS]\n", strings.ToUpper(m)))
		if len(rows) == 0 {
			b.WriteString("(no pairs)\n")
			continue
		}
		b.WriteString("| x | y | r |\n|---|---|---|\n")
		for _, r := range rows {
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", safeName(r.X), safeName(r.Y), fmtCoef(r.Correlation)))
		}
	}

	if len(res.TableData) > 0 {
		b.WriteString("\n[STATS]\n")
		cols := statColumns(res.TableData)
		b.WriteString("| stat | " + strings.Join(cols, " | ") + " |\n")
		b.WriteString("|---|" + strings.Repeat("---|", len(cols)) + "\n")
		for _, label := range correlation.StatLabels() {
			row := res.TableData[label]
			vals := make([]string, len(cols))
			for i, c := range cols {
				vals[i] = fmtCoef(row[c])
			}
			b.WriteString(fmt.Sprintf("| %s | %s |\n", label, strings.Join(vals, " | ")))
		}
	}

	if len(res.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, m := range res.Methods {
			lines, ok := res.Insights[m]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s\n", m))
			for _, l := range lines {
				b.WriteString(fmt.Sprintf("  • %s\n", l))
			}
		}
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range res.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

// statColumns orders the stats table columns canonically.
func statColumns(table map[string]map[string]float64) []string {
	present := map[string]bool{}
	for _, row := range table {
		for m := range row {
			present[m] = true
		}
	}
	var cols []string
	for _, m := range correlation.AllMethods() {
		if present[m.String()] {
			cols = append(cols, m.String())
		}
	}
	return cols
}

func fmtCoef(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func safeName(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
