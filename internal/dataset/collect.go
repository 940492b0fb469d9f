package dataset

import (
	"fmt"
	"math"
	"strings"
)

// columnAcc tracks one source column while rows stream in. Every processed row
// appends exactly one value so columns stay aligned for pairwise deletion.
type columnAcc struct {
	name   string
	unit   string
	vals   []float64
	numCnt int
	dtCnt  int
	txtCnt int
}

// collector is shared by the CSV and XLSX loaders.
type collector struct {
	opt       Options
	cols      []*columnAcc
	rows      int
	processed int
	maxRows   int
}

func newCollector(header []string, opt Options) *collector {
	c := &collector{opt: opt, cols: make([]*columnAcc, len(header)), maxRows: opt.MaxRows}
	if c.maxRows <= 0 {
		c.maxRows = math.MaxInt
	}
	for i, h := range header {
		clean, unit := splitUnits(strings.TrimSpace(h))
		c.cols[i] = &columnAcc{name: clean, unit: unit}
	}
	return c
}

func (c *collector) add(rec []string) {
	c.rows++
	if c.processed >= c.maxRows {
		return
	}
	c.processed++
	for j, col := range c.cols {
		v := ""
		if j < len(rec) {
			v = strings.TrimSpace(rec[j])
		}
		if v == "" {
			col.vals = append(col.vals, math.NaN())
			continue
		}
		if col.unit == "" && strings.Contains(v, "%") {
			col.unit = "%"
		}
		if x, ok := parseNumeric(v, c.opt); ok {
			col.numCnt++
			col.vals = append(col.vals, x)
			continue
		}
		col.vals = append(col.vals, math.NaN())
		if looksLikeTime(v) {
			col.dtCnt++
			continue
		}
		col.txtCnt++
	}
}

// dataset keeps the columns whose predominant parsed type is numeric.
func (c *collector) dataset(name string) *Dataset {
	d := &Dataset{Name: name, Rows: c.processed}
	for _, col := range c.cols {
		if col.numCnt > 0 && col.numCnt >= col.dtCnt && col.numCnt >= col.txtCnt {
			d.Columns = append(d.Columns, Column{Name: col.name, Unit: col.unit, Values: col.vals})
			continue
		}
		d.Skipped = append(d.Skipped, col.name)
	}
	if c.processed < c.rows {
		d.Warnings = append(d.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", c.processed, c.rows))
	}
	return d
}
