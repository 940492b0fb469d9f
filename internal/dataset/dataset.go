package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Column is a named numeric column. Missing values are stored as NaN.
type Column struct {
	Name   string
	Unit   string
	Values []float64
}

// Dataset is an ordered set of equally long numeric columns. Column order is
// significant: index i always refers to Columns[i].
type Dataset struct {
	Name    string
	Rows    int
	Columns []Column
	// Skipped lists source columns that were not inferred as numeric.
	Skipped  []string
	Warnings []string
}

// New builds a dataset from columns, rejecting ragged input.
func New(name string, cols ...Column) (*Dataset, error) {
	d := &Dataset{Name: name, Columns: cols}
	for i, c := range cols {
		if i == 0 {
			d.Rows = len(c.Values)
			continue
		}
		if len(c.Values) != d.Rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Values), d.Rows)
		}
	}
	return d, nil
}

// Len returns the number of columns.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// Names returns the column names in dataset order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Values returns the raw values of column i.
func (d *Dataset) Values(i int) []float64 { return d.Columns[i].Values }

// Missing counts NaN entries in column i.
func (d *Dataset) Missing(i int) int {
	var n int
	for _, v := range d.Columns[i].Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Reorder returns a dataset whose columns follow the given index permutation.
func (d *Dataset) Reorder(perm []int) (*Dataset, error) {
	if len(perm) != len(d.Columns) {
		return nil, errors.New("permutation length does not match column count")
	}
	seen := make([]bool, len(perm))
	cols := make([]Column, len(perm))
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, fmt.Errorf("invalid permutation index %d", p)
		}
		seen[p] = true
		cols[i] = d.Columns[p]
	}
	return &Dataset{Name: d.Name, Rows: d.Rows, Columns: cols, Skipped: d.Skipped, Warnings: d.Warnings}, nil
}

// Load picks a loader by file extension.
func Load(path string, opt Options, sheetName string, sheetIndex int) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt, sheetName, sheetIndex)
	}
	return LoadCSV(path, opt)
}
