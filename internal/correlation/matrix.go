package correlation

import "fmt"

// Matrix is a dense square correlation matrix. The builder produces symmetric
// matrices with a unit diagonal; analyzers only ever read it.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix returns an n×n matrix with a unit diagonal and zero elsewhere.
func NewMatrix(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	m := &Matrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows copies a square row-major table into a Matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	m := &Matrix{n: n, data: make([]float64, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d", i, len(row), n)
		}
		copy(m.data[i*n:], row)
	}
	return m, nil
}

// N returns the matrix dimension.
func (m *Matrix) N() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

func (m *Matrix) set(i, j int, v float64) { m.data[i*m.n+j] = v }

// setPair writes v at (i, j) and (j, i).
func (m *Matrix) setPair(i, j int, v float64) {
	m.set(i, j, v)
	m.set(j, i, v)
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return NewMatrix(0)
	}
	out := &Matrix{n: m.n, data: make([]float64, len(m.data))}
	copy(out.data, m.data)
	return out
}

// Rows returns a row-major copy of the entries.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.N())
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
	}
	return out
}

// PairResults flattens the upper triangle in Pairs order.
func (m *Matrix) PairResults() []PairResult {
	pairs := Pairs(m.N())
	out := make([]PairResult, len(pairs))
	for k, p := range pairs {
		out[k] = PairResult{I: p.I, J: p.J, Value: m.At(p.I, p.J)}
	}
	return out
}
