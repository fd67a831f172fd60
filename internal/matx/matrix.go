// Package matx implements the small set of dense linear-algebra
// primitives CPD (registration) and TPS (warp) need: matrix
// multiplication, elementwise arithmetic, row/column sum reductions,
// diag(v)*M, and a Gaussian-elimination solver with partial pivoting.
//
// It is a row-major, flat-slice-backed matrix type in the same vein as
// the teacher's hand-rolled Levenshtein matrix (distance.go): no
// generic tensor library, just the handful of operations this pipeline
// actually performs. The heavier ones (Mul, Solve) have their
// complexity spelled out, since callers here run them inside an EM
// loop.
package matx

import "fmt"

// Matrix is a dense, row-major matrix of float64.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New allocates a zero-valued rows x cols matrix.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matx: invalid dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewFromRows builds a Matrix from row-major literal data, validating
// that every row has the same length.
func NewFromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		return New(0, 0)
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			panic("matx: ragged input rows")
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matx: index (%d,%d) out of bounds for %dx%d matrix", i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}

func (m *Matrix) At(i, j int) float64     { return m.data[m.index(i, j)] }
func (m *Matrix) Set(i, j int, v float64) { m.data[m.index(i, j)] = v }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := New(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.At(i, j)
	}
	return out
}

// Mul returns m*other. Panics if inner dimensions disagree.
// Complexity: O(rows(m) * cols(m) * cols(other)).
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.cols != other.rows {
		panic(fmt.Sprintf("matx: cannot multiply %dx%d by %dx%d", m.rows, m.cols, other.rows, other.cols))
	}
	out := New(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			v := m.At(i, k)
			if v == 0 {
				continue
			}
			for j := 0; j < other.cols; j++ {
				out.data[i*out.cols+j] += v * other.At(k, j)
			}
		}
	}
	return out
}

// Add returns the elementwise sum of m and other.
func (m *Matrix) Add(other *Matrix) *Matrix {
	m.requireSameShape(other)
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + other.data[i]
	}
	return out
}

// Sub returns the elementwise difference m - other.
func (m *Matrix) Sub(other *Matrix) *Matrix {
	m.requireSameShape(other)
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - other.data[i]
	}
	return out
}

// Scale returns m scaled by a scalar.
func (m *Matrix) Scale(s float64) *Matrix {
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] * s
	}
	return out
}

// Transpose returns the transpose of m.
func (m *Matrix) Transpose() *Matrix {
	out := New(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// RowSums returns, for each row, the sum across columns (an Mx1 vector
// flattened to []float64 of length rows).
func (m *Matrix) RowSums() []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var s float64
		for j := 0; j < m.cols; j++ {
			s += m.At(i, j)
		}
		out[i] = s
	}
	return out
}

// ColSums returns, for each column, the sum across rows.
func (m *Matrix) ColSums() []float64 {
	out := make([]float64, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out[j] += m.At(i, j)
		}
	}
	return out
}

// DiagMul returns diag(v) * m, i.e. row i of m scaled by v[i].
func DiagMul(v []float64, m *Matrix) *Matrix {
	if len(v) != m.rows {
		panic(fmt.Sprintf("matx: diag length %d does not match %d rows", len(v), m.rows))
	}
	out := New(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.Set(i, j, v[i]*m.At(i, j))
		}
	}
	return out
}

func (m *Matrix) requireSameShape(other *Matrix) {
	if m.rows != other.rows || m.cols != other.cols {
		panic(fmt.Sprintf("matx: shape mismatch %dx%d vs %dx%d", m.rows, m.cols, other.rows, other.cols))
	}
}

// Sum returns the sum of all elements.
func (m *Matrix) Sum() float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}
	return s
}
