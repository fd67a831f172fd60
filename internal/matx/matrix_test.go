package matx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulIdentity(t *testing.T) {
	m := NewFromRows([][]float64{{1, 2}, {3, 4}})
	id := Identity(2)
	assert.Equal(t, m.data, m.Mul(id).data)
}

func TestMulDimensionMismatchPanics(t *testing.T) {
	a := New(2, 3)
	b := New(2, 2)
	assert.Panics(t, func() { a.Mul(b) })
}

func TestAddSub(t *testing.T) {
	a := NewFromRows([][]float64{{1, 2}, {3, 4}})
	b := NewFromRows([][]float64{{4, 3}, {2, 1}})
	sum := a.Add(b)
	assert.Equal(t, []float64{5, 5, 5, 5}, sum.data)

	diff := a.Sub(b)
	assert.Equal(t, []float64{-3, -1, 1, 3}, diff.data)
}

func TestTranspose(t *testing.T) {
	m := NewFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	tr := m.Transpose()
	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Cols())
	assert.Equal(t, 2.0, tr.At(1, 0))
	assert.Equal(t, 6.0, tr.At(2, 1))
}

func TestRowColSums(t *testing.T) {
	m := NewFromRows([][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, []float64{3, 7}, m.RowSums())
	assert.Equal(t, []float64{4, 6}, m.ColSums())
}

func TestDiagMul(t *testing.T) {
	m := NewFromRows([][]float64{{1, 1}, {1, 1}})
	out := DiagMul([]float64{2, 3}, m)
	assert.Equal(t, []float64{2, 2, 3, 3}, out.data)
}

func TestNewFromRowsRaggedPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewFromRows([][]float64{{1, 2}, {1}})
	})
}

func TestSolveSimpleSystem(t *testing.T) {
	// x + y = 3, 2x - y = 0  =>  x=1, y=2
	a := NewFromRows([][]float64{{1, 1}, {2, -1}})
	b := NewFromRows([][]float64{{3}, {0}})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x.At(0, 0), 1e-9)
	assert.InDelta(t, 2.0, x.At(1, 0), 1e-9)
}

func TestSolveMultipleRHSColumns(t *testing.T) {
	a := NewFromRows([][]float64{{2, 0}, {0, 2}})
	b := NewFromRows([][]float64{{4, 6}, {8, 10}})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x.At(0, 0), 1e-9)
	assert.InDelta(t, 3.0, x.At(0, 1), 1e-9)
	assert.InDelta(t, 4.0, x.At(1, 0), 1e-9)
	assert.InDelta(t, 5.0, x.At(1, 1), 1e-9)
}

func TestSolveRequiresPivoting(t *testing.T) {
	// Zero on the diagonal forces a row swap to find a usable pivot.
	a := NewFromRows([][]float64{{0, 1}, {1, 1}})
	b := NewFromRows([][]float64{{2}, {3}})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x.At(0, 0), 1e-9)
	assert.InDelta(t, 2.0, x.At(1, 0), 1e-9)
}

func TestSolveSingularReturnsError(t *testing.T) {
	a := NewFromRows([][]float64{{1, 2}, {2, 4}})
	b := NewFromRows([][]float64{{1}, {2}})
	_, err := Solve(a, b)
	require.Error(t, err)
	var singular *ErrSingular
	require.ErrorAs(t, err, &singular)
}

func TestSolveNonSquareReturnsError(t *testing.T) {
	a := New(2, 3)
	b := New(2, 1)
	_, err := Solve(a, b)
	require.Error(t, err)
}
