package recurrent

import (
	"gonum.org/v1/gonum/blas/blas64"
)

/*
Mat holds a matrix in row-major order. W are the values, DW the gradients
accumulated by Graph.Backward.
*/
type Mat struct {
	RowCount    int
	ColumnCount int
	W           []float64
	DW          []float64
}

/*
NewMat instantiates a new zeroed matrix.
*/
func NewMat(n int, d int) *Mat {
	return &Mat{
		RowCount:    n,
		ColumnCount: d,
		W:           make([]float64, n*d),
		DW:          make([]float64, n*d),
	}
}

/*
NewVec instantiates a column vector holding a copy of values.
*/
func NewVec(values []float64) *Mat {
	m := NewMat(len(values), 1)
	copy(m.W, values)
	return m
}

/*
At returns the value at row i, column j.
*/
func (m *Mat) At(i, j int) float64 {
	return m.W[i*m.ColumnCount+j]
}

/*
Row returns row i of the values. The slice aliases m.W.
*/
func (m *Mat) Row(i int) []float64 {
	return m.W[i*m.ColumnCount : (i+1)*m.ColumnCount]
}

/*
Size is the number of scalars held by the matrix.
*/
func (m *Mat) Size() int {
	return m.RowCount * m.ColumnCount
}

/*
ZeroGrad resets the accumulated gradients.
*/
func (m *Mat) ZeroGrad() {
	for i := range m.DW {
		m.DW[i] = 0
	}
}

/*
Clone returns a deep copy, gradients included.
*/
func (m *Mat) Clone() *Mat {
	out := NewMat(m.RowCount, m.ColumnCount)
	copy(out.W, m.W)
	copy(out.DW, m.DW)
	return out
}

// values and grads expose the matrix to blas64 without copying.
func (m *Mat) values() blas64.General {
	return blas64.General{Rows: m.RowCount, Cols: m.ColumnCount, Stride: m.ColumnCount, Data: m.W}
}

func (m *Mat) grads() blas64.General {
	return blas64.General{Rows: m.RowCount, Cols: m.ColumnCount, Stride: m.ColumnCount, Data: m.DW}
}
