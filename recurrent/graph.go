package recurrent

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

type backprop func()

/*
Graph is the neural network graph. Every op appends a backprop closure when
NeedsBackprop is set, and Backward replays them newest first.

A Graph belongs to a single forward/backward pass and is not safe for
concurrent use.
*/
type Graph struct {
	Device        Device
	NeedsBackprop bool
	Backprop      []backprop // holds backprop functions
}

/*
NewGraph instantiates a new Graph running on device.
*/
func NewGraph(device Device, needsBackprop bool) *Graph {
	return &Graph{
		Device:        device,
		NeedsBackprop: needsBackprop,
		Backprop:      make([]backprop, 0),
	}
}

/*
AddBackprop adds the backpropagation function `f` to the end of the Backprop list.
*/
func (g *Graph) AddBackprop(f func()) {
	g.Backprop = append(g.Backprop, f)
}

/*
Backward runs all backpropagation functions in reverse order, then forgets them.
*/
func (g *Graph) Backward() {
	for i := len(g.Backprop) - 1; i >= 0; i-- {
		g.Backprop[i]()
	}
	g.Backprop = nil
}

/*
Rows returns rows [from, to) of m as a new matrix.
*/
func (g *Graph) Rows(m *Mat, from int, to int) *Mat {
	Assert(from >= 0 && from < to && to <= m.RowCount, "Rows invalid row range")

	d := m.ColumnCount
	out := NewMat(to-from, d)
	copy(out.W, m.W[from*d:to*d])

	if g.NeedsBackprop {
		backpropRows := func() {
			floats.Add(m.DW[from*d:to*d], out.DW)
		}
		g.AddBackprop(backpropRows)
	}
	return out
}

/*
Concat stacks the rows of m1 on top of the rows of m2.
*/
func (g *Graph) Concat(m1 *Mat, m2 *Mat) *Mat {
	Assert(m1.ColumnCount == m2.ColumnCount, "Concat column counts differ")

	out := NewMat(m1.RowCount+m2.RowCount, m1.ColumnCount)
	n := len(m1.W)
	copy(out.W, m1.W)
	copy(out.W[n:], m2.W)

	if g.NeedsBackprop {
		backpropConcat := func() {
			floats.Add(m1.DW, out.DW[:n])
			floats.Add(m2.DW, out.DW[n:])
		}
		g.AddBackprop(backpropConcat)
	}
	return out
}

/*
Stack turns each d x 1 column vector of vs into one row of a len(vs) x d matrix.
*/
func (g *Graph) Stack(vs []*Mat) *Mat {
	Assert(len(vs) > 0, "Stack needs at least one vector")

	d := vs[0].RowCount
	out := NewMat(len(vs), d)
	for i, v := range vs {
		Assert(v.ColumnCount == 1 && v.RowCount == d, "Stack needs equal column vectors")
		copy(out.W[i*d:(i+1)*d], v.W)
	}

	if g.NeedsBackprop {
		backpropStack := func() {
			for i, v := range vs {
				floats.Add(v.DW, out.DW[i*d:(i+1)*d])
			}
		}
		g.AddBackprop(backpropStack)
	}
	return out
}

/*
Transpose swaps rows and columns.
*/
func (g *Graph) Transpose(m *Mat) *Mat {
	out := NewMat(m.ColumnCount, m.RowCount)
	for i := 0; i < m.RowCount; i++ {
		for j := 0; j < m.ColumnCount; j++ {
			out.W[j*m.RowCount+i] = m.W[i*m.ColumnCount+j]
		}
	}

	if g.NeedsBackprop {
		backpropTranspose := func() {
			for i := 0; i < m.RowCount; i++ {
				for j := 0; j < m.ColumnCount; j++ {
					m.DW[i*m.ColumnCount+j] += out.DW[j*m.RowCount+i]
				}
			}
		}
		g.AddBackprop(backpropTranspose)
	}
	return out
}

/*
Tanh does tanh nonlinearity
*/
func (g *Graph) Tanh(m *Mat) *Mat {
	out := NewMat(m.RowCount, m.ColumnCount)
	n := len(m.W)
	for ix := 0; ix < n; ix++ {
		out.W[ix] = math.Tanh(m.W[ix])
	}

	if g.NeedsBackprop {
		backpropTanh := func() {
			for i := 0; i < n; i++ {
				// grad for z = tanh(x) is (1 - z^2)
				mwi := out.W[i]
				m.DW[i] += (1.0 - mwi*mwi) * out.DW[i]
			}
		}
		g.AddBackprop(backpropTanh)
	}
	return out
}

/*
Sigmoid does sigmoid nonlinearity.
*/
func (g *Graph) Sigmoid(m *Mat) *Mat {
	out := NewMat(m.RowCount, m.ColumnCount)
	n := len(m.W)
	for ix := 0; ix < n; ix++ {
		out.W[ix] = 1.0 / (1 + math.Exp(-m.W[ix]))
	}

	if g.NeedsBackprop {
		backpropSigmoid := func() {
			for i := 0; i < n; i++ {
				// grad for z = sigmoid(x) is z(1 - z)
				mwi := out.W[i]
				m.DW[i] += mwi * (1.0 - mwi) * out.DW[i]
			}
		}
		g.AddBackprop(backpropSigmoid)
	}
	return out
}

/*
Mul multiplies two matrices
*/
func (g *Graph) Mul(m1 *Mat, m2 *Mat) *Mat {
	Assert(m1.ColumnCount == m2.RowCount, "matmul dimensions misaligned")

	out := NewMat(m1.RowCount, m2.ColumnCount)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, m1.values(), m2.values(), 0, out.values())

	if g.NeedsBackprop {
		backpropMul := func() {
			// dm1 += dout * m2^T, dm2 += m1^T * dout
			blas64.Gemm(blas.NoTrans, blas.Trans, 1, out.grads(), m2.values(), 1, m1.grads())
			blas64.Gemm(blas.Trans, blas.NoTrans, 1, m1.values(), out.grads(), 1, m2.grads())
		}
		g.AddBackprop(backpropMul)
	}
	return out
}

/*
Add adds two matrices
*/
func (g *Graph) Add(m1 *Mat, m2 *Mat) *Mat {
	Assert(len(m1.W) == len(m2.W), "Cannot add arrays")

	out := NewMat(m1.RowCount, m1.ColumnCount)
	floats.AddTo(out.W, m1.W, m2.W)

	if g.NeedsBackprop {
		backpropAdd := func() {
			floats.Add(m1.DW, out.DW)
			floats.Add(m2.DW, out.DW)
		}
		g.AddBackprop(backpropAdd)
	}
	return out
}

/*
AddRows adds the d x 1 column vector v to every row of the n x d matrix m.
*/
func (g *Graph) AddRows(m *Mat, v *Mat) *Mat {
	Assert(v.ColumnCount == 1 && v.RowCount == m.ColumnCount, "AddRows vector does not match row width")

	d := m.ColumnCount
	out := NewMat(m.RowCount, d)
	for i := 0; i < m.RowCount; i++ {
		floats.AddTo(out.W[i*d:(i+1)*d], m.W[i*d:(i+1)*d], v.W)
	}

	if g.NeedsBackprop {
		backpropAddRows := func() {
			floats.Add(m.DW, out.DW)
			for i := 0; i < m.RowCount; i++ {
				floats.Add(v.DW, out.DW[i*d:(i+1)*d])
			}
		}
		g.AddBackprop(backpropAddRows)
	}
	return out
}

/*
Eltmul multiplies two matrices element by element.
*/
func (g *Graph) Eltmul(m1 *Mat, m2 *Mat) *Mat {
	Assert(len(m1.W) == len(m2.W), "Cannot Eltmul")

	out := NewMat(m1.RowCount, m1.ColumnCount)
	floats.MulTo(out.W, m1.W, m2.W)

	if g.NeedsBackprop {
		backpropEltmul := func() {
			for i := range m1.W {
				m1.DW[i] += m2.W[i] * out.DW[i]
				m2.DW[i] += m1.W[i] * out.DW[i]
			}
		}
		g.AddBackprop(backpropEltmul)
	}
	return out
}

/*
Softmax normalizes all entries of m into a probability distribution.
*/
func (g *Graph) Softmax(m *Mat) *Mat {
	Assert(len(m.W) > 0, "Softmax of empty matrix")

	out := NewMat(m.RowCount, m.ColumnCount)
	softmax(out.W, m.W)

	if g.NeedsBackprop {
		backpropSoftmax := func() {
			// dx_i = y_i * (dy_i - sum_j y_j dy_j)
			s := floats.Dot(out.W, out.DW)
			for i, y := range out.W {
				m.DW[i] += y * (out.DW[i] - s)
			}
		}
		g.AddBackprop(backpropSoftmax)
	}
	return out
}

/*
LogSoftmaxRows applies log-softmax to each row of m independently.
*/
func (g *Graph) LogSoftmaxRows(m *Mat) *Mat {
	Assert(m.ColumnCount > 0, "LogSoftmaxRows of empty rows")

	d := m.ColumnCount
	out := NewMat(m.RowCount, d)
	for i := 0; i < m.RowCount; i++ {
		row := m.W[i*d : (i+1)*d]
		lse := floats.LogSumExp(row)
		for j, x := range row {
			out.W[i*d+j] = x - lse
		}
	}

	if g.NeedsBackprop {
		backpropLogSoftmax := func() {
			// dx_j = dy_j - softmax_j * sum_k dy_k
			for i := 0; i < m.RowCount; i++ {
				dy := out.DW[i*d : (i+1)*d]
				s := floats.Sum(dy)
				for j := 0; j < d; j++ {
					m.DW[i*d+j] += dy[j] - math.Exp(out.W[i*d+j])*s
				}
			}
		}
		g.AddBackprop(backpropLogSoftmax)
	}
	return out
}
