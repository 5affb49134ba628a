package recurrent

import (
	"math"
	"math/rand/v2"
)

/*
LSTMCell is a single Long Short Term Memory cell. The four gates are packed
into the rows of WeightIH/WeightHH and the biases in the order input, forget,
cell, output.
*/
type LSTMCell struct {
	InputSize  int
	HiddenSize int
	WeightIH   *Mat // 4H x InputSize
	WeightHH   *Mat // 4H x H
	BiasIH     *Mat // 4H x 1
	BiasHH     *Mat // 4H x 1
}

/*
CellMemory is the hidden and cell state passed from one tick to the next.
*/
type CellMemory struct {
	Hidden *Mat
	Cell   *Mat
}

/*
NewLSTMCell registers the cell's tensors in ps under prefix and initializes
them from U(-1/sqrt(H), 1/sqrt(H)).
*/
func NewLSTMCell(ps *ParamSet, prefix string, inputSize int, hiddenSize int, src rand.Source) *LSTMCell {
	k := 1 / math.Sqrt(float64(hiddenSize))
	gates := 4 * hiddenSize
	return &LSTMCell{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		WeightIH:   ps.Add(prefix+".weight_ih", RandMat(gates, inputSize, -k, k, src)),
		WeightHH:   ps.Add(prefix+".weight_hh", RandMat(gates, hiddenSize, -k, k, src)),
		BiasIH:     ps.Add(prefix+".bias_ih", RandMat(gates, 1, -k, k, src)),
		BiasHH:     ps.Add(prefix+".bias_hh", RandMat(gates, 1, -k, k, src)),
	}
}

/*
ZeroMemory is the state before the first tick.
*/
func (c *LSTMCell) ZeroMemory() CellMemory {
	return CellMemory{
		Hidden: NewMat(c.HiddenSize, 1),
		Cell:   NewMat(c.HiddenSize, 1),
	}
}

/*
Forward does forward propagation for a single tick of the cell.

x is a column vector with the observation, prev the state from the previous
tick.
*/
func (c *LSTMCell) Forward(g *Graph, x *Mat, prev CellMemory) CellMemory {
	Assert(x.RowCount == c.InputSize && x.ColumnCount == 1, "LSTM input size mismatch")

	h := c.HiddenSize
	zx := g.Add(g.Mul(c.WeightIH, x), c.BiasIH)
	zh := g.Add(g.Mul(c.WeightHH, prev.Hidden), c.BiasHH)
	z := g.Add(zx, zh)

	inputGate := g.Sigmoid(g.Rows(z, 0, h))
	forgetGate := g.Sigmoid(g.Rows(z, h, 2*h))
	cellWrite := g.Tanh(g.Rows(z, 2*h, 3*h))
	outputGate := g.Sigmoid(g.Rows(z, 3*h, 4*h))

	// compute new cell activation
	retainCell := g.Eltmul(forgetGate, prev.Cell) // what do we keep from cell
	writeCell := g.Eltmul(inputGate, cellWrite)   // what do we write to cell
	cell := g.Add(retainCell, writeCell)

	// compute hidden state as gated, saturated cell activations
	hidden := g.Eltmul(outputGate, g.Tanh(cell))

	return CellMemory{Hidden: hidden, Cell: cell}
}
