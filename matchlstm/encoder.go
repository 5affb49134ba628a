package matchlstm

import "github.com/ruffrey/match-lstm-go/recurrent"

// Encoder runs one LSTM cell over a sequence, left to right, from a zero
// state.
type Encoder struct {
	cell *recurrent.LSTMCell
}

// Encode returns the hidden vector of every position. Position i only
// depends on positions 0..i.
func (e *Encoder) Encode(g *recurrent.Graph, xs []*recurrent.Mat) []*recurrent.Mat {
	hidden := make([]*recurrent.Mat, len(xs))
	mem := e.cell.ZeroMemory()
	for i, x := range xs {
		mem = e.cell.Forward(g, x, mem)
		hidden[i] = mem.Hidden
	}
	return hidden
}
