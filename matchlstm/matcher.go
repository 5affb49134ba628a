package matchlstm

import "github.com/ruffrey/match-lstm-go/recurrent"

// Matcher is the attention-matching recurrence. For every hypothesis position
// it attends over all premise positions, conditioned on the previous match
// state, and feeds [context; hypothesis state] to its own LSTM cell.
type Matcher struct {
	attend *recurrent.Mat // w_e, H x 1
	projS  *recurrent.Linear
	projT  *recurrent.Linear
	projM  *recurrent.Linear
	cell   *recurrent.LSTMCell
}

// Match returns the final match hidden vector and, per hypothesis step, the
// attention weights over the premise. Both premise and hypothesis must be
// non-empty.
//
//	e_kj = w_e . tanh(W_s h_s[j] + W_t h_t[k] + W_m h_m[k-1])
//	a_k  = sum_j softmax(e_k)_j h_s[j]
//	h_m[k] = LSTM([a_k; h_t[k]], h_m[k-1])
func (m *Matcher) Match(g *recurrent.Graph, premise []*recurrent.Mat, hypothesis []*recurrent.Mat) (*recurrent.Mat, [][]float64) {
	recurrent.Assert(len(premise) > 0 && len(hypothesis) > 0, "Match needs non-empty sequences")

	// rows of P are premise states; W_s h_s[j] does not depend on k
	P := g.Stack(premise)
	Pt := g.Transpose(P)
	S := g.Mul(P, g.Transpose(m.projS.Weight))

	alignments := make([][]float64, len(hypothesis))
	mem := m.cell.ZeroMemory()
	for k, ht := range hypothesis {
		query := g.Add(m.projT.Forward(g, ht), m.projM.Forward(g, mem.Hidden))
		scores := g.Mul(g.Tanh(g.AddRows(S, query)), m.attend)
		alpha := g.Softmax(scores)
		context := g.Mul(Pt, alpha)

		mem = m.cell.Forward(g, g.Concat(context, ht), mem)
		alignments[k] = append([]float64(nil), alpha.W...)
	}
	return mem.Hidden, alignments
}
