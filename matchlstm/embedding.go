package matchlstm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ruffrey/match-lstm-go/recurrent"
)

// PaddingID is the token id reserved for padding. Its vector is all zeros.
const PaddingID = 0

// Embedding is the frozen word-vector table. It is kept apart from the
// trainable ParamSet and has no gradient storage, so no solver can reach it.
type Embedding struct {
	table *mat.Dense
}

// NewEmbedding copies vectors verbatim into a vocab x dim table and zeroes
// the padding row.
func NewEmbedding(vectors [][]float64, dim int) (*Embedding, error) {
	if dim <= 0 {
		return nil, validationError("embedding dimension must be > 0 (got %d)", dim)
	}
	if len(vectors) == 0 {
		return nil, validationError("word vectors are empty; row %d is reserved for padding", PaddingID)
	}
	table := mat.NewDense(len(vectors), dim, nil)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, validationError("word vector %d has %d dimensions, expected %d", i, len(v), dim)
		}
		table.SetRow(i, v)
	}
	table.SetRow(PaddingID, make([]float64, dim))
	return &Embedding{table: table}, nil
}

// VocabSize is the number of rows in the table.
func (e *Embedding) VocabSize() int {
	r, _ := e.table.Dims()
	return r
}

// Dim is the vector width.
func (e *Embedding) Dim() int {
	_, c := e.table.Dims()
	return c
}

// Vector returns a copy of the row for id.
func (e *Embedding) Vector(id int) []float64 {
	return mat.Row(nil, id, e.table)
}

// Lookup returns one dim x 1 column per id. The columns are leaves of the
// tape: gradients may collect in them but never flow back to the table.
func (e *Embedding) Lookup(ids []int) []*recurrent.Mat {
	out := make([]*recurrent.Mat, len(ids))
	for i, id := range ids {
		out[i] = recurrent.NewVec(e.table.RawRowView(id))
	}
	return out
}
