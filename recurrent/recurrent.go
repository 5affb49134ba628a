package recurrent

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

/*
Assert ensures our code is not breaking down and halts the program.
*/
func Assert(assertion bool, msg string) {
	if !assertion {
		panic(msg)
	}
}

// softmax writes the normalized exponentials of src into dst. The max is
// subtracted first so long inputs cannot overflow.
func softmax(dst []float64, src []float64) {
	maxval := floats.Max(src)
	s := 0.0
	for i, x := range src {
		dst[i] = math.Exp(x - maxval)
		s += dst[i]
	}
	floats.Scale(1/s, dst)
}

/*
Softmax computes the softmax of a matrix outside of any graph.
*/
func Softmax(m *Mat) *Mat {
	out := NewMat(m.RowCount, m.ColumnCount) // probability volume
	softmax(out.W, m.W)
	return out
}
