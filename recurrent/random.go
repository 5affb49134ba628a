package recurrent

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

/*
NewSource returns a deterministic random source for parameter
initialization. The same seed always yields the same parameters.
*/
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

/*
RandMat fills a new n x d Mat with values drawn uniformly from [lo, hi).
*/
func RandMat(n int, d int, lo float64, hi float64, src rand.Source) *Mat {
	m := NewMat(n, d)
	Uniform(m, lo, hi, src)
	return m
}

/*
Uniform overwrites the values of m with draws from U[lo, hi).
*/
func Uniform(m *Mat, lo float64, hi float64, src rand.Source) {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for i := range m.W {
		m.W[i] = dist.Rand()
	}
}

/*
XavierUniform overwrites m using the Glorot variance-scaling scheme, with
fan-in being the column count and fan-out the row count.
*/
func XavierUniform(m *Mat, src rand.Source) {
	bound := math.Sqrt(6.0 / float64(m.RowCount+m.ColumnCount))
	Uniform(m, -bound, bound, src)
}
