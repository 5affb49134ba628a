package recurrent

import (
	"math"
	"testing"
)

// lossWeights gives every output entry a distinct weight so the scalar
// loss sum_i r_i*out_i exercises each gradient path.
func lossWeights(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = 0.3 * float64(i%5+1)
		if i%2 == 1 {
			r[i] = -r[i]
		}
	}
	return r
}

func weightedSum(out *Mat) float64 {
	r := lossWeights(len(out.W))
	s := 0.0
	for i, w := range out.W {
		s += r[i] * w
	}
	return s
}

// checkGrad compares the tape gradients of every input against central
// finite differences.
func checkGrad(t *testing.T, inputs []*Mat, f func(g *Graph) *Mat) {
	t.Helper()
	for _, m := range inputs {
		m.ZeroGrad()
	}
	g := NewGraph(CPU, true)
	out := f(g)
	copy(out.DW, lossWeights(len(out.DW)))
	g.Backward()

	const eps = 1e-6
	for n, m := range inputs {
		for i := range m.W {
			orig := m.W[i]
			m.W[i] = orig + eps
			lp := weightedSum(f(NewGraph(CPU, false)))
			m.W[i] = orig - eps
			lm := weightedSum(f(NewGraph(CPU, false)))
			m.W[i] = orig

			num := (lp - lm) / (2 * eps)
			ana := m.DW[i]
			if math.Abs(num-ana) > 1e-5*math.Max(1, math.Abs(num)+math.Abs(ana)) {
				t.Fatalf("input %d index %d: numeric %.8g analytic %.8g", n, i, num, ana)
			}
		}
	}
}

func TestGraphGradients(t *testing.T) {
	src := NewSource(11)
	a := RandMat(3, 4, -1, 1, src)
	b := RandMat(4, 2, -1, 1, src)
	c := RandMat(3, 4, -1, 1, src)
	v := RandMat(4, 1, -1, 1, src)
	u := RandMat(2, 1, -1, 1, src)
	s := RandMat(5, 1, -3, 3, src)

	cases := []struct {
		name   string
		inputs []*Mat
		f      func(g *Graph) *Mat
	}{
		{"Mul", []*Mat{a, b}, func(g *Graph) *Mat { return g.Mul(a, b) }},
		{"Add", []*Mat{a, c}, func(g *Graph) *Mat { return g.Add(a, c) }},
		{"AddRows", []*Mat{a, v}, func(g *Graph) *Mat { return g.AddRows(a, v) }},
		{"Eltmul", []*Mat{a, c}, func(g *Graph) *Mat { return g.Eltmul(a, c) }},
		{"Tanh", []*Mat{a}, func(g *Graph) *Mat { return g.Tanh(a) }},
		{"Sigmoid", []*Mat{a}, func(g *Graph) *Mat { return g.Sigmoid(a) }},
		{"Rows", []*Mat{a}, func(g *Graph) *Mat { return g.Rows(a, 1, 3) }},
		{"Concat", []*Mat{v, u}, func(g *Graph) *Mat { return g.Concat(v, u) }},
		{"Stack", []*Mat{v, s}, func(g *Graph) *Mat {
			return g.Stack([]*Mat{v, g.Rows(s, 0, 4)})
		}},
		{"Transpose", []*Mat{a}, func(g *Graph) *Mat { return g.Transpose(a) }},
		{"Softmax", []*Mat{s}, func(g *Graph) *Mat { return g.Softmax(s) }},
		{"LogSoftmaxRows", []*Mat{a}, func(g *Graph) *Mat { return g.LogSoftmaxRows(a) }},
		{"attention chain", []*Mat{a, v}, func(g *Graph) *Mat {
			scores := g.Mul(g.Tanh(g.AddRows(a, v)), v)
			alpha := g.Softmax(scores)
			return g.Mul(g.Transpose(a), alpha)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checkGrad(t, tc.inputs, tc.f)
		})
	}
}

func TestGraphBackwardClearsTape(t *testing.T) {
	a := NewVec([]float64{1, 2})
	g := NewGraph(CPU, true)
	out := g.Tanh(a)
	out.DW[0] = 1
	g.Backward()
	if len(g.Backprop) != 0 {
		t.Fatalf("expected empty tape, got %d closures", len(g.Backprop))
	}
}

func TestGraphWithoutBackprop(t *testing.T) {
	a := NewVec([]float64{1, 2})
	g := NewGraph(CPU, false)
	g.Mul(g.Transpose(a), a)
	if len(g.Backprop) != 0 {
		t.Fatalf("inference graph recorded %d closures", len(g.Backprop))
	}
}

func TestSoftmax(t *testing.T) {
	t.Run("sums to one and is non-negative", func(t *testing.T) {
		g := NewGraph(CPU, false)
		p := g.Softmax(NewVec([]float64{-2, 0.5, 3, 1}))
		sum := 0.0
		for _, x := range p.W {
			if x < 0 {
				t.Fatalf("negative probability %v", x)
			}
			sum += x
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("sum=%v", sum)
		}
	})
	t.Run("large scores do not overflow", func(t *testing.T) {
		p := Softmax(NewVec([]float64{1000, 1001, 999}))
		for _, x := range p.W {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Fatalf("unstable softmax: %v", p.W)
			}
		}
	})
	t.Run("log-softmax rows exponentiate to one", func(t *testing.T) {
		g := NewGraph(CPU, false)
		m := NewMat(2, 3)
		copy(m.W, []float64{1, 2, 3, -500, 700, 0})
		out := g.LogSoftmaxRows(m)
		for i := 0; i < 2; i++ {
			sum := 0.0
			for _, x := range out.Row(i) {
				sum += math.Exp(x)
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Fatalf("row %d sums to %v", i, sum)
			}
		}
	})
}
