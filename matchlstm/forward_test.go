package matchlstm

import (
	"math"
	"testing"
)

func TestAlignments(t *testing.T) {
	m := newTestModel(t)
	premise := Sequences{
		Tokens:  [][]int{{1, 2, 3, 0}, {4, 3, 2, 1}},
		Lengths: []int{3, 4},
	}
	hypothesis := Sequences{
		Tokens:  [][]int{{2, 4}, {1, 0}},
		Lengths: []int{2, 1},
	}
	pred, err := m.Forward(m.NewGraph(false), premise, hypothesis)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if pred.LogProbs.RowCount != 2 {
		t.Fatalf("expected one row per example, got %d", pred.LogProbs.RowCount)
	}
	for i, example := range pred.Alignments {
		if len(example) != hypothesis.Lengths[i] {
			t.Fatalf("example %d: %d steps, want %d", i, len(example), hypothesis.Lengths[i])
		}
		for k, alpha := range example {
			if len(alpha) != premise.Lengths[i] {
				t.Fatalf("example %d step %d attends over %d positions, want %d", i, k, len(alpha), premise.Lengths[i])
			}
			sum := 0.0
			for _, a := range alpha {
				if a < 0 {
					t.Fatalf("negative attention weight %v", a)
				}
				sum += a
			}
			if math.Abs(sum-1) > 1e-5 {
				t.Fatalf("example %d step %d attention sums to %v", i, k, sum)
			}
		}
		rowSum := 0.0
		for _, lp := range pred.LogProbs.Row(i) {
			rowSum += math.Exp(lp)
		}
		if math.Abs(rowSum-1) > 1e-5 {
			t.Fatalf("example %d probabilities sum to %v", i, rowSum)
		}
	}
}

func TestExamplesAreIndependent(t *testing.T) {
	m := newTestModel(t)
	alone, err := m.Forward(m.NewGraph(false), single([]int{4, 3, 2, 1}, 4), single([]int{1}, 1))
	if err != nil {
		t.Fatal(err)
	}
	batched, err := m.Forward(m.NewGraph(false),
		Sequences{Tokens: [][]int{{1, 2, 0, 0}, {4, 3, 2, 1}}, Lengths: []int{2, 4}},
		Sequences{Tokens: [][]int{{3, 3, 3}, {1, 0, 0}}, Lengths: []int{3, 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	for j, lp := range alone.LogProbs.Row(0) {
		if batched.LogProbs.At(1, j) != lp {
			t.Fatalf("class %d: batched %v, alone %v", j, batched.LogProbs.At(1, j), lp)
		}
	}
}

func TestPaddingIsIgnored(t *testing.T) {
	m := newTestModel(t)
	short, err := m.Forward(m.NewGraph(false), single([]int{1, 2}, 2), single([]int{3}, 1))
	if err != nil {
		t.Fatal(err)
	}
	padded, err := m.Forward(m.NewGraph(false), single([]int{1, 2, 4, 4}, 2), single([]int{3, 2}, 1))
	if err != nil {
		t.Fatal(err)
	}
	for i := range short.LogProbs.W {
		if short.LogProbs.W[i] != padded.LogProbs.W[i] {
			t.Fatal("tokens beyond the true length changed the output")
		}
	}
}

func TestEncodingIsCausal(t *testing.T) {
	m := newTestModel(t)
	ids := []int{1, 2, 3, 4}
	for _, enc := range []*Encoder{m.premise, m.hypothesis} {
		full := enc.Encode(m.NewGraph(false), m.embed.Lookup(ids))
		prefix := enc.Encode(m.NewGraph(false), m.embed.Lookup(ids[:2]))
		for i := range prefix {
			for j := range prefix[i].W {
				if prefix[i].W[j] != full[i].W[j] {
					t.Fatalf("position %d changed when later tokens were dropped", i)
				}
			}
		}
	}
}

func TestMatchIsCausal(t *testing.T) {
	m := newTestModel(t)
	g := m.NewGraph(false)
	hs := m.premise.Encode(g, m.embed.Lookup([]int{1, 2, 3}))
	ht := m.hypothesis.Encode(g, m.embed.Lookup([]int{4, 3, 2}))

	_, full := m.matcher.Match(g, hs, ht)
	_, prefix := m.matcher.Match(g, hs, ht[:2])
	for k := range prefix {
		for j := range prefix[k] {
			if prefix[k][j] != full[k][j] {
				t.Fatalf("step %d attention changed when later hypothesis tokens were dropped", k)
			}
		}
	}
}

func TestLongPremiseIsStable(t *testing.T) {
	m := newTestModel(t)
	tokens := make([]int, 200)
	for i := range tokens {
		tokens[i] = i%4 + 1
	}
	pred, err := m.Forward(m.NewGraph(false), single(tokens, len(tokens)), single([]int{1, 2, 3}, 3))
	if err != nil {
		t.Fatal(err)
	}
	for _, lp := range pred.LogProbs.W {
		if math.IsNaN(lp) || math.IsInf(lp, 0) {
			t.Fatalf("non-finite output %v", pred.LogProbs.W)
		}
	}
}

func TestForwardValidation(t *testing.T) {
	m := newTestModel(t)
	ok := single([]int{1, 2}, 2)
	cases := []struct {
		name       string
		premise    Sequences
		hypothesis Sequences
	}{
		{"empty batch", Sequences{}, Sequences{}},
		{"batch size mismatch", ok, Sequences{Tokens: [][]int{{1}, {2}}, Lengths: []int{1, 1}}},
		{"missing lengths", Sequences{Tokens: [][]int{{1, 2}}}, ok},
		{"ragged padding", Sequences{Tokens: [][]int{{1, 2}, {1}}, Lengths: []int{2, 1}},
			Sequences{Tokens: [][]int{{1}, {2}}, Lengths: []int{1, 1}}},
		{"length beyond width", single([]int{1, 2}, 3), ok},
		{"zero-length premise", single([]int{0, 0}, 0), ok},
		{"zero-length hypothesis", ok, single([]int{0, 0}, 0)},
		{"negative length", ok, single([]int{1}, -1)},
		{"token outside vocabulary", single([]int{1, 5}, 2), ok},
		{"negative token", ok, single([]int{-1, 2}, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := m.NewGraph(true)
			pred, err := m.Forward(g, tc.premise, tc.hypothesis)
			if err == nil {
				t.Fatalf("expected a validation error, got %v", pred.LogProbs.W)
			}
			if len(g.Backprop) != 0 {
				t.Fatal("validation must fail before anything is recorded")
			}
		})
	}
}
