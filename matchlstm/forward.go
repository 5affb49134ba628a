package matchlstm

import "github.com/ruffrey/match-lstm-go/recurrent"

// Sequences is one side (premise or hypothesis) of a batch: token ids padded
// to a batch-wide width plus the true length of each row.
type Sequences struct {
	Tokens  [][]int
	Lengths []int
}

// Prediction is the result of a forward pass.
type Prediction struct {
	// LogProbs is batch x classes; it lives on the tape, so a cost can seed
	// its gradient.
	LogProbs *recurrent.Mat
	// Alignments[i][k][j] is the attention weight example i put on premise
	// position j at hypothesis step k.
	Alignments [][][]float64
}

// Forward runs the model over a batch, one example at a time. Inputs are
// checked before anything is computed.
func (m *Model) Forward(g *recurrent.Graph, premise Sequences, hypothesis Sequences) (*Prediction, error) {
	if g.Device != m.device {
		return nil, deviceError("graph is on %v but model parameters are on %v", g.Device, m.device)
	}
	if err := m.validate(premise, hypothesis); err != nil {
		return nil, err
	}

	batch := len(premise.Tokens)
	scores := make([]*recurrent.Mat, batch)
	alignments := make([][][]float64, batch)
	for i := 0; i < batch; i++ {
		prem := m.embed.Lookup(premise.Tokens[i][:premise.Lengths[i]])
		hypo := m.embed.Lookup(hypothesis.Tokens[i][:hypothesis.Lengths[i]])

		hs := m.premise.Encode(g, prem)
		ht := m.hypothesis.Encode(g, hypo)

		final, align := m.matcher.Match(g, hs, ht)
		scores[i] = m.classifier.Forward(g, final)
		alignments[i] = align
	}

	return &Prediction{
		LogProbs:   g.LogSoftmaxRows(g.Stack(scores)),
		Alignments: alignments,
	}, nil
}

func (m *Model) validate(premise Sequences, hypothesis Sequences) error {
	batch := len(premise.Tokens)
	if batch == 0 {
		return validationError("empty batch")
	}
	if len(hypothesis.Tokens) != batch {
		return validationError("premise batch has %d examples, hypothesis batch has %d", batch, len(hypothesis.Tokens))
	}
	if err := m.validateSide("premise", premise, batch); err != nil {
		return err
	}
	return m.validateSide("hypothesis", hypothesis, batch)
}

func (m *Model) validateSide(side string, s Sequences, batch int) error {
	if len(s.Lengths) != batch {
		return validationError("%s has %d lengths for %d examples", side, len(s.Lengths), batch)
	}
	width := len(s.Tokens[0])
	vocab := m.embed.VocabSize()
	for i, row := range s.Tokens {
		if len(row) != width {
			return validationError("%s example %d is padded to %d tokens, batch width is %d", side, i, len(row), width)
		}
		l := s.Lengths[i]
		if l < 1 {
			return validationError("%s example %d has length %d; at least 1 token is required", side, i, l)
		}
		if l > width {
			return validationError("%s example %d has length %d beyond padded width %d", side, i, l, width)
		}
		for j, id := range row {
			if id < 0 || id >= vocab {
				return validationError("%s example %d token %d is id %d, outside vocabulary of %d", side, i, j, id, vocab)
			}
		}
	}
	return nil
}
