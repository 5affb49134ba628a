/*
Package matchlstm implements the Match-LSTM model for natural-language
inference: a premise and a hypothesis are encoded by two LSTMs, a third LSTM
walks the hypothesis while attending over the premise word by word, and a
linear head classifies its final state.
*/
package matchlstm

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ruffrey/match-lstm-go/recurrent"
)

/*
Model owns two groups of tensors: the frozen word-vector table and the
trainable ParamSet. Only the latter is exposed to solvers.
*/
type Model struct {
	config Config
	device recurrent.Device

	embed  *Embedding
	params *recurrent.ParamSet

	premise    *Encoder
	hypothesis *Encoder
	matcher    *Matcher
	classifier *recurrent.Linear
}

/*
New builds a model from cfg and the pretrained vectors (row 0 is padding).
The device is resolved here, once; asking for CUDA in a build without it
falls back to CPU, which Device reports.
*/
func New(cfg Config, vectors [][]float64) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	embed, err := NewEmbedding(vectors, cfg.EmbeddingDim)
	if err != nil {
		return nil, err
	}
	device, _ := recurrent.ResolveDevice(cfg.UseCUDA)

	h := cfg.HiddenSize
	src := recurrent.NewSource(cfg.Seed)
	ps := recurrent.NewParamSet()

	attend := ps.Add("w_e", recurrent.RandMat(h, 1, 0, 1, src))
	matcher := &Matcher{
		attend: attend,
		projS:  recurrent.NewLinear(ps, "linear_s", h, h, false, src),
		projT:  recurrent.NewLinear(ps, "linear_t", h, h, false, src),
		projM:  recurrent.NewLinear(ps, "linear_m", h, h, false, src),
	}
	classifier := recurrent.NewLinear(ps, "fc", h, cfg.NumClasses, true, src)

	premise := &Encoder{cell: recurrent.NewLSTMCell(ps, "lstm_prem", cfg.EmbeddingDim, h, src)}
	hypothesis := &Encoder{cell: recurrent.NewLSTMCell(ps, "lstm_hypo", cfg.EmbeddingDim, h, src)}
	matcher.cell = recurrent.NewLSTMCell(ps, "lstm_match", 2*h, h, src)

	return &Model{
		config:     cfg,
		device:     device,
		embed:      embed,
		params:     ps,
		premise:    premise,
		hypothesis: hypothesis,
		matcher:    matcher,
		classifier: classifier,
	}, nil
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.config }

// Device is where the model's tensors live.
func (m *Model) Device() recurrent.Device { return m.device }

// Embedding returns the frozen word-vector table.
func (m *Model) Embedding() *Embedding { return m.embed }

// NewGraph returns a tape on the model's device.
func (m *Model) NewGraph(needsBackprop bool) *recurrent.Graph {
	return recurrent.NewGraph(m.device, needsBackprop)
}

/*
TrainableParams returns every tensor a solver may update, in registration
order. The embedding table is never part of it.
*/
func (m *Model) TrainableParams() []recurrent.Param {
	return m.params.All()
}

// ParamCount is the number of trainable scalars.
func (m *Model) ParamCount() int {
	return m.params.Size()
}

/*
Summary writes the trainable scalar count to w. With debug it first lists
every tensor, the frozen embedding included, as "<trainable> [rows cols]".
*/
func (m *Model) Summary(w io.Writer, debug bool) error {
	if debug {
		if _, err := fmt.Fprintf(w, "false [%d %d]\n", m.embed.VocabSize(), m.embed.Dim()); err != nil {
			return err
		}
		for _, p := range m.params.All() {
			if _, err := fmt.Fprintf(w, "true [%d %d] %s\n", p.RowCount, p.ColumnCount, p.Name); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "#parameters: %s\n", humanize.Comma(int64(m.ParamCount())))
	return err
}
