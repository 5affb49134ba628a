package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/getlantern/errors"
	"github.com/pkg/profile"
	"gopkg.in/urfave/cli.v1"

	"github.com/ruffrey/match-lstm-go/matchlstm"
	"github.com/ruffrey/match-lstm-go/recurrent"
)

// optimization params for the step command
const (
	// regc is L2 regularization strength
	defaultRegc = 0.000001
	// learningRate is how much to move weights per step
	defaultLearningRate = 0.01
	// clipval caps gradients before the update
	defaultClipval = 5.0
)

var modelFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config",
		Usage: "Optional YAML `file` with hidden_size, embedding_dim, num_classes, use_cuda, seed",
	},
	cli.IntFlag{
		Name:  "hidden",
		Usage: "Hidden size `int` (overrides config)",
	},
	cli.IntFlag{
		Name:  "embed",
		Usage: "Embedding dimension `int` (overrides config)",
	},
	cli.IntFlag{
		Name:  "classes",
		Usage: "Number of classes `int` (overrides config)",
	},
	cli.BoolFlag{
		Name:  "cuda",
		Usage: "Ask for CUDA; falls back to CPU when unavailable",
	},
	cli.Uint64Flag{
		Name:  "seed",
		Usage: "Initialization seed `uint`",
	},
	cli.StringFlag{
		Name:  "vectors",
		Usage: "JSON `file` with pretrained word vectors; row 0 is padding",
	},
	cli.IntFlag{
		Name:  "vocab",
		Value: 10,
		Usage: "Vocabulary size `int` of the random table used when --vectors is not given",
	},
}

var exampleFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "premise",
		Usage: "Premise token ids, e.g. `1,2,3`",
	},
	cli.StringFlag{
		Name:  "hypothesis",
		Usage: "Hypothesis token ids, e.g. `4,5`",
	},
}

func main() {
	var prof interface{ Stop() }

	app := cli.NewApp()
	app.Name = "matchlstm"
	app.Usage = "Match-LSTM natural-language inference over premise/hypothesis token ids"
	app.Version = "0.1.0"
	// cpu/mem profiling via PERF environment flag
	app.Before = func(c *cli.Context) error {
		switch os.Getenv("PERF") {
		case "cpu":
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		case "mem":
			prof = profile.Start(profile.MemProfile, profile.ProfilePath("."))
		}
		return nil
	}
	app.After = func(c *cli.Context) error {
		if prof != nil {
			prof.Stop()
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "params",
			Usage: "Build a model and print its trainable parameter count",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "debug",
					Usage: "List every tensor and whether it is trainable",
				},
			}, modelFlags...),
			Action: func(c *cli.Context) error {
				m, err := buildModel(c)
				if err != nil {
					return err
				}
				return m.Summary(os.Stdout, c.Bool("debug"))
			},
		},
		{
			Name:   "predict",
			Usage:  "Classify one premise/hypothesis pair and show the attention",
			Flags:  append(append([]cli.Flag{}, exampleFlags...), modelFlags...),
			Action: predict,
		},
		{
			Name:  "step",
			Usage: "Run one training step on a labelled pair and report the loss",
			Flags: append(append([]cli.Flag{
				cli.IntFlag{
					Name:  "label",
					Usage: "Gold class `int`",
				},
				cli.Float64Flag{
					Name:  "learn",
					Value: defaultLearningRate,
					Usage: "Learning rate `float`",
				},
				cli.Float64Flag{
					Name:  "regc",
					Value: defaultRegc,
					Usage: "L2 regularization `float`",
				},
				cli.Float64Flag{
					Name:  "gradmax",
					Value: defaultClipval,
					Usage: "Gradient clip `float`",
				},
			}, exampleFlags...), modelFlags...),
			Action: step,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildModel(c *cli.Context) (*matchlstm.Model, error) {
	cfg := matchlstm.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := matchlstm.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(matchlstm.Overrides{
		HiddenSize:   c.Int("hidden"),
		EmbeddingDim: c.Int("embed"),
		NumClasses:   c.Int("classes"),
		UseCUDA:      c.Bool("cuda"),
		Seed:         c.Uint64("seed"),
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var vectors [][]float64
	if path := c.String("vectors"); path != "" {
		v, err := readVectors(path)
		if err != nil {
			return nil, err
		}
		vectors = v
		log.Printf("loaded %d word vectors from %s", len(vectors), path)
	} else {
		vocab := c.Int("vocab")
		if vocab < 1 {
			return nil, errors.New("--vocab must be >= 1 (got %d)", vocab)
		}
		table := recurrent.RandMat(vocab, cfg.EmbeddingDim, -0.5, 0.5, recurrent.NewSource(cfg.Seed+1))
		vectors = make([][]float64, vocab)
		for i := range vectors {
			vectors[i] = table.Row(i)
		}
	}

	m, err := matchlstm.New(cfg, vectors)
	if err != nil {
		return nil, err
	}
	if cfg.UseCUDA && m.Device() != recurrent.CUDA {
		log.Printf("cuda requested but not available, running on %v", m.Device())
	}
	return m, nil
}

func readExample(c *cli.Context) (matchlstm.Sequences, matchlstm.Sequences, error) {
	premise, err := parseTokens(c.String("premise"))
	if err != nil {
		return matchlstm.Sequences{}, matchlstm.Sequences{}, err
	}
	hypothesis, err := parseTokens(c.String("hypothesis"))
	if err != nil {
		return matchlstm.Sequences{}, matchlstm.Sequences{}, err
	}
	return matchlstm.Sequences{Tokens: [][]int{premise}, Lengths: []int{len(premise)}},
		matchlstm.Sequences{Tokens: [][]int{hypothesis}, Lengths: []int{len(hypothesis)}},
		nil
}

func predict(c *cli.Context) error {
	m, err := buildModel(c)
	if err != nil {
		return err
	}
	premise, hypothesis, err := readExample(c)
	if err != nil {
		return err
	}
	pred, err := m.Forward(m.NewGraph(false), premise, hypothesis)
	if err != nil {
		return err
	}

	fmt.Println("log-probabilities:", formatRow(pred.LogProbs.Row(0)))
	probs := recurrent.Softmax(recurrent.NewVec(pred.LogProbs.Row(0)))
	fmt.Println("probabilities:    ", formatRow(probs.W))
	fmt.Println("alignment (hypothesis step x premise position):")
	for k, alpha := range pred.Alignments[0] {
		fmt.Printf("  %3d  %s\n", hypothesis.Tokens[0][k], formatRow(alpha))
	}
	return nil
}

func step(c *cli.Context) error {
	m, err := buildModel(c)
	if err != nil {
		return err
	}
	premise, hypothesis, err := readExample(c)
	if err != nil {
		return err
	}
	label := c.Int("label")
	if label < 0 || label >= m.Config().NumClasses {
		return errors.New("--label must be in [0, %d) (got %d)", m.Config().NumClasses, label)
	}

	g := m.NewGraph(true)
	pred, err := m.Forward(g, premise, hypothesis)
	if err != nil {
		return err
	}
	before := recurrent.NLLCost(pred.LogProbs, []int{label})
	g.Backward()

	solver := recurrent.NewSolver()
	stats := solver.Step(m.TrainableParams(), c.Float64("learn"), c.Float64("regc"), c.Float64("gradmax"))

	after, err := m.Forward(m.NewGraph(false), premise, hypothesis)
	if err != nil {
		return err
	}
	fmt.Println("loss before", before)
	fmt.Println("loss after ", -after.LogProbs.At(0, label))
	fmt.Println("solverStats", stats)
	return nil
}

func formatRow(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%8.4f", v)
	}
	return strings.Join(parts, " ")
}
