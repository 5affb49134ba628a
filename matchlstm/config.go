package matchlstm

import (
	"os"

	"github.com/getlantern/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the model's dimensions and where it runs.
type Config struct {
	HiddenSize   int    `yaml:"hidden_size"`
	EmbeddingDim int    `yaml:"embedding_dim"`
	NumClasses   int    `yaml:"num_classes"`
	UseCUDA      bool   `yaml:"use_cuda"`
	Seed         uint64 `yaml:"seed"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone.
type Overrides struct {
	HiddenSize   int
	EmbeddingDim int
	NumClasses   int
	UseCUDA      bool
	Seed         uint64
}

// DefaultConfig is the three-way entailment setup.
func DefaultConfig() Config {
	return Config{
		HiddenSize:   150,
		EmbeddingDim: 300,
		NumClasses:   3,
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.New("open config %v: %v", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.New("parse config %v: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.HiddenSize > 0 {
		c.HiddenSize = o.HiddenSize
	}
	if o.EmbeddingDim > 0 {
		c.EmbeddingDim = o.EmbeddingDim
	}
	if o.NumClasses > 0 {
		c.NumClasses = o.NumClasses
	}
	if o.UseCUDA {
		c.UseCUDA = true
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
}

// Validate verifies the config describes a buildable model.
func (c *Config) Validate() error {
	if c == nil {
		return validationError("config is nil")
	}
	if c.HiddenSize <= 0 {
		return validationError("hidden_size must be > 0 (got %d)", c.HiddenSize)
	}
	if c.EmbeddingDim <= 0 {
		return validationError("embedding_dim must be > 0 (got %d)", c.EmbeddingDim)
	}
	if c.NumClasses <= 0 {
		return validationError("num_classes must be > 0 (got %d)", c.NumClasses)
	}
	return nil
}
