package main

import (
	"fmt"
	"os"

	"github.com/they4kman/gogep/gep"
	"github.com/they4kman/gogep/internal/regression"
	"gopkg.in/yaml.v3"
)

type Config struct {
	gep.Params `yaml:",inline"`

	// Expression the run searches for, sampled over Variable in [From, To].
	// Ignored when Dataset is set.
	Target   string  `yaml:"target"`
	Variable string  `yaml:"variable"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Step     float64 `yaml:"step"`

	// Path of a YAML dataset to fit instead of sampling Target
	Dataset string `yaml:"dataset"`

	// Constants available as terminals, next to the dataset variables
	Constants []float64 `yaml:"constants"`

	// Mean absolute error at or under which a chromosome counts as a solution
	Tolerance float64 `yaml:"tolerance"`

	// Number of chromosomes competing for each non-elite slot
	Tournament int `yaml:"tournament"`

	// Generations between progress lines
	ReportEvery int `yaml:"report_every"`

	// Address to serve Prometheus metrics on. Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:      *gep.DefaultParams(),
		Target:      "x*x*x + x*x + x",
		Variable:    "x",
		From:        -5,
		To:          5,
		Step:        1,
		Constants:   []float64{1},
		Tolerance:   0.01,
		Tournament:  3,
		ReportEvery: 100,
	}
}

// LoadConfig overlays the YAML file at path onto cfg
func LoadConfig(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) Validate() error {
	if err := cfg.Params.Validate(); err != nil {
		return err
	}
	switch {
	case cfg.Dataset == "" && cfg.Target == "":
		return fmt.Errorf("%w: either a target or a dataset is required", gep.ErrInvalidParams)
	case cfg.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %g must not be negative", gep.ErrInvalidParams, cfg.Tolerance)
	case cfg.ReportEvery < 1:
		return fmt.Errorf("%w: report interval %d must be positive", gep.ErrInvalidParams, cfg.ReportEvery)
	}
	return nil
}

func (cfg *Config) LoadDataset() (*regression.Dataset, error) {
	if cfg.Dataset == "" {
		return regression.FromExpr(cfg.Target, cfg.Variable, cfg.From, cfg.To, cfg.Step)
	}

	f, err := os.Open(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	return regression.Load(f)
}
