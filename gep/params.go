package gep

import "fmt"

type Params struct {
	// Number of chromosomes in each generation. Must be positive.
	PopulationSize int `yaml:"population_size"`

	// Length of the head of each gene. The tail length follows from the head
	// length and the largest function arity of the alphabet.
	HeadLength int `yaml:"head_length"`

	// Number of genes each chromosome is made of
	Genes int `yaml:"genes"`

	// Maximum number of generations a run may cycle through
	Generations int `yaml:"generations"`

	// Probability that any single allele is replaced when a chromosome is
	// picked for the next generation
	MutationRate float64 `yaml:"mutation_rate"`

	// Number of contexts each gene remembers evaluations for
	CacheSize int `yaml:"cache_size"`

	// Seed of the random source. Zero picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

func DefaultParams() *Params {
	return &Params{
		PopulationSize: 50,
		HeadLength:     7,
		Genes:          1,
		Generations:    1000,
		MutationRate:   0.05,
		CacheSize:      DefaultCacheSize,
		Seed:           0,
	}
}

func (p *Params) Validate() error {
	switch {
	case p.PopulationSize < 1:
		return fmt.Errorf("%w: population size %d must be positive", ErrInvalidParams, p.PopulationSize)
	case p.HeadLength < 1:
		return fmt.Errorf("%w: head length %d must be positive", ErrInvalidParams, p.HeadLength)
	case p.Genes < 1:
		return fmt.Errorf("%w: gene count %d must be positive", ErrInvalidParams, p.Genes)
	case p.Generations < 0:
		return fmt.Errorf("%w: generations %d must not be negative", ErrInvalidParams, p.Generations)
	case p.MutationRate < 0 || p.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate %g must lie in [0, 1]", ErrInvalidParams, p.MutationRate)
	case p.CacheSize < 1:
		return fmt.Errorf("%w: cache size %d must be positive", ErrInvalidParams, p.CacheSize)
	}
	return nil
}
