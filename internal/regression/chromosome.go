package regression

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/they4kman/gogep/gep"
)

type Gene = gep.KarvaGene[*gep.Env[float64], float64]

// Linker combines the results of a chromosome's genes
type Linker func(values []float64) float64

func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Chromosome is a symbolic regression candidate: one or more genes, linked
// into a single value, scored against a dataset.
type Chromosome struct {
	genes     []*Gene
	linker    Linker
	data      *Dataset
	tolerance float64

	// Cached results of scoring
	score *score
}

type score struct {
	meanAbsError float64
	err          error
}

func NewChromosome(genes []*Gene, linker Linker, data *Dataset, tolerance float64) *Chromosome {
	return &Chromosome{
		genes:     genes,
		linker:    linker,
		data:      data,
		tolerance: tolerance,
	}
}

func (c *Chromosome) Genes() []*Gene {
	genes := make([]*Gene, len(c.genes))
	copy(genes, c.genes)
	return genes
}

// Eval links the values of every gene evaluated against vars
func (c *Chromosome) Eval(vars *gep.Env[float64]) (float64, error) {
	values := make([]float64, len(c.genes))
	for i, gene := range c.genes {
		v, err := gene.Call(vars)
		if err != nil {
			return 0, fmt.Errorf("gene %d: %w", i, err)
		}
		values[i] = v
	}
	return c.linker(values), nil
}

// MeanAbsError is the mean absolute difference between the chromosome's
// values and the dataset targets.
func (c *Chromosome) MeanAbsError() (float64, error) {
	if c.score != nil {
		return c.score.meanAbsError, c.score.err
	}

	total := 0.0
	var err error
	for _, sample := range c.data.Cases {
		var v float64
		v, err = c.Eval(sample.Vars)
		if err != nil {
			break
		}
		total += math.Abs(v - sample.Target)
	}

	c.score = &score{err: err, meanAbsError: math.Inf(1)}
	if err == nil && len(c.data.Cases) > 0 {
		c.score.meanAbsError = total / float64(len(c.data.Cases))
	}
	return c.score.meanAbsError, c.score.err
}

// Fitness lies in [0, 1], 1 being an exact fit. Chromosomes failing to
// evaluate, or evaluating to NaN, score 0.
func (c *Chromosome) Fitness() float64 {
	mae, err := c.MeanAbsError()
	if err != nil || math.IsNaN(mae) || math.IsInf(mae, 0) {
		return 0
	}
	return 1 / (1 + mae)
}

func (c *Chromosome) Solved() bool {
	mae, err := c.MeanAbsError()
	return err == nil && mae <= c.tolerance
}

func (c *Chromosome) Len() int {
	n := 0
	for _, gene := range c.genes {
		n += gene.Len()
	}
	return n
}

func (c *Chromosome) String() string {
	var buf strings.Builder
	for _, gene := range c.genes {
		buf.WriteString(gene.String())
	}
	return buf.String()
}

// Mutate replaces each allele with a random symbol of the alphabet with
// probability rate. Head alleles may become functions; tail alleles stay
// terminals. The chromosome itself is returned when no gene changed.
func (c *Chromosome) Mutate(rng *rand.Rand, alphabet gep.Alphabet[*gep.Env[float64], float64], rate float64) (*Chromosome, error) {
	var genes []*Gene

	for i, gene := range c.genes {
		var edits []gep.Edit[*gep.Env[float64], float64]
		for k := 0; k < gene.Len(); k++ {
			if rng.Float64() < rate {
				edits = append(edits, gep.Edit[*gep.Env[float64], float64]{
					Index:   k,
					Alleles: []gep.Allele[*gep.Env[float64], float64]{alphabet.RandomAllele(rng, k < gene.Head())},
				})
			}
		}

		derived, err := gene.Derive(edits...)
		if err != nil {
			return nil, fmt.Errorf("mutating gene %d: %w", i, err)
		}
		if derived == gene {
			continue
		}

		// Copy the genes on first change
		if genes == nil {
			genes = c.Genes()
		}
		genes[i] = derived
	}

	if genes == nil {
		return c, nil
	}
	return NewChromosome(genes, c.linker, c.data, c.tolerance), nil
}
