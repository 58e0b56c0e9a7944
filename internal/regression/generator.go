package regression

import (
	"iter"
	"math/rand"

	"github.com/they4kman/gogep/gep"
)

// Generator produces an endless sequence of random chromosomes. If drawing a
// gene fails the sequence ends early and Err reports why.
type Generator struct {
	Alphabet  gep.Alphabet[*gep.Env[float64], float64]
	Data      *Dataset
	Rand      *rand.Rand
	Tolerance float64
	CacheSize int

	err error
}

func (g *Generator) Generate(head, genes int, linker Linker) iter.Seq[*Chromosome] {
	return func(yield func(*Chromosome) bool) {
		for {
			c, err := g.random(head, genes, linker)
			if err != nil {
				g.err = err
				return
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (g *Generator) Err() error {
	return g.err
}

func (g *Generator) random(head, n int, linker Linker) (*Chromosome, error) {
	genes := make([]*Gene, n)
	for i := range genes {
		gene, err := g.Alphabet.RandomGene(g.Rand, head, gep.WithCacheSize(g.CacheSize))
		if err != nil {
			return nil, err
		}
		genes[i] = gene
	}
	return NewChromosome(genes, linker, g.Data, g.Tolerance), nil
}

// MutatingSelector runs a tournament among Tournament chromosomes drawn
// uniformly, then mutates the winner. With a tournament of one or less it
// picks uniformly, like gep.UniformSelector.
type MutatingSelector struct {
	Alphabet   gep.Alphabet[*gep.Env[float64], float64]
	Rate       float64
	Tournament int
}

func (s *MutatingSelector) Select(population []*Chromosome, rng *rand.Rand) *Chromosome {
	picked := population[rng.Intn(len(population))]
	for i := 1; i < s.Tournament; i++ {
		if c := population[rng.Intn(len(population))]; c.Fitness() > picked.Fitness() {
			picked = c
		}
	}

	mutated, err := picked.Mutate(rng, s.Alphabet, s.Rate)
	if err != nil {
		// Single-allele edits within the gene never fail
		return picked
	}
	return mutated
}
