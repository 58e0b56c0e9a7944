package gep

import (
	"fmt"
	"math/rand"
)

// Alphabet is the set of symbols random genes are drawn from
type Alphabet[C comparable, V comparable] struct {
	Functions []*Function[V]
	Terminals []Allele[C, V]
}

func (a Alphabet[C, V]) Validate() error {
	if len(a.Terminals) == 0 {
		return fmt.Errorf("%w: alphabet has no terminals", ErrInvalidParams)
	}
	for _, t := range a.Terminals {
		if t.Arity() != 0 {
			return fmt.Errorf("%w: terminal %s has arity %d", ErrInvalidParams, t.Name(), t.Arity())
		}
	}
	return nil
}

func (a Alphabet[C, V]) maxArity() int {
	arity := 1
	for _, f := range a.Functions {
		if f.Arity() > arity {
			arity = f.Arity()
		}
	}
	return arity
}

// TailLength is the number of tail alleles needed so that any head, however
// full of functions, decodes to a complete expression.
func (a Alphabet[C, V]) TailLength(head int) int {
	return head*(a.maxArity()-1) + 1
}

// RandomGene draws a gene with the given head length. Head alleles may be any
// symbol; tail alleles are always terminals.
func (a Alphabet[C, V]) RandomGene(rng *rand.Rand, head int, opts ...GeneOption) (*KarvaGene[C, V], error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if head < 1 {
		return nil, fmt.Errorf("%w: head length %d must be positive", ErrInvalidParams, head)
	}

	alleles := make([]Allele[C, V], head+a.TailLength(head))
	for i := range alleles {
		alleles[i] = a.RandomAllele(rng, i < head)
	}

	return NewKarvaGene(alleles, head, opts...)
}

// RandomAllele picks a symbol uniformly, from functions and terminals when
// inHead is set and from terminals only otherwise.
func (a Alphabet[C, V]) RandomAllele(rng *rand.Rand, inHead bool) Allele[C, V] {
	n := len(a.Terminals)
	if inHead {
		n += len(a.Functions)
	}

	pick := rng.Intn(n)
	if pick < len(a.Terminals) {
		return a.Terminals[pick]
	}
	return a.Functions[pick-len(a.Terminals)]
}
