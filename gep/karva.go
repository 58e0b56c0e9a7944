package gep

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// KarvaGene is a fixed-length gene read as Karva notation: its alleles, in
// order, lay out an expression tree level by level according to the arity of
// each function. Only the prefix up to Coding() takes part in the expression;
// the rest is kept for future mutation.
//
// A gene never changes once built. Derive produces new genes, and evaluations
// are memoized by context identity.
type KarvaGene[C comparable, V comparable] struct {
	alleles []Allele[C, V]
	head    int
	coding  int

	cacheSize int
	memo      *memo
}

// Edit replaces len(Alleles) alleles of a gene, starting at Index
type Edit[C comparable, V comparable] struct {
	Index   int
	Alleles []Allele[C, V]
}

// GeneOption configures a gene built by NewKarvaGene or Alphabet.RandomGene
type GeneOption func(*geneOptions)

type geneOptions struct {
	cacheSize int
}

// WithCacheSize bounds the number of contexts a gene remembers evaluations for
func WithCacheSize(size int) GeneOption {
	return func(o *geneOptions) {
		o.cacheSize = size
	}
}

// NewKarvaGene creates a gene from a copy of alleles. The alleles must form a
// complete expression: ErrEmptyGene or ErrMalformedGene is returned otherwise.
func NewKarvaGene[C comparable, V comparable](alleles []Allele[C, V], head int, opts ...GeneOption) (*KarvaGene[C, V], error) {
	o := geneOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	return newKarvaGene(slices.Clone(alleles), head, o.cacheSize)
}

func newKarvaGene[C comparable, V comparable](alleles []Allele[C, V], head, cacheSize int) (*KarvaGene[C, V], error) {
	coding, err := findCoding(alleles)
	if err != nil {
		return nil, err
	}

	m, err := newMemo(cacheSize)
	if err != nil {
		return nil, err
	}

	return &KarvaGene[C, V]{
		alleles:   alleles,
		head:      head,
		coding:    coding,
		cacheSize: cacheSize,
		memo:      m,
	}, nil
}

// findCoding returns the index of the last allele of the expression.
//
// Starting from the root, each level of the tree consumes as many alleles as
// the level above requires arguments; the sweep ends at the first level made
// only of terminals.
func findCoding[C comparable, V comparable](alleles []Allele[C, V]) (int, error) {
	if len(alleles) == 0 {
		return 0, ErrEmptyGene
	}

	index, args := 0, 1
	for args > 0 {
		nextArgs := 0
		for ; args > 0; args-- {
			if index >= len(alleles) {
				return 0, fmt.Errorf("%w: %d alleles cannot close the expression", ErrMalformedGene, len(alleles))
			}
			nextArgs += alleles[index].Arity()
			index++
		}
		args = nextArgs
	}

	return index - 1, nil
}

func (g *KarvaGene[C, V]) Head() int   { return g.head }
func (g *KarvaGene[C, V]) Coding() int { return g.coding }
func (g *KarvaGene[C, V]) Len() int    { return len(g.alleles) }

func (g *KarvaGene[C, V]) At(i int) Allele[C, V] {
	return g.alleles[i]
}

// Slice returns a copy of the alleles in [i, j)
func (g *KarvaGene[C, V]) Slice(i, j int) []Allele[C, V] {
	return slices.Clone(g.alleles[i:j])
}

func (g *KarvaGene[C, V]) Alleles() []Allele[C, V] {
	return slices.Clone(g.alleles)
}

func (g *KarvaGene[C, V]) All() iter.Seq2[int, Allele[C, V]] {
	return slices.All(g.alleles)
}

func (g *KarvaGene[C, V]) CacheStats() CacheStats {
	return g.memo.stats()
}

// Call evaluates the gene against ctx. Results are cached per gene lineage
// and keyed by ctx itself, so a context must not change between calls.
func (g *KarvaGene[C, V]) Call(ctx C) (V, error) {
	if cached, ok := g.memo.get(ctx); ok {
		return cached.(V), nil
	}

	result, err := g.evaluate(ctx)
	if err != nil {
		return result, err
	}

	g.memo.add(ctx, result)
	return result, nil
}

func (g *KarvaGene[C, V]) evaluate(ctx C) (V, error) {
	var zero V

	// Terminals and constants hold their value, functions are filled in below
	results := make([]V, g.coding+1)
	for i, allele := range g.alleles[:g.coding+1] {
		switch a := allele.(type) {
		case *Function[V]:
		case *Terminal[C, V]:
			v, err := a.Resolve(ctx)
			if err != nil {
				return zero, fmt.Errorf("resolving terminal %s: %w", a.Name(), err)
			}
			results[i] = v
		case Constant[V]:
			results[i] = a.Value
		default:
			return zero, fmt.Errorf("%w: unsupported allele %T at %d", ErrMalformedGene, allele, i)
		}
	}

	// Walking backwards, each function's arguments are the last unconsumed
	// results before the cursor.
	index := g.coding + 1
	for i := g.coding; i >= 0; i-- {
		f, isFunction := g.alleles[i].(*Function[V])
		if !isFunction {
			continue
		}

		n := f.Arity()
		v, err := f.Apply(results[index-n : index])
		if err != nil {
			return zero, fmt.Errorf("applying %s at %d: %w", f.Name(), i, err)
		}

		results[i] = v
		index -= n
	}

	return results[0], nil
}

// Derive applies edits, in order, to a copy of the gene's alleles. Edits that
// leave alleles as they are change nothing, and when no edit changes anything
// the receiver itself is returned.
//
// The derived gene keeps its parent's coding region and shares its evaluation
// cache if every changing edit starts past the coding region. Otherwise the
// coding region is found anew and the cache starts empty.
func (g *KarvaGene[C, V]) Derive(edits ...Edit[C, V]) (*KarvaGene[C, V], error) {
	var alleles []Allele[C, V]
	sameCoding := true

	for _, edit := range edits {
		end := edit.Index + len(edit.Alleles)
		if edit.Index < 0 || end > len(g.alleles) {
			return nil, fmt.Errorf("%w: [%d:%d] of %d alleles", ErrEditOutOfRange, edit.Index, end, len(g.alleles))
		}

		current := g.alleles
		if alleles != nil {
			current = alleles
		}

		changed := false
		for k, a := range edit.Alleles {
			if current[edit.Index+k] != a {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}

		// Copy the alleles on first change
		if alleles == nil {
			alleles = slices.Clone(g.alleles)
		}
		copy(alleles[edit.Index:], edit.Alleles)

		if edit.Index <= g.coding {
			sameCoding = false
		}
	}

	if alleles == nil {
		return g, nil
	}

	if sameCoding {
		return &KarvaGene[C, V]{
			alleles:   alleles,
			head:      g.head,
			coding:    g.coding,
			cacheSize: g.cacheSize,
			memo:      g.memo,
		}, nil
	}

	return newKarvaGene(alleles, g.head, g.cacheSize)
}

// String renders one glyph per allele, wrapping names longer than one
// character in braces: [add x 3] renders as "{add}x3".
func (g *KarvaGene[C, V]) String() string {
	var buf strings.Builder
	buf.Grow(len(g.alleles))

	for _, allele := range g.alleles {
		name := displayName[C, V](allele)
		if utf8.RuneCountInString(name) == 1 {
			buf.WriteString(name)
		} else {
			buf.WriteByte('{')
			buf.WriteString(name)
			buf.WriteByte('}')
		}
	}

	return buf.String()
}
