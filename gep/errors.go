package gep

import "errors"

var (
	// ErrEmptyGene is returned when a gene is built from no alleles.
	ErrEmptyGene = errors.New("gene has no alleles")

	// ErrMalformedGene is returned when the function arities of a gene require
	// more arguments than the allele sequence holds.
	ErrMalformedGene = errors.New("malformed karva gene")

	// ErrEditOutOfRange is returned by Derive for edits that would write past
	// either end of the fixed-length allele sequence.
	ErrEditOutOfRange = errors.New("edit out of range")

	// ErrNoSuchAttribute is returned when a terminal cannot be resolved
	// against the evaluation context.
	ErrNoSuchAttribute = errors.New("no such context attribute")

	// ErrEmptyPopulation is returned when a population of size zero is
	// requested, or the generator produces no chromosomes at all.
	ErrEmptyPopulation = errors.New("empty populations are meaningless")

	// ErrShortPopulation is returned when the generator runs dry before the
	// requested population size is reached.
	ErrShortPopulation = errors.New("generator produced fewer chromosomes than requested")

	// ErrInvalidParams is returned when run parameters or an alphabet cannot
	// produce a population.
	ErrInvalidParams = errors.New("invalid params")
)
