// Package gep implements the core of a Gene Expression Programming engine.
//
// Genes are fixed-length symbol sequences read as Karva notation, a prefix
// breadth-first layout of an expression tree. A KarvaGene finds the part of
// its sequence the expression actually uses (the coding region), evaluates it
// against a context with a single backward sweep, memoizes results per
// context, and derives new genes from edits while keeping the cache whenever
// the coding region is untouched.
//
// A Population holds one generation of chromosomes and advances it with
// elitism and a pluggable selection policy.
package gep
