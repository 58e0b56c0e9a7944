package gep

import (
	"fmt"
)

// Allele is a single locus of a Karva gene: a function, a terminal or a
// constant. Functions are the only alleles with a non-zero arity.
//
// C is the evaluation context handle and V the value type flowing through the
// expression. Genes memoize evaluations keyed by C, so C should be a pointer
// type whenever two distinct contexts may hold equal values.
type Allele[C comparable, V comparable] interface {
	Name() string
	Arity() int
}

// Function is a named callable with a fixed arity. Fn receives exactly Arity
// arguments and must not retain the slice.
type Function[V comparable] struct {
	name   string
	symbol string
	arity  int
	fn     func(args []V) (V, error)
}

// NewFunction wraps fn as a function allele. An empty symbol renders as name.
func NewFunction[V comparable](name, symbol string, arity int, fn func(args []V) (V, error)) *Function[V] {
	return &Function[V]{
		name:   name,
		symbol: symbol,
		arity:  arity,
		fn:     fn,
	}
}

func (f *Function[V]) Name() string { return f.name }
func (f *Function[V]) Arity() int   { return f.arity }

// Symbol is the display glyph, falling back to the name
func (f *Function[V]) Symbol() string {
	if f.symbol != "" {
		return f.symbol
	}
	return f.name
}

func (f *Function[V]) Apply(args []V) (V, error) {
	return f.fn(args)
}

func (f *Function[V]) String() string {
	return fmt.Sprintf("%s/%d", f.name, f.arity)
}

// Terminal is a symbol resolved against the evaluation context through an
// accessor bound when the terminal is created.
type Terminal[C comparable, V comparable] struct {
	name string
	get  func(ctx C) (V, error)
}

func NewTerminal[C comparable, V comparable](name string, get func(ctx C) (V, error)) *Terminal[C, V] {
	return &Terminal[C, V]{name: name, get: get}
}

func (t *Terminal[C, V]) Name() string { return t.name }
func (t *Terminal[C, V]) Arity() int   { return 0 }

func (t *Terminal[C, V]) Resolve(ctx C) (V, error) {
	return t.get(ctx)
}

func (t *Terminal[C, V]) String() string {
	return t.name
}

// Constant is a literal allele. Constants compare by value.
type Constant[V comparable] struct {
	Value V
}

func (c Constant[V]) Name() string { return fmt.Sprint(c.Value) }
func (c Constant[V]) Arity() int   { return 0 }

// Env is a fixed set of named values usable as an evaluation context. An Env
// is never modified after creation, so cached evaluations against it stay valid.
type Env[V comparable] struct {
	vars map[string]V
}

func NewEnv[V comparable](vars map[string]V) *Env[V] {
	copied := make(map[string]V, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Env[V]{vars: copied}
}

func (e *Env[V]) Lookup(name string) (V, error) {
	v, ok := e.vars[name]
	if !ok {
		return v, fmt.Errorf("%w: %q", ErrNoSuchAttribute, name)
	}
	return v, nil
}

// EnvTerminal creates a terminal which looks its name up in an *Env
func EnvTerminal[V comparable](name string) *Terminal[*Env[V], V] {
	return NewTerminal(name, func(env *Env[V]) (V, error) {
		return env.Lookup(name)
	})
}

func displayName[C comparable, V comparable](a Allele[C, V]) string {
	if f, isFunction := a.(*Function[V]); isFunction {
		return f.Symbol()
	}
	return a.Name()
}
