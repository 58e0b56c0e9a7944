package gep

import (
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"time"
)

// Chromosome is the unit of selection a Population holds
type Chromosome interface {
	Fitness() float64
	Len() int
	String() string
}

// Solvable is implemented by chromosomes able to tell that they solve the
// problem at hand. Population.Solve stops once its best chromosome is solved.
type Solvable interface {
	Solved() bool
}

// Generator produces a, possibly endless, sequence of chromosomes with genes
// of the given head length, combined by linker.
type Generator[T Chromosome, L any] interface {
	Generate(head, genes int, linker L) iter.Seq[T]
}

type GeneratorFunc[T Chromosome, L any] func(head, genes int, linker L) iter.Seq[T]

func (f GeneratorFunc[T, L]) Generate(head, genes int, linker L) iter.Seq[T] {
	return f(head, genes, linker)
}

// Selector picks the chromosome filling one non-elite slot of the next
// generation.
type Selector[T Chromosome] interface {
	Select(population []T, rng *rand.Rand) T
}

type SelectorFunc[T Chromosome] func(population []T, rng *rand.Rand) T

func (f SelectorFunc[T]) Select(population []T, rng *rand.Rand) T {
	return f(population, rng)
}

// UniformSelector picks any chromosome with equal probability, regardless of
// fitness. It is the default policy.
type UniformSelector[T Chromosome] struct{}

func (UniformSelector[T]) Select(population []T, rng *rand.Rand) T {
	return population[rng.Intn(len(population))]
}

// Population is one generation of chromosomes, advanced in place by Cycle
type Population[T Chromosome] struct {
	population []T
	// Receives the next generation; holds the previous one after a cycle
	nextPop []T

	age int

	selector Selector[T]
	rng      *rand.Rand
	logger   *slog.Logger
}

type PopulationOption[T Chromosome] func(*Population[T])

func WithSelector[T Chromosome](selector Selector[T]) PopulationOption[T] {
	return func(p *Population[T]) {
		p.selector = selector
	}
}

func WithRand[T Chromosome](rng *rand.Rand) PopulationOption[T] {
	return func(p *Population[T]) {
		p.rng = rng
	}
}

func WithLogger[T Chromosome](logger *slog.Logger) PopulationOption[T] {
	return func(p *Population[T]) {
		p.logger = logger
	}
}

// NewPopulation fills a population with the first size chromosomes produced
// by gen.
func NewPopulation[T Chromosome, L any](gen Generator[T, L], size, head, genes int, linker L, opts ...PopulationOption[T]) (*Population[T], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrEmptyPopulation, size)
	}

	population := make([]T, 0, size)
	for c := range gen.Generate(head, genes, linker) {
		population = append(population, c)
		if len(population) == size {
			break
		}
	}

	switch {
	case len(population) == 0:
		return nil, fmt.Errorf("%w: generator produced no chromosomes", ErrEmptyPopulation)
	case len(population) < size:
		return nil, fmt.Errorf("%w: %d of %d", ErrShortPopulation, len(population), size)
	}

	p := &Population[T]{
		population: population,
		nextPop:    make([]T, size),
		age:        1,
		selector:   UniformSelector[T]{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return p, nil
}

// Age is the generation number, starting at 1
func (p *Population[T]) Age() int  { return p.age }
func (p *Population[T]) Size() int { return len(p.population) }
func (p *Population[T]) Len() int  { return len(p.population) }

func (p *Population[T]) At(i int) T {
	return p.population[i]
}

func (p *Population[T]) All() iter.Seq2[int, T] {
	return slices.All(p.population)
}

// Best returns the fittest chromosome of the current generation. Ties go to
// the first one found.
func (p *Population[T]) Best() T {
	best := p.population[0]
	bestFit := best.Fitness()
	for _, c := range p.population[1:] {
		if fit := c.Fitness(); fit > bestFit {
			best, bestFit = c, fit
		}
	}
	return best
}

// Cycle replaces the population with the next generation: the best
// chromosome survives as is, every other slot is filled by the selector.
func (p *Population[T]) Cycle() {
	elite := p.Best()

	// Copy the best individual via simple elitism
	p.nextPop[0] = elite
	for i := 1; i < len(p.nextPop); i++ {
		p.nextPop[i] = p.selector.Select(p.population, p.rng)
	}

	// Switch to the next generation
	p.population, p.nextPop = p.nextPop, p.population
	p.age++

	fitness := elite.Fitness()
	generationsTotal.Inc()
	bestFitness.Set(fitness)
	p.logger.Debug("cycled population", "age", p.age, "elite_fitness", fitness)
}

// Solve cycles through at most generations generations, stopping early once
// the best chromosome reports itself solved. Chromosomes not implementing
// Solvable never stop the run early. A negative budget cycles until solved.
func (p *Population[T]) Solve(generations int) (T, bool) {
	for i := 0; ; i++ {
		best := p.Best()
		if s, ok := any(best).(Solvable); ok && s.Solved() {
			p.logger.Info("solved", "age", p.age, "fitness", best.Fitness(), "chromosome", best.String())
			return best, true
		}
		if i == generations {
			return best, false
		}
		p.Cycle()
	}
}

// String renders a digit ruler over the chromosomes, one per line
func (p *Population[T]) String() string {
	const digits = "0123456789"

	width := p.population[0].Len()
	header := strings.Repeat(digits, width/len(digits)) + digits[:width%len(digits)]

	lines := make([]string, 0, len(p.population)+2)
	lines = append(lines, header, strings.Repeat("-", width))
	for _, c := range p.population {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}
