package gep

import (
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Functions", func() {
	DescribeTable("arithmetic",
		func(f *Function[float64], args []float64, expected float64) {
			Expect(f.Arity()).To(Equal(len(args)))

			result, err := f.Apply(args)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("2+3", Add, []float64{2, 3}, 5.0),
		Entry("2-3", Sub, []float64{2, 3}, -1.0),
		Entry("2*3", Mul, []float64{2, 3}, 6.0),
		Entry("6/3", Div, []float64{6, 3}, 2.0),
		Entry("1/0", Div, []float64{1, 0}, 1.0),
		Entry("~4", Neg, []float64{4}, -4.0),
		Entry("max(2, 3)", Max, []float64{2, 3}, 3.0),
		Entry("min(2, 3)", Min, []float64{2, 3}, 2.0),
	)

	It("compiles custom functions", func() {
		hyp, err := NewExprFunction("hyp", "h", "a*a + b*b", "a", "b")
		Expect(err).ToNot(HaveOccurred())
		Expect(hyp.Arity()).To(Equal(2))
		Expect(hyp.Symbol()).To(Equal("h"))

		result, err := hyp.Apply([]float64{3, 4})
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(Equal(25.0))
	})

	It("reports expressions that do not compile", func() {
		_, err := NewExprFunction("broken", "", "a +", "a")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("broken"))
	})

	DescribeTable("agrees with ExprLang",
		func(f *Function[float64], expr string, params ...string) {
			compiled, err := NewExprFunction(f.Name(), "", expr, params...)
			Expect(err).ToNot(HaveOccurred())

			for _, args := range [][]float64{{2, 3}, {-1.5, 0}, {0, 0}, {7, -4}} {
				args = args[:len(params)]
				want, err := compiled.Apply(args)
				Expect(err).ToNot(HaveOccurred())
				Expect(f.Apply(args)).To(Equal(want))
			}
		},
		Entry("add", Add, "a + b", "a", "b"),
		Entry("sub", Sub, "a - b", "a", "b"),
		Entry("mul", Mul, "a * b", "a", "b"),
		Entry("div", Div, "pdiv(a, b)", "a", "b"),
		Entry("neg", Neg, "-a", "a"),
		Entry("max", Max, "max(a, b)", "a", "b"),
		Entry("min", Min, "min(a, b)", "a", "b"),
	)

	It("applies built-ins without allocating", func() {
		args := []float64{6, 3}
		for _, f := range []*Function[float64]{Add, Sub, Mul, Div, Max, Min} {
			allocs := testing.AllocsPerRun(100, func() {
				_, _ = f.Apply(args)
			})
			Expect(allocs).To(BeZero(), f.Name())
		}
	})

	It("falls back to the name for display", func() {
		Expect(Add.Symbol()).To(Equal("+"))
		Expect(Max.Symbol()).To(Equal("max"))
		Expect(Add.String()).To(Equal("add/2"))
	})
})

var _ = Describe("Alphabet", func() {
	var alphabet Alphabet[*Env[float64], float64]

	BeforeEach(func() {
		alphabet = Alphabet[*Env[float64], float64]{
			Functions: ArithmeticFunctions(),
			Terminals: []testAllele{termX, termY, Constant[float64]{Value: 1}},
		}
	})

	It("sizes tails for the largest arity", func() {
		Expect(alphabet.TailLength(7)).To(Equal(8))

		unary := Alphabet[*Env[float64], float64]{Functions: []*Function[float64]{Neg}, Terminals: alphabet.Terminals}
		Expect(unary.TailLength(7)).To(Equal(1))
	})

	It("draws well-formed random genes", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 100; i++ {
			gene, err := alphabet.RandomGene(rng, 5)
			Expect(err).ToNot(HaveOccurred())
			Expect(gene.Len()).To(Equal(11))
			Expect(gene.Head()).To(Equal(5))

			for _, a := range gene.Slice(5, gene.Len()) {
				Expect(a.Arity()).To(BeZero())
			}

			_, err = gene.Call(env(1, 2))
			Expect(err).ToNot(HaveOccurred())
		}
	})

	It("only draws terminals outside the head", func() {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 100; i++ {
			Expect(alphabet.RandomAllele(rng, false).Arity()).To(BeZero())
		}
	})

	It("rejects alphabets without terminals", func() {
		empty := Alphabet[*Env[float64], float64]{Functions: ArithmeticFunctions()}
		_, err := empty.RandomGene(rand.New(rand.NewSource(1)), 3)
		Expect(err).To(MatchError(ErrInvalidParams))
	})

	It("rejects functions posing as terminals", func() {
		alphabet.Terminals = append(alphabet.Terminals, Add)
		Expect(alphabet.Validate()).To(MatchError(ErrInvalidParams))
	})

	It("rejects empty heads", func() {
		_, err := alphabet.RandomGene(rand.New(rand.NewSource(1)), 0)
		Expect(err).To(MatchError(ErrInvalidParams))
	})
})

var _ = Describe("Params", func() {
	It("defaults to valid params", func() {
		Expect(DefaultParams().Validate()).To(Succeed())
	})

	DescribeTable("Validate",
		func(modify func(p *Params)) {
			p := DefaultParams()
			modify(p)
			Expect(p.Validate()).To(MatchError(ErrInvalidParams))
		},
		Entry("empty population", func(p *Params) { p.PopulationSize = 0 }),
		Entry("no head", func(p *Params) { p.HeadLength = 0 }),
		Entry("no genes", func(p *Params) { p.Genes = 0 }),
		Entry("negative generations", func(p *Params) { p.Generations = -1 }),
		Entry("mutation rate above 1", func(p *Params) { p.MutationRate = 1.5 }),
		Entry("no cache", func(p *Params) { p.CacheSize = 0 }),
	)
})
