package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/they4kman/gogep/gep"
	"github.com/they4kman/gogep/internal/regression"
)

var numPrinter = message.NewPrinter(language.English)

// run evolves a population against the configured dataset until a solution
// is found, the generation budget is spent or ctx is done.
func run(ctx context.Context, cfg *Config, out io.Writer, logger *slog.Logger) error {
	data, err := cfg.LoadDataset()
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		stop, err := serveMetrics(cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("starting run", "seed", seed, "cases", len(data.Cases), "variables", data.Variables)

	alphabet := data.Alphabet(gep.ArithmeticFunctions(), cfg.Constants...)
	gen := &regression.Generator{
		Alphabet:  alphabet,
		Data:      data,
		Rand:      rng,
		Tolerance: cfg.Tolerance,
		CacheSize: geneCacheSize(cfg.CacheSize, data, logger),
	}
	selector := &regression.MutatingSelector{
		Alphabet:   alphabet,
		Rate:       cfg.MutationRate,
		Tournament: cfg.Tournament,
	}

	pop, err := gep.NewPopulation[*regression.Chromosome, regression.Linker](gen, cfg.PopulationSize, cfg.HeadLength, cfg.Genes, regression.Sum,
		gep.WithRand[*regression.Chromosome](rng),
		gep.WithSelector[*regression.Chromosome](selector),
		gep.WithLogger[*regression.Chromosome](logger),
	)
	if err != nil {
		return errors.Join(err, gen.Err())
	}

	startedAt := time.Now()
	best, solved := pop.Best(), false
	for remaining := cfg.Generations; ; {
		chunk := min(cfg.ReportEvery, remaining)
		best, solved = pop.Solve(chunk)
		remaining -= chunk

		numPrinter.Fprintf(out, "Generation %d: best fitness %.6f  %s\n", pop.Age(), best.Fitness(), best)

		if solved || remaining <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			logger.Warn("run interrupted", "age", pop.Age(), "error", err)
			break
		}
	}
	elapsed := time.Since(startedAt)

	if solved {
		numPrinter.Fprintf(out, "\nGeneration %d: SOLVED\n", pop.Age())
	} else {
		numPrinter.Fprintf(out, "\nGeneration %d: no solution within tolerance %g\n", pop.Age(), cfg.Tolerance)
	}
	if err := report(out, best, data); err != nil {
		return err
	}

	numPrinter.Fprintf(out, "\nElapsed time: %s\n", elapsed)
	numPrinter.Fprintf(out, "Avg generation runtime: %s\n", elapsed/time.Duration(pop.Age()))
	return nil
}

// geneCacheSize grows the per-gene cache to hold every case. Cases are
// evaluated in the same order each generation, so a smaller LRU evicts each
// context before it is asked for again and never hits.
func geneCacheSize(size int, data *regression.Dataset, logger *slog.Logger) int {
	if n := len(data.Cases); size < n {
		logger.Info("raising gene cache size to the number of cases", "cache_size", size, "cases", n)
		return n
	}
	return size
}

// report prints the value of c for every case next to its target
func report(out io.Writer, c *regression.Chromosome, data *regression.Dataset) error {
	mae, err := c.MeanAbsError()
	if err != nil {
		numPrinter.Fprintf(out, "%s\n  = ERROR: %v\n", c, err)
		return nil
	}

	numPrinter.Fprintf(out, "%s\n  mean absolute error %f\n\n", c, mae)
	for _, sample := range data.Cases {
		for _, name := range data.Variables {
			v, err := sample.Vars.Lookup(name)
			if err != nil {
				return err
			}
			numPrinter.Fprintf(out, "%s=%-10g ", name, v)
		}

		v, err := c.Eval(sample.Vars)
		if err != nil {
			return err
		}
		numPrinter.Fprintf(out, "target %-14g got %g\n", sample.Target, v)
	}
	return nil
}

func serveMetrics(addr string, logger *slog.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := gep.RegisterMetrics(reg); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
