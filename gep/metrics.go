package gep

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// generationsTotal counts population cycles across all populations
	generationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gep_generations_total",
		Help: "Total number of generations cycled",
	})

	// bestFitness tracks the fitness of the elite carried over by the last cycle
	bestFitness = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gep_best_fitness",
		Help: "Fitness of the best chromosome of the last cycled generation",
	})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gep_gene_cache_hits_total",
		Help: "Gene evaluations answered from the memo cache",
	})

	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gep_gene_cache_misses_total",
		Help: "Gene evaluations not found in the memo cache",
	})
)

// RegisterMetrics registers the package collectors with reg. Registering
// twice with the same registry is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{generationsTotal, bestFitness, cacheHits, cacheMisses} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
