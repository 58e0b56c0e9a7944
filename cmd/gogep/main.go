package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := DefaultConfig()
	configPath := ""
	verbose := false

	cmd := &cobra.Command{
		Use:          "gogep",
		Short:        "Search for an expression fitting a dataset with gene expression programming",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})).
				With("run_id", uuid.NewString())

			return run(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML file to read settings from. Flags given explicitly take precedence")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every generation")

	flags.StringVar(&cfg.Target, "target", cfg.Target, "Expression to search for, sampled over --variable")
	flags.StringVar(&cfg.Variable, "variable", cfg.Variable, "Name of the variable the target is sampled over")
	flags.Float64Var(&cfg.From, "from", cfg.From, "First sample of the variable")
	flags.Float64Var(&cfg.To, "to", cfg.To, "Last sample of the variable")
	flags.Float64Var(&cfg.Step, "step", cfg.Step, "Distance between samples")
	flags.StringVar(&cfg.Dataset, "dataset", cfg.Dataset, "YAML dataset to fit instead of sampling --target")

	flags.IntVar(&cfg.PopulationSize, "population-size", cfg.PopulationSize, "Number of chromosomes in the population")
	flags.IntVar(&cfg.HeadLength, "head", cfg.HeadLength, "Head length of each gene")
	flags.IntVar(&cfg.Genes, "genes", cfg.Genes, "Number of genes in each chromosome, summed together")
	flags.IntVar(&cfg.Generations, "generations", cfg.Generations, "Maximum number of generations to run")
	flags.Float64Var(&cfg.MutationRate, "mutation-rate", cfg.MutationRate, "Probability each allele of a selected chromosome is replaced")
	flags.IntVar(&cfg.Tournament, "tournament", cfg.Tournament, "Number of chromosomes competing for each non-elite slot. 1 selects uniformly")
	flags.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Number of contexts each gene remembers evaluations for. Raised to the number of cases when smaller")
	flags.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "Mean absolute error at which a chromosome counts as a solution")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed. 0 picks one from the clock")

	flags.IntVar(&cfg.ReportEvery, "report-every", cfg.ReportEvery, "Generations between progress lines")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to serve Prometheus metrics on, e.g. :9090")

	return cmd
}

// applyConfigFile loads path into cfg, then re-applies the flags given on the
// command line so that they win over the file.
func applyConfigFile(flags *pflag.FlagSet, path string, cfg *Config) error {
	explicit := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := LoadConfig(path, cfg); err != nil {
		return err
	}

	for name, value := range explicit {
		if err := flags.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
