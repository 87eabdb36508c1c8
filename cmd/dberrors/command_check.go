package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shibukawa/dberrors/corpus"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Files []string `arg:"" optional:"" help:"Corpus files (default: fixtures from config)" type:"existingfile"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, normalizer, registry, err := ctx.setup()
	if err != nil {
		return err
	}

	files := cmd.Files
	if len(files) == 0 {
		files = config.Fixtures
	}

	if len(files) == 0 {
		return ErrNoFixtures
	}

	cases, err := corpus.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	results := corpus.Run(normalizer, cases)
	failed := corpus.Failed(results)

	if !ctx.Quiet {
		printResults(ctx.Stdout, results, ctx.Verbose)

		if ctx.Verbose && config.Metrics.Enabled {
			if err := printMetrics(ctx.Stdout, registry); err != nil {
				return err
			}
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCorpusMismatch, len(failed), len(results))
	}

	return nil
}

func printResults(w io.Writer, results []corpus.Result, verbose bool) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)

	var failed int

	for _, r := range results {
		if r.OK() {
			if verbose {
				pass.Fprintf(w, "PASS ")
				fmt.Fprintf(w, "%s\n", r.Case.Name)
			}

			continue
		}

		failed++

		fail.Fprintf(w, "FAIL ")
		fmt.Fprintf(w, "%s (%s)\n", r.Case.Name, r.Case.Source())

		for _, mismatch := range r.Mismatches {
			fmt.Fprintf(w, "    %s\n", mismatch)
		}
	}

	summary := fmt.Sprintf("%d cases, %d passed, %d failed\n", len(results), len(results)-failed, failed)
	if failed > 0 {
		fail.Fprint(w, summary)
		return
	}

	pass.Fprint(w, summary)
}

func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetName()+"="+label.GetValue())
			}

			fmt.Fprintf(w, "%s{%s} %v\n", family.GetName(), strings.Join(labels, ","), metric.GetCounter().GetValue())
		}
	}

	return nil
}
