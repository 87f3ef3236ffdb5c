package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/prefrank/judgment"
)

func progressCmd() *cobra.Command {
	var project, dim string
	var targetCertainty float64

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show confidence metrics and the next suggested pair",
		Long: `Reports coverage, consistency, and effective confidence for a project's
dimension, along with whichever pair the active-learning selector would
suggest judging next (or "complete" once nothing remains).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := statePath(cmd)
			if err != nil {
				return err
			}
			d := judgment.Dimension(dim)
			if !d.Valid() {
				return fmt.Errorf("--dimension must be complexity or value, got %q", dim)
			}

			store, err := loadStore(path)
			if err != nil {
				return err
			}
			eng, err := newEngine(store)
			if err != nil {
				return err
			}

			report, err := eng.Progress(project, d, targetCertainty)
			if err != nil {
				return err
			}

			fmt.Printf("direct coverage:      %.1f%%\n", report.DirectCoverage*100)
			fmt.Printf("transitive coverage:  %.1f%%\n", report.TransitiveCoverage*100)
			fmt.Printf("bayesian confidence:  %.1f%%\n", report.BayesianConfidence*100)
			fmt.Printf("consistency:          %.1f%%\n", report.Consistency*100)
			fmt.Printf("effective confidence: %.1f%%\n", report.EffectiveConfidence*100)
			fmt.Printf("theoretical minimum:  %d comparisons\n", report.TheoreticalMinimum)
			fmt.Printf("practical estimate:   %d comparisons\n", report.PracticalEstimate)
			fmt.Printf("comparisons remaining: %d\n", report.ComparisonsRemaining)

			next, err := eng.NextPair(project, d, &targetCertainty)
			if err != nil {
				return err
			}
			if next.Done {
				fmt.Printf("next pair: complete (%s)\n", next.Reason)
			} else {
				fmt.Printf("next pair: %s vs %s (%s)\n", next.ItemA, next.ItemB, next.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project identifier")
	cmd.Flags().StringVar(&dim, "dimension", "", "complexity or value")
	cmd.Flags().Float64Var(&targetCertainty, "target-certainty", 0.95, "coverage fraction that counts as done")
	return cmd
}
