package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/prefrank/judgment"
)

func judgeCmd() *cobra.Command {
	var project, dim, itemA, itemB, outcome, strength string

	cmd := &cobra.Command{
		Use:   "judge",
		Short: "Record a pairwise judgment",
		Long: `Submits one judgment between two items along a dimension and applies the
Bradley-Terry update. --outcome is one of a_wins, b_wins, tie. --strength,
if given, switches the project/dimension into graded mode: one of
a_much, a, equal, b, b_much.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := statePath(cmd)
			if err != nil {
				return err
			}

			d := judgment.Dimension(dim)
			if !d.Valid() {
				return fmt.Errorf("--dimension must be complexity or value, got %q", dim)
			}

			o, err := parseOutcome(outcome)
			if err != nil {
				return err
			}

			var strengthPtr *judgment.GradeLevel
			if strength != "" {
				g, err := parseGradeLevel(strength)
				if err != nil {
					return err
				}
				strengthPtr = &g
				if g.Outcome() != o {
					return fmt.Errorf("--strength %q does not agree with --outcome %q", strength, outcome)
				}
			}

			store, err := loadStore(path)
			if err != nil {
				return err
			}
			eng, err := newEngine(store)
			if err != nil {
				return err
			}

			res, err := eng.SubmitJudgment(project, d, itemA, itemB, o, strengthPtr)
			if err != nil {
				return err
			}

			if err := saveStore(path, store); err != nil {
				return err
			}

			fmt.Printf("judgment %s recorded: %s mu=%.3f sigma=%.3f, %s mu=%.3f sigma=%.3f (cycles=%d)\n",
				res.JudgmentID,
				itemA, res.WinnerPost.Mu, res.WinnerPost.Sigma,
				itemB, res.LoserPost.Mu, res.LoserPost.Sigma,
				res.Stats.CycleCount,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project identifier")
	cmd.Flags().StringVar(&dim, "dimension", "", "complexity or value")
	cmd.Flags().StringVar(&itemA, "item-a", "", "first item")
	cmd.Flags().StringVar(&itemB, "item-b", "", "second item")
	cmd.Flags().StringVar(&outcome, "outcome", "", "a_wins, b_wins, or tie")
	cmd.Flags().StringVar(&strength, "strength", "", "a_much, a, equal, b, or b_much (graded mode)")
	return cmd
}

func parseOutcome(s string) (judgment.Outcome, error) {
	switch s {
	case "a_wins":
		return judgment.AWins, nil
	case "b_wins":
		return judgment.BWins, nil
	case "tie":
		return judgment.Tie, nil
	default:
		return "", fmt.Errorf("--outcome must be a_wins, b_wins, or tie, got %q", s)
	}
}

func parseGradeLevel(s string) (judgment.GradeLevel, error) {
	g := judgment.GradeLevel(toUpperGrade(s))
	if !g.Valid() {
		return "", fmt.Errorf("--strength must be one of a_much, a, equal, b, b_much, got %q", s)
	}
	return g, nil
}

func toUpperGrade(s string) string {
	switch s {
	case "a_much":
		return string(judgment.AMuch)
	case "a":
		return string(judgment.A)
	case "equal":
		return string(judgment.Equal)
	case "b":
		return string(judgment.B)
	case "b_much":
		return string(judgment.BMuch)
	default:
		return s
	}
}
