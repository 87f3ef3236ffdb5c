package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
	"github.com/katalvlaran/prefrank/store/memstore"
)

type rankedItem struct {
	Item string
	posterior.Posterior
}

func rankCmd() *cobra.Command {
	var project, dim string
	var all bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the current ranking for a dimension",
		Long: `Sorts a project's items by posterior mean, descending, for one dimension.
With --all, ranks both complexity and value concurrently and prints both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := statePath(cmd)
			if err != nil {
				return err
			}
			if project == "" {
				return fmt.Errorf("--project is required")
			}

			store, err := loadStore(path)
			if err != nil {
				return err
			}

			dims := []judgment.Dimension{judgment.Dimension(dim)}
			if all {
				dims = []judgment.Dimension{judgment.Complexity, judgment.Value}
			} else if !dims[0].Valid() {
				return fmt.Errorf("--dimension must be complexity or value, got %q", dim)
			}

			rankings := make([][]rankedItem, len(dims))

			g := new(errgroup.Group)
			for i, d := range dims {
				i, d := i, d
				g.Go(func() error {
					ranked, err := rankDimension(store, project, d)
					if err != nil {
						return err
					}
					rankings[i] = ranked
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, d := range dims {
				fmt.Printf("=== %s ===\n", d)
				for pos, r := range rankings[i] {
					fmt.Printf("%2d. %-20s mu=%.3f sigma=%.3f\n", pos+1, r.Item, r.Mu, r.Sigma)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project identifier")
	cmd.Flags().StringVar(&dim, "dimension", "", "complexity or value")
	cmd.Flags().BoolVar(&all, "all", false, "rank both dimensions concurrently")
	return cmd
}

func rankDimension(store *memstore.Store, project string, dim judgment.Dimension) ([]rankedItem, error) {
	items, err := store.Items(project)
	if err != nil {
		return nil, err
	}

	ranked := make([]rankedItem, 0, len(items))
	for _, it := range items {
		p, err := store.Get(project, it, string(dim))
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedItem{Item: it, Posterior: p})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Mu > ranked[j].Mu })
	return ranked, nil
}
