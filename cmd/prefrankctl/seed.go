package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var project string
	var items []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Register items for a project",
		Long:  `Adds one or more items to a project's item set. Existing items are left untouched; seeding is additive and idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := statePath(cmd)
			if err != nil {
				return err
			}
			if project == "" {
				return fmt.Errorf("--project is required")
			}
			if len(items) == 0 {
				return fmt.Errorf("--item must be given at least once")
			}

			store, err := loadStore(path)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := store.AddItem(project, it); err != nil {
					return err
				}
			}
			if err := saveStore(path, store); err != nil {
				return err
			}

			registered, err := store.Items(project)
			if err != nil {
				return err
			}
			fmt.Printf("project %q now has %d item(s) registered\n", project, len(registered))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project identifier")
	cmd.Flags().StringArrayVar(&items, "item", nil, "item identifier (repeatable)")
	return cmd
}
