package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importWithEnvironments bool
	importUseCache         bool
	importPersist          bool
	importHeadsOnly        bool
)

var importCmd = &cobra.Command{
	Use:   "import <id>...",
	Short: "materialize one or more ids locally (spec.md §4.4.2)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIds(args)
		if err != nil {
			return err
		}
		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		if importHeadsOnly {
			heads, err := s.ImportManyHeads(ctx, ids, importUseCache)
			if err != nil {
				return err
			}
			for _, h := range heads {
				fmt.Println(h.Id.String())
			}
			return nil
		}

		resolved, err := s.ImportMany(ctx, ids, importWithEnvironments, importUseCache, importPersist)
		if err != nil {
			return err
		}
		for _, r := range resolved {
			fmt.Println(r.Id.String())
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importWithEnvironments, "with-environments", false, "also load each component's environment")
	importCmd.Flags().BoolVar(&importUseCache, "cache", true, "allow the sourcescache to satisfy a remote fetch")
	importCmd.Flags().BoolVar(&importPersist, "persist", true, "persist materialized objects locally")
	importCmd.Flags().BoolVar(&importHeadsOnly, "heads-only", false, "resolve head versions without flattened-dependency recursion")
}
