package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "remove one or more components (spec.md §4.4.4)",
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

		result, err := s.RemoveMany(context.Background(), ids, removeForce)
		if err != nil {
			return err
		}
		if len(result.Dependents) > 0 {
			for candidate, dependents := range result.Dependents {
				fmt.Printf("%s is depended on by:\n", candidate)
				for _, d := range dependents {
					fmt.Printf("  %s\n", d.String())
				}
			}
			return fmt.Errorf("scopectl: remove blocked by dependents; pass --force to remove anyway")
		}
		for _, id := range result.Removed {
			fmt.Println(id.String())
		}
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "remove even if other local components depend on the candidate")
}
