package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopeengine/core"
)

var resetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "drop a component's latest version, or delete it entirely if it has only one (spec.md §4.4.4)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := scope.ParseBitId(args[0])
		if err != nil {
			return err
		}
		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.Reset(context.Background(), id)
		if err != nil {
			return err
		}
		if result.ComponentDeleted {
			fmt.Printf("%s deleted\n", id)
			return nil
		}
		fmt.Printf("%s dropped version %s\n", id, result.DroppedVersion)
		return nil
	},
}
