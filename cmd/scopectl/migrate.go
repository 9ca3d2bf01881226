package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply the schema migration manifest if the scope's recorded version trails the binary's (spec.md §4.4.6)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.Migrate(context.Background(), verbose)
		if err != nil {
			return err
		}
		fmt.Printf("run=%v success=%v\n", result.Run, result.Success)
		return nil
	},
}
