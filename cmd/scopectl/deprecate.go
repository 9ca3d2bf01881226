package main

import (
	"context"

	"github.com/spf13/cobra"
)

var deprecateCmd = &cobra.Command{
	Use:   "deprecate <id>...",
	Short: "mark one or more components deprecated",
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

		return s.DeprecateMany(context.Background(), ids)
	},
}
