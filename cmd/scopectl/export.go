package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportRemote string

var exportCmd = &cobra.Command{
	Use:   "export <box/name>...",
	Short: "publish local components to a named remote (spec.md §4.4.3)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIds(args)
		if err != nil {
			return err
		}
		if exportRemote == "" {
			return fmt.Errorf("scopectl: export requires --remote")
		}

		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		exported, err := s.ExportMany(context.Background(), ids, exportRemote)
		if err != nil {
			return err
		}
		for _, id := range exported {
			fmt.Println(id.String())
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRemote, "remote", "", "destination remote name")
}
