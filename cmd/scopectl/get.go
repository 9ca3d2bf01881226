package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopeengine/core"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "print a size/digest/log summary for one id, without materializing its dependencies",
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

		summary, err := s.Stat(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Printf("id:         %s\n", summary.Id)
		fmt.Printf("ref:        %s\n", summary.Ref)
		fmt.Printf("size:       %d bytes\n", summary.Size)
		fmt.Printf("message:    %s\n", summary.Log.Message)
		fmt.Printf("deprecated: %v\n", summary.Deprecated)
		return nil
	},
}
