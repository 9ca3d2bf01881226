package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopeengine/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the scopectl and engine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scopectl %s", version.Version)
		if version.Revision != "" {
			fmt.Printf(" (%s)", version.Revision)
		}
		fmt.Println()
	},
}
