package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopeengine/core/engine"
)

var (
	putMessage      string
	putExactVersion string
	putReleaseType  string
	putForce        bool
)

var putCmd = &cobra.Command{
	Use:   "put <box/name>...",
	Short: "ingest one or more working-copy components (spec.md §4.4.1)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		comps := make([]engine.ConsumerComponent, 0, len(args))
		for _, a := range args {
			box, name, err := splitBoxName(a)
			if err != nil {
				return err
			}
			c, err := loadDirComponent(s.WorkingDir, box, name)
			if err != nil {
				return fmt.Errorf("scopectl: load %s: %w", a, err)
			}
			comps = append(comps, c)
		}

		updated, err := s.PutMany(context.Background(), comps, putMessage, putExactVersion, putReleaseType, putForce, verbose)
		if err != nil {
			return err
		}
		for _, c := range updated {
			fmt.Println(c.Id().String())
		}
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&putMessage, "message", "", "commit message")
	putCmd.Flags().StringVar(&putExactVersion, "exact-version", "", "pin the new version instead of bumping")
	putCmd.Flags().StringVar(&putReleaseType, "release-type", "patch", "major|minor|patch")
	putCmd.Flags().BoolVar(&putForce, "force", false, "skip spec failures instead of aborting")
}
