package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	bumpCommitted string
	bumpPersist   bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump <box/name>...",
	Short: "cascade a just-committed version bump into dependents (spec.md §4.4.5)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := parseIds(args)
		if err != nil {
			return err
		}
		if bumpCommitted == "" {
			return fmt.Errorf("scopectl: bump requires --committed <id>[,<id>...]")
		}
		justCommitted, err := parseIds(strings.Split(bumpCommitted, ","))
		if err != nil {
			return err
		}

		s, err := openScope()
		if err != nil {
			return err
		}
		defer s.Close()

		updates, err := s.BumpDependenciesVersions(context.Background(), candidates, justCommitted, bumpPersist)
		if err != nil {
			return err
		}
		for _, u := range updates {
			if u.Updated != nil {
				fmt.Printf("%s -> %s\n", u.Candidate.Key(), u.Updated.Id().String())
			} else {
				fmt.Printf("%s pending bump from %s\n", u.Candidate.Key(), u.DependsOn.String())
			}
		}
		return nil
	},
}

func init() {
	bumpCmd.Flags().StringVar(&bumpCommitted, "committed", "", "comma-separated just-committed ids")
	bumpCmd.Flags().BoolVar(&bumpPersist, "persist", false, "stage and persist the cascaded bump instead of only reporting it")
}
