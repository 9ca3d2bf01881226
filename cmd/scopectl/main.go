// Command scopectl is the CLI boundary over the Scope façade (spec.md §6):
// one subcommand per engine operation, a thin cobra tree in the shape of
// the teacher's registry command, with no domain logic of its own.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scopeengine/core/engine"
	"github.com/scopeengine/core/version"
)

var (
	verbose bool
	logger  = logrus.NewEntry(logrus.StandardLogger())
)

// RootCmd is the scopectl entry point.
var RootCmd = &cobra.Command{
	Use:   "scopectl",
	Short: "scopectl",
	Long:  "scopectl drives a scope through put, import, export, and lifecycle operations.",
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	RootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Logger.SetLevel(logrus.DebugLevel)
		}
	}
	RootCmd.AddCommand(
		versionCmd,
		initCmd,
		putCmd,
		importCmd,
		exportCmd,
		deprecateCmd,
		removeCmd,
		resetCmd,
		bumpCmd,
		migrateCmd,
		getCmd,
	)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openScope opens the scope whose root contains the current working
// directory, the way every subcommand but init locates its target.
func openScope() (*engine.Scope, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return engine.Open(wd, engine.WithGlobalRemotes(engine.GlobalRemotesFromEnv(logger)), engine.WithLogger(logger))
}
