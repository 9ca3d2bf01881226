package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopeengine/core/config"
	"github.com/scopeengine/core/engine"
	"github.com/scopeengine/core/version"
)

var (
	initName     string
	initTemplate string
	initDotDir   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize a new scope in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		var cfg *config.Config
		if initTemplate != "" {
			tmpl, err := config.LoadTemplate(initTemplate)
			if err != nil {
				return err
			}
			cfg = tmpl.ToConfig(version.Version)
		} else {
			if initName == "" {
				return fmt.Errorf("scopectl: init requires --name or --template")
			}
			cfg = config.Default(initName)
		}

		s, err := engine.Init(wd, cfg, initDotDir)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("initialized scope %q at %s\n", cfg.Name, s.StorageRoot)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "scope name")
	initCmd.Flags().StringVar(&initTemplate, "template", "", "yaml bootstrap file (see config.Template)")
	initCmd.Flags().BoolVar(&initDotDir, "dot-dir", false, "store objects/scope.json under a hidden .bit subdirectory")
}
