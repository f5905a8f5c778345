// Package cli implements the propdown command-line interface.
package cli

import (
	"os"

	"github.com/propdown/propdown/internal/config"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "propdown",
	Short: "Compile propositional writing to HTML",
	Long: `propdown compiles the propositional-writing dialect (an introduction,
a sequence of headline claims with explanations, an optional appendix)
into HTML pages.

A propdown.yaml file in the working directory can supply default
properties (author, date, ...) and a page template.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to propdown.yaml (default: ./propdown.yaml if present)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the effective configuration: environment first, then
// the optional project file underneath.
func loadConfig() (config.Config, error) {
	cfg := config.Load()

	path := configFile
	if path == "" {
		if _, err := os.Stat("propdown.yaml"); err == nil {
			path = "propdown.yaml"
		}
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}
