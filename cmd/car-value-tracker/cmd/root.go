// Package cmd implements the CLI commands for the car-value-tracker server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "car-value-tracker",
	Short: "Score used car listings by cost per remaining mile",
	Long: "An API-first service that stores used car listings, scores them by " +
		"price per estimated remaining lifetime mile with optional fuel-cost " +
		"adjustment, and manages named saved lists with import/export.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
