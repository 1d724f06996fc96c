// Package cli implements the Bitewise command-line interface using Cobra.
// Each subcommand maps to one daemon capability (serve, log, seed, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bitewise",
	Short: "Bitewise — Calorie tracking with achievements",
	Long: `Bitewise is the backend for the Bitewise calorie-tracking app.
Log meals, close out days, and earn achievements for healthy habits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
