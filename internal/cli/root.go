// Package cli implements the cubetrainer command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetrainer",
	Short: "Speedcubing timer and CFOP trainer",
	Long: `cubetrainer - a terminal speedcubing timer with WCA-style inspection,
random-move scrambles, rolling averages, and CFOP algorithm flashcards.

Start timing with 'cubetrainer timer'. Solves are stored locally and can be
exported as JSON or CSV. A GoCube smart cube can mirror the timer on its
backlight, and a local websocket feed can drive an external display.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.gocube_trainer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.gocube_trainer/trainer.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
