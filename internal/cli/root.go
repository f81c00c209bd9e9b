// Package cli implements the jumper command line.
package cli

import (
	"fmt"
	"os"

	"github.com/layer-3/jumper/internal/config"
	"github.com/layer-3/jumper/internal/logging"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "jumper",
	Short:         "Wallet sign-in and ERC-20 balance backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(os.Stderr, cfg.LogLevel, cfg.IsProduction())
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
