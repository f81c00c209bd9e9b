package cli

import (
	"github.com/layer-3/jumper/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the Postgres wallet schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.Migrate(cfg.DatabaseURL, args[0])
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
