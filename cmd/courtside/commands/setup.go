package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the database schema and seed the 30 NBA teams",
	Long: `Creates the SQLite database file, applies all schema migrations, and
seeds the current NBA teams. Safe to run repeatedly; migrations already
applied are skipped and existing teams are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			return err
		}
		logger.Info().Msg("migrations applied")

		if err := db.SeedData(); err != nil {
			return err
		}
		logger.Info().Str("db", cfg.DatabasePath).Msg("database ready")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
