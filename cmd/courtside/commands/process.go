package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/process"
	"github.com/fortuna/courtside/internal/scrape/bref"
)

var processDir string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Ingest box score HTML files saved on disk",
	Long: `Parses every .html box score file in the given directory and loads it
into the database, without any network access. File names must contain
the basketball-reference game ID (e.g. 202306010DEN.html).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		ingester := bref.NewIngester(nil, db, logger)
		processor := process.NewProcessor(ingester, logger)

		stats, err := processor.Run(cmd.Context(), processDir)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d games (%d failed, %d skipped)\n",
			stats.Processed, stats.Failed, stats.Skipped)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processDir, "dir", "data", "directory of saved box score HTML files")
	rootCmd.AddCommand(processCmd)
}
