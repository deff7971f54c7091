package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/scrape/bref"
	"github.com/fortuna/courtside/internal/store/repository"
)

var rostersSeason int

var rostersCmd = &cobra.Command{
	Use:   "rosters",
	Short: "Scrape team rosters to fill in player bios",
	Long: `Fetches the roster page for every team in the database and upserts each
player's position, height, weight, and birth date. Box scores alone only
yield names and slugs; this backfills the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rostersSeason == 0 {
			return fmt.Errorf("provide --season (the ending year, e.g. 2024)")
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		fetcher, cleanup, err := newFetcher()
		if err != nil {
			return err
		}
		defer cleanup()

		teams, err := repository.NewTeamRepository(db).GetAll(cmd.Context())
		if err != nil {
			return err
		}

		ingester := bref.NewIngester(fetcher, db, logger)
		total := 0
		for _, team := range teams {
			n, err := ingester.IngestRoster(cmd.Context(), team.Abbreviation, rostersSeason)
			if err != nil {
				logger.Error().Str("team", team.Abbreviation).Err(err).Msg("roster failed")
				continue
			}
			total += n
			fmt.Printf("%s: %d players\n", team.Abbreviation, n)
		}

		fmt.Printf("Updated %d players across %d teams\n", total, len(teams))
		return nil
	},
}

func init() {
	rostersCmd.Flags().IntVar(&rostersSeason, "season", 0, "season by ending year (e.g. 2024)")
	rootCmd.AddCommand(rostersCmd)
}
