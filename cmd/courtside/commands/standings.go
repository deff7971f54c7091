package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/service"
)

var standingsSeason int

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Compute and show a season's standings from stored games",
	Long: `Recomputes the season's standings from the games in the database and
prints them best record first. The standings reflect only the games you
have scraped; a partially scraped season gives partial standings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if standingsSeason == 0 {
			return fmt.Errorf("provide --season (the ending year, e.g. 2024)")
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		standings, err := service.NewStandingsService(db).Recompute(cmd.Context(), standingsSeason)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s %-5s %3s %3s %6s %6s\n", "RANK", "TEAM", "W", "L", "PCT", "DIFF")
		for i, s := range standings {
			fmt.Printf("%-4d %-5s %3d %3d %6.3f %+6d\n",
				i+1, s.Team, s.Wins, s.Losses, s.WinPct, s.PointDiff)
		}

		return nil
	},
}

func init() {
	standingsCmd.Flags().IntVar(&standingsSeason, "season", 0, "season by ending year (e.g. 2024)")
	rootCmd.AddCommand(standingsCmd)
}
