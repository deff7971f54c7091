package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/service"
)

var (
	playerName   string
	playerSeason int
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Show a player's per-season averages from stored box scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		if playerName == "" {
			return fmt.Errorf("provide --player")
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := service.NewPlayerService(db).Report(cmd.Context(), playerName)
		if err != nil {
			return err
		}

		fmt.Println(report.Player.Name)
		if report.Player.TeamAbbr.Valid {
			fmt.Printf("Team: %s\n", report.Player.TeamAbbr.String)
		}
		if report.Player.Position.Valid {
			fmt.Printf("Position: %s\n", report.Player.Position.String)
		}

		seasons := report.Seasons
		if playerSeason != 0 {
			seasons = seasons[:0:0]
			for _, line := range report.Seasons {
				if line.Season == playerSeason {
					seasons = append(seasons, line)
				}
			}
		}

		if len(seasons) == 0 {
			fmt.Println("\nNo stat lines stored for this player.")
			return nil
		}

		fmt.Printf("\n%-6s %3s %6s %6s %6s %6s %6s %6s\n",
			"SEASON", "GP", "PPG", "RPG", "APG", "FG%", "3P%", "FT%")
		for _, line := range seasons {
			fmt.Printf("%-6d %3d %6.1f %6.1f %6.1f %6.3f %6.3f %6.3f\n",
				line.Season, line.GamesPlayed,
				line.PointsPerGame, line.ReboundsPerGame, line.AssistsPerGame,
				line.FGPct, line.FG3Pct, line.FTPct)
		}

		return nil
	},
}

func init() {
	playerCmd.Flags().StringVar(&playerName, "player", "", "player name to look up")
	playerCmd.Flags().IntVar(&playerSeason, "season", 0, "limit to one season, by ending year")
	rootCmd.AddCommand(playerCmd)
}
