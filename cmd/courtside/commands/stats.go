package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize what the database currently holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := service.NewStatsService(db).Summary(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Games:             %d\n", summary.Games)
		fmt.Printf("Teams:             %d\n", summary.Teams)
		fmt.Printf("Players:           %d\n", summary.Players)
		fmt.Printf("Player stat lines: %d\n", summary.PlayerStatLines)
		fmt.Printf("Team stat lines:   %d\n", summary.TeamStatLines)

		if !summary.HasGames {
			fmt.Println("\nNo games stored yet. Run 'courtside scrape' or 'courtside process'.")
			return nil
		}

		seasons := make([]string, len(summary.Seasons))
		for i, s := range summary.Seasons {
			seasons[i] = fmt.Sprintf("%d", s)
		}
		fmt.Printf("Seasons:           %s\n", strings.Join(seasons, ", "))
		fmt.Printf("Date range:        %s to %s\n",
			summary.EarliestGame.Format("2006-01-02"),
			summary.LatestGame.Format("2006-01-02"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
