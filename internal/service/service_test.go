package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

func newTestDB(t *testing.T) *store.Database {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.SeedData())

	return db
}

func insertGame(t *testing.T, db *store.Database, gameID, home, away string, homeScore, awayScore int, date time.Time) {
	t.Helper()

	games := repository.NewGameRepository(db)
	require.NoError(t, games.Upsert(context.Background(), &store.Game{
		GameID:    gameID,
		GameDate:  date,
		Season:    2024,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		HomeWon:   homeScore > awayScore,
		Status:    "final",
	}))
}

func TestStandingsRecompute(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	insertGame(t, db, "202401010DEN", "DEN", "LAL", 110, 100, day)
	insertGame(t, db, "202401020DEN", "DEN", "BOS", 105, 108, day.AddDate(0, 0, 1))
	insertGame(t, db, "202401030LAL", "LAL", "BOS", 95, 120, day.AddDate(0, 0, 2))

	standings, err := NewStandingsService(db).Recompute(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	// BOS 2-0, DEN 1-1, LAL 0-2.
	assert.Equal(t, "BOS", standings[0].Team)
	assert.Equal(t, 2, standings[0].Wins)
	assert.Equal(t, 0, standings[0].Losses)
	assert.InDelta(t, 1.0, standings[0].WinPct, 0.0001)
	assert.Equal(t, 228, standings[0].PointsFor)
	assert.Equal(t, 200, standings[0].PointsAgainst)
	assert.Equal(t, 28, standings[0].PointDiff)

	assert.Equal(t, "DEN", standings[1].Team)
	assert.Equal(t, 1, standings[1].Wins)
	assert.Equal(t, 1, standings[1].Losses)
	assert.InDelta(t, 0.5, standings[1].WinPct, 0.0001)

	assert.Equal(t, "LAL", standings[2].Team)
	assert.Equal(t, 0, standings[2].Wins)
	assert.Equal(t, 2, standings[2].Losses)

	// Recompute is stable: running it again persists the same rows.
	again, err := NewStandingsService(db).Recompute(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, again, 3)

	stored, err := NewStandingsService(db).Get(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "BOS", stored[0].Team)
}

func TestStandingsRecomputeNoGames(t *testing.T) {
	db := newTestDB(t)

	_, err := NewStandingsService(db).Recompute(context.Background(), 2024)
	require.Error(t, err)
}

func TestStatsSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	summary, err := NewStatsService(db).Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Games)
	assert.Equal(t, 30, summary.Teams)
	assert.False(t, summary.HasGames)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	insertGame(t, db, "202401010DEN", "DEN", "LAL", 110, 100, day)

	stats := repository.NewStatsRepository(db)
	require.NoError(t, stats.InsertPlayerStats(ctx, &store.PlayerGameStats{
		GameID: "202401010DEN", Team: "DEN", PlayerName: "Nikola Jokic", MP: "34:00", PTS: 30,
	}))
	require.NoError(t, stats.InsertTeamStats(ctx, &store.TeamGameStats{
		GameID: "202401010DEN", Team: "DEN", IsHome: true, PTS: 110,
	}))

	summary, err = NewStatsService(db).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Games)
	assert.Equal(t, 1, summary.PlayerStatLines)
	assert.Equal(t, 1, summary.TeamStatLines)
	assert.Equal(t, []int{2024}, summary.Seasons)
	assert.True(t, summary.HasGames)
}

func TestPlayerReport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	insertGame(t, db, "202401010DEN", "DEN", "LAL", 110, 100, day)
	insertGame(t, db, "202401020DEN", "DEN", "BOS", 105, 108, day.AddDate(0, 0, 1))

	players := repository.NewPlayerRepository(db)
	require.NoError(t, players.Upsert(ctx, &store.Player{Name: "Nikola Jokic"}))

	stats := repository.NewStatsRepository(db)
	require.NoError(t, stats.InsertPlayerStats(ctx, &store.PlayerGameStats{
		GameID: "202401010DEN", Team: "DEN", PlayerName: "Nikola Jokic",
		MP: "34:00", PTS: 30, TRB: 10, AST: 8, FG: 12, FGA: 20,
	}))
	require.NoError(t, stats.InsertPlayerStats(ctx, &store.PlayerGameStats{
		GameID: "202401020DEN", Team: "DEN", PlayerName: "Nikola Jokic",
		MP: "36:00", PTS: 20, TRB: 14, AST: 12, FG: 8, FGA: 20,
	}))

	report, err := NewPlayerService(db).Report(ctx, "Nikola Jokic")
	require.NoError(t, err)
	require.Len(t, report.Seasons, 1)

	line := report.Seasons[0]
	assert.Equal(t, 2024, line.Season)
	assert.Equal(t, 2, line.GamesPlayed)
	assert.Equal(t, 50, line.TotalPoints)
	assert.InDelta(t, 25.0, line.PointsPerGame, 0.0001)
	assert.InDelta(t, 12.0, line.ReboundsPerGame, 0.0001)
	assert.InDelta(t, 10.0, line.AssistsPerGame, 0.0001)
	assert.InDelta(t, 0.5, line.FGPct, 0.0001, "percentage from totals, not averaged per game")
}

func TestPlayerReportUnknownPlayer(t *testing.T) {
	db := newTestDB(t)

	_, err := NewPlayerService(db).Report(context.Background(), "Nobody Real")
	require.Error(t, err)
}
