package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/store"
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

func testGame(gameID string) *store.Game {
	return &store.Game{
		GameID:    gameID,
		GameDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Season:    2024,
		HomeTeam:  "DEN",
		AwayTeam:  "LAL",
		HomeScore: 114,
		AwayScore: 106,
		HomeWon:   true,
		Status:    "final",
	}
}

func TestTeamSeedData(t *testing.T) {
	db := newTestDB(t)
	repo := NewTeamRepository(db)

	teams, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 30)

	bos, err := repo.GetByAbbreviation(context.Background(), "BOS")
	require.NoError(t, err)
	require.Equal(t, "Boston Celtics", bos.Name)
	require.Equal(t, "East", bos.Conference.String)
}

func TestTeamUpsertIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := &store.Team{Abbreviation: "SEA", Name: "Seattle SuperSonics"}
	require.NoError(t, repo.Upsert(ctx, team))
	require.NoError(t, repo.Upsert(ctx, team))

	teams, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 31)
}

func TestGameUpsertUpdatesOnlyResults(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)
	ctx := context.Background()

	game := testGame("202401150DEN")
	require.NoError(t, repo.Upsert(ctx, game))

	// A corrected re-scrape changes the score but not the matchup.
	rescrape := testGame("202401150DEN")
	rescrape.HomeScore = 115
	rescrape.HomeTeam = "BOS" // must be ignored
	require.NoError(t, repo.Upsert(ctx, rescrape))

	stored, err := repo.GetByGameID(ctx, "202401150DEN")
	require.NoError(t, err)
	require.Equal(t, 115, stored.HomeScore)
	require.Equal(t, "DEN", stored.HomeTeam)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestGameRejectsUnknownTeam(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)

	game := testGame("202401150XXX")
	game.HomeTeam = "XXX"

	err := repo.Upsert(context.Background(), game)
	require.Error(t, err)
}

func TestGameQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGameRepository(db)
	ctx := context.Background()

	g1 := testGame("202401150DEN")
	g2 := testGame("202311010DEN")
	g2.GameDate = time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	g3 := testGame("202301100DEN")
	g3.GameDate = time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	g3.Season = 2023

	for _, g := range []*store.Game{g1, g2, g3} {
		require.NoError(t, repo.Upsert(ctx, g))
	}

	season2024, err := repo.GetBySeason(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, season2024, 2)
	require.Equal(t, "202311010DEN", season2024[0].GameID)

	seasons, err := repo.Seasons(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{2023, 2024}, seasons)

	earliest, latest, ok, err := repo.DateRange(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, g3.GameDate.Equal(earliest))
	require.True(t, g1.GameDate.Equal(latest))

	nov, err := repo.GetByDateRange(ctx,
		time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 11, 30, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, nov, 1)
	require.Equal(t, "202311010DEN", nov[0].GameID)
}

func TestPlayerStatsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	games := NewGameRepository(db)
	stats := NewStatsRepository(db)
	ctx := context.Background()

	require.NoError(t, games.Upsert(ctx, testGame("202401150DEN")))

	line := &store.PlayerGameStats{
		GameID:     "202401150DEN",
		Team:       "DEN",
		PlayerName: "Nikola Jokic",
		MP:         "36:42",
		PTS:        26,
		TRB:        12,
		AST:        10,
		TSPct:      sql.NullFloat64{Float64: 0.645, Valid: true},
	}
	require.NoError(t, stats.InsertPlayerStats(ctx, line))

	// Re-scraping the same game must not duplicate or overwrite the line.
	dup := *line
	dup.PTS = 99
	require.NoError(t, stats.InsertPlayerStats(ctx, &dup))

	lines, err := stats.GetPlayerStatsByGame(ctx, "202401150DEN")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 26, lines[0].PTS)
	require.True(t, lines[0].TSPct.Valid)
	require.InDelta(t, 0.645, lines[0].TSPct.Float64, 0.0001)
}

func TestPlayerStatsRequireGame(t *testing.T) {
	db := newTestDB(t)
	stats := NewStatsRepository(db)

	line := &store.PlayerGameStats{
		GameID:     "202401150DEN",
		Team:       "DEN",
		PlayerName: "Nikola Jokic",
		MP:         "36:42",
	}

	err := stats.InsertPlayerStats(context.Background(), line)
	require.Error(t, err)
}

func TestTeamStatsAndOfficialsIdempotent(t *testing.T) {
	db := newTestDB(t)
	games := NewGameRepository(db)
	stats := NewStatsRepository(db)
	ctx := context.Background()

	require.NoError(t, games.Upsert(ctx, testGame("202401150DEN")))

	totals := &store.TeamGameStats{GameID: "202401150DEN", Team: "DEN", IsHome: true, PTS: 114}
	require.NoError(t, stats.InsertTeamStats(ctx, totals))
	require.NoError(t, stats.InsertTeamStats(ctx, totals))

	count, err := stats.CountTeamStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	official := &store.GameOfficial{GameID: "202401150DEN", OfficialName: "Scott Foster", Position: 1}
	require.NoError(t, stats.InsertOfficial(ctx, official))
	require.NoError(t, stats.InsertOfficial(ctx, official))

	var officials int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM game_officials").Scan(&officials))
	require.Equal(t, 1, officials)
}

func TestPlayerUpsertBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)
	ctx := context.Background()

	player := &store.Player{
		Slug: sql.NullString{String: "jokicni01", Valid: true},
		Name: "Nikola Jokic",
	}
	require.NoError(t, repo.Upsert(ctx, player))

	update := &store.Player{
		Slug:     sql.NullString{String: "jokicni01", Valid: true},
		Name:     "Nikola Jokic",
		Position: sql.NullString{String: "C", Valid: true},
	}
	require.NoError(t, repo.Upsert(ctx, update))

	stored, err := repo.GetBySlug(ctx, "jokicni01")
	require.NoError(t, err)
	require.Equal(t, "C", stored.Position.String)

	matches, err := repo.SearchByName(ctx, "Jokic")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestPlayerUpsertByNameFallback(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)
	ctx := context.Background()

	player := &store.Player{Name: "Lou Amundson"}
	require.NoError(t, repo.Upsert(ctx, player))
	require.NoError(t, repo.Upsert(ctx, player))

	matches, err := repo.SearchByName(ctx, "Amundson")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestStandingUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewStandingRepository(db)
	ctx := context.Background()

	s := &store.Standing{Team: "DEN", Season: 2024, Wins: 40, Losses: 20, WinPct: 0.667}
	require.NoError(t, repo.Upsert(ctx, s))

	s.Wins = 41
	s.WinPct = 0.672
	require.NoError(t, repo.Upsert(ctx, s))

	standings, err := repo.GetBySeason(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	require.Equal(t, 41, standings[0].Wins)
}

func TestCheckpointRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckpointRepository(db)
	ctx := context.Background()

	last, err := repo.Get(ctx, "season:2024")
	require.NoError(t, err)
	require.Empty(t, last)

	require.NoError(t, repo.Put(ctx, "season:2024", "202401150DEN"))
	require.NoError(t, repo.Put(ctx, "season:2024", "202401160BOS"))

	last, err = repo.Get(ctx, "season:2024")
	require.NoError(t, err)
	require.Equal(t, "202401160BOS", last)

	require.NoError(t, repo.Clear(ctx, "season:2024"))
	last, err = repo.Get(ctx, "season:2024")
	require.NoError(t, err)
	require.Empty(t, last)
}
