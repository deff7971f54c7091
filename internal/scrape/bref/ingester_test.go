package bref

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, path string) (string, error) {
	f.fetched = append(f.fetched, path)
	html, ok := f.pages[path]
	if !ok {
		return "", fmt.Errorf("%w: %s returned 404", ErrPermanent, path)
	}
	return html, nil
}

func newIngesterTestDB(t *testing.T) *store.Database {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.SeedData())

	return db
}

func TestIngestGameStoresEverything(t *testing.T) {
	db := newIngesterTestDB(t)
	fetcher := &fakeFetcher{pages: map[string]string{
		"/boxscores/202401150DEN.html": boxScoreFixture,
	}}
	ingester := NewIngester(fetcher, db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, ingester.IngestGame(ctx, "202401150DEN"))

	games := repository.NewGameRepository(db)
	game, err := games.GetByGameID(ctx, "202401150DEN")
	require.NoError(t, err)
	assert.Equal(t, "DEN", game.HomeTeam)
	assert.Equal(t, "LAL", game.AwayTeam)
	assert.Equal(t, 114, game.HomeScore)
	assert.Equal(t, 106, game.AwayScore)
	assert.True(t, game.HomeWon)
	assert.Equal(t, 2024, game.Season)

	stats := repository.NewStatsRepository(db)
	lines, err := stats.GetPlayerStatsByGame(ctx, "202401150DEN")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	teamLines, err := stats.CountTeamStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, teamLines)

	players := repository.NewPlayerRepository(db)
	jokic, err := players.GetBySlug(ctx, "jokicni01")
	require.NoError(t, err)
	assert.Equal(t, "Nikola Jokic", jokic.Name)
	assert.Equal(t, "DEN", jokic.TeamAbbr.String)

	var officials int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM game_officials").Scan(&officials))
	assert.Equal(t, 2, officials)
}

func TestIngestGameIdempotent(t *testing.T) {
	db := newIngesterTestDB(t)
	fetcher := &fakeFetcher{pages: map[string]string{
		"/boxscores/202401150DEN.html": boxScoreFixture,
	}}
	ingester := NewIngester(fetcher, db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, ingester.IngestGame(ctx, "202401150DEN"))
	require.NoError(t, ingester.IngestGame(ctx, "202401150DEN"))

	games := repository.NewGameRepository(db)
	count, err := games.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats := repository.NewStatsRepository(db)
	playerLines, err := stats.CountPlayerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, playerLines)

	var officials int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM game_officials").Scan(&officials))
	assert.Equal(t, 2, officials)
}

func TestIngestGameMissingPage(t *testing.T) {
	db := newIngesterTestDB(t)
	ingester := NewIngester(&fakeFetcher{pages: map[string]string{}}, db, zerolog.Nop())

	err := ingester.IngestGame(context.Background(), "202401150DEN")
	require.ErrorIs(t, err, ErrPermanent)
}

func TestScrapeSeasonSchedule(t *testing.T) {
	db := newIngesterTestDB(t)
	fetcher := &fakeFetcher{pages: map[string]string{
		// Only one month published; the rest 404 and are skipped.
		"/leagues/NBA_2024_games-october.html": scheduleFixture,
	}}
	ingester := NewIngester(fetcher, db, zerolog.Nop())

	gameIDs, err := ingester.ScrapeSeasonSchedule(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, []string{"202401150DEN", "202401160BOS"}, gameIDs)
	assert.Len(t, fetcher.fetched, 9, "every month is attempted")
}

func TestIngestBoxScoreHTMLBadMarkup(t *testing.T) {
	db := newIngesterTestDB(t)
	ingester := NewIngester(&fakeFetcher{}, db, zerolog.Nop())

	err := ingester.IngestBoxScoreHTML(context.Background(), "<html><body/></html>", "202401150DEN")
	require.ErrorIs(t, err, ErrLayoutChanged)
}
