package bref

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// Fetcher retrieves a basketball-reference page by path. Both the HTTP
// client and the headless browser client satisfy this.
type Fetcher interface {
	FetchPage(ctx context.Context, path string) (string, error)
}

// Ingester fetches pages, parses them, and writes the results. Storing a
// game is idempotent: running the same game twice leaves the database
// unchanged apart from refreshed scores and timestamps.
type Ingester struct {
	fetcher    Fetcher
	games      *repository.GameRepository
	teams      *repository.TeamRepository
	players    *repository.PlayerRepository
	stats      *repository.StatsRepository
	logger     zerolog.Logger
	knownTeams map[string]bool
}

// NewIngester creates an ingester backed by the given fetcher and database
func NewIngester(fetcher Fetcher, db *store.Database, logger zerolog.Logger) *Ingester {
	return &Ingester{
		fetcher:    fetcher,
		games:      repository.NewGameRepository(db),
		teams:      repository.NewTeamRepository(db),
		players:    repository.NewPlayerRepository(db),
		stats:      repository.NewStatsRepository(db),
		logger:     logger.With().Str("component", "ingester").Logger(),
		knownTeams: make(map[string]bool),
	}
}

// IngestGame fetches and stores one game by its identifier
func (i *Ingester) IngestGame(ctx context.Context, gameID string) error {
	path := fmt.Sprintf("/boxscores/%s.html", gameID)

	html, err := i.fetcher.FetchPage(ctx, path)
	if err != nil {
		return fmt.Errorf("fetching game %s: %w", gameID, err)
	}

	return i.IngestBoxScoreHTML(ctx, html, gameID)
}

// IngestBoxScoreHTML parses a box score page and stores every entity it
// contains. Shared by the scraper and the local-file processor.
func (i *Ingester) IngestBoxScoreHTML(ctx context.Context, html, gameID string) error {
	box, err := ParseBoxScore(html, gameID)
	if err != nil {
		return fmt.Errorf("parsing game %s: %w", gameID, err)
	}

	return i.storeBoxScore(ctx, box)
}

func (i *Ingester) storeBoxScore(ctx context.Context, box *BoxScore) error {
	for _, abbr := range []string{box.Home.Team, box.Away.Team} {
		if err := i.ensureTeam(ctx, abbr); err != nil {
			return err
		}
	}

	game := &store.Game{
		GameID:    box.GameID,
		GameDate:  box.GameDate,
		Season:    box.Season,
		HomeTeam:  box.Home.Team,
		AwayTeam:  box.Away.Team,
		HomeScore: box.Home.Score,
		AwayScore: box.Away.Score,
		HomeWon:   box.Home.Score > box.Away.Score,
		Status:    "final",
	}
	if err := i.games.Upsert(ctx, game); err != nil {
		return err
	}

	for _, side := range []struct {
		box    *TeamBox
		isHome bool
	}{
		{&box.Away, false},
		{&box.Home, true},
	} {
		if err := i.storeTeamBox(ctx, box.GameID, side.box, side.isHome); err != nil {
			return err
		}
	}

	for pos, official := range box.Officials {
		o := &store.GameOfficial{
			GameID:       box.GameID,
			OfficialName: official.Name,
			Position:     pos + 1,
		}
		if official.URL != "" {
			o.OfficialURL = sql.NullString{String: official.URL, Valid: true}
		}
		if err := i.stats.InsertOfficial(ctx, o); err != nil {
			return err
		}
	}

	i.logger.Info().
		Str("game_id", box.GameID).
		Str("matchup", fmt.Sprintf("%s @ %s", box.Away.Team, box.Home.Team)).
		Int("away_score", box.Away.Score).
		Int("home_score", box.Home.Score).
		Msg("stored game")

	return nil
}

func (i *Ingester) storeTeamBox(ctx context.Context, gameID string, box *TeamBox, isHome bool) error {
	for _, p := range box.Players {
		player := &store.Player{Name: p.Name}
		if p.Slug != "" {
			player.Slug = sql.NullString{String: p.Slug, Valid: true}
		}
		player.TeamAbbr = sql.NullString{String: box.Team, Valid: true}
		if err := i.players.Upsert(ctx, player); err != nil {
			return err
		}

		line := &store.PlayerGameStats{
			GameID:     gameID,
			Team:       box.Team,
			PlayerName: p.Name,
			MP:         p.MP,
			FG:         p.FG,
			FGA:        p.FGA,
			FGPct:      p.FGPct,
			FG3:        p.FG3,
			FG3A:       p.FG3A,
			FG3Pct:     p.FG3Pct,
			FT:         p.FT,
			FTA:        p.FTA,
			FTPct:      p.FTPct,
			ORB:        p.ORB,
			DRB:        p.DRB,
			TRB:        p.TRB,
			AST:        p.AST,
			STL:        p.STL,
			BLK:        p.BLK,
			TOV:        p.TOV,
			PF:         p.PF,
			PTS:        p.PTS,
			PlusMinus:  p.PlusMinus,
			TSPct:      nullFloat(p.TSPct),
			EFGPct:     nullFloat(p.EFGPct),
			USGPct:     nullFloat(p.USGPct),
			OffRtg:     nullFloat(p.OffRtg),
			DefRtg:     nullFloat(p.DefRtg),
			BPM:        nullFloat(p.BPM),
		}
		if p.Slug != "" {
			line.PlayerSlug = sql.NullString{String: p.Slug, Valid: true}
		}
		if err := i.stats.InsertPlayerStats(ctx, line); err != nil {
			return err
		}
	}

	totals := &store.TeamGameStats{
		GameID: gameID,
		Team:   box.Team,
		IsHome: isHome,
		FG:     box.Totals.FG,
		FGA:    box.Totals.FGA,
		FGPct:  box.Totals.FGPct,
		FG3:    box.Totals.FG3,
		FG3A:   box.Totals.FG3A,
		FG3Pct: box.Totals.FG3Pct,
		FT:     box.Totals.FT,
		FTA:    box.Totals.FTA,
		FTPct:  box.Totals.FTPct,
		ORB:    box.Totals.ORB,
		DRB:    box.Totals.DRB,
		TRB:    box.Totals.TRB,
		AST:    box.Totals.AST,
		STL:    box.Totals.STL,
		BLK:    box.Totals.BLK,
		TOV:    box.Totals.TOV,
		PF:     box.Totals.PF,
		PTS:    box.Totals.PTS,
		TSPct:  nullFloat(box.Totals.TSPct),
		EFGPct: nullFloat(box.Totals.EFGPct),
		TOVPct: nullFloat(box.Totals.TOVPct),
		ORBPct: nullFloat(box.Totals.ORBPct),
		DRBPct: nullFloat(box.Totals.DRBPct),
		OffRtg: nullFloat(box.Totals.OffRtg),
		DefRtg: nullFloat(box.Totals.DefRtg),
	}

	return i.stats.InsertTeamStats(ctx, totals)
}

// ensureTeam inserts a placeholder row for abbreviations the seed data
// doesn't cover, such as relocated franchises on historical pages.
func (i *Ingester) ensureTeam(ctx context.Context, abbr string) error {
	if i.knownTeams[abbr] {
		return nil
	}

	if _, err := i.teams.GetByAbbreviation(ctx, abbr); err != nil {
		team := &store.Team{Abbreviation: abbr, Name: abbr}
		if err := i.teams.Upsert(ctx, team); err != nil {
			return err
		}
		i.logger.Warn().Str("team", abbr).Msg("inserted unseeded team")
	}

	i.knownTeams[abbr] = true
	return nil
}

// ScrapeSeasonSchedule walks a season's monthly schedule pages and returns
// every game ID with a published box score, in chronological order.
// Missing months (lockout seasons, early season pages) are skipped.
func (i *Ingester) ScrapeSeasonSchedule(ctx context.Context, season int) ([]string, error) {
	var gameIDs []string
	seen := make(map[string]bool)

	for _, path := range SchedulePaths(season) {
		html, err := i.fetcher.FetchPage(ctx, path)
		if err != nil {
			if errors.Is(err, ErrPermanent) {
				i.logger.Debug().Str("path", path).Msg("schedule page missing, skipping month")
				continue
			}
			return nil, fmt.Errorf("fetching schedule %s: %w", path, err)
		}

		games, err := ParseSchedule(html)
		if err != nil {
			return nil, fmt.Errorf("parsing schedule %s: %w", path, err)
		}

		for _, g := range games {
			if !seen[g.GameID] {
				seen[g.GameID] = true
				gameIDs = append(gameIDs, g.GameID)
			}
		}
	}

	i.logger.Info().Int("season", season).Int("games", len(gameIDs)).Msg("discovered season schedule")
	return gameIDs, nil
}

// IngestRoster fetches a team's roster page for a season and upserts
// every player on it.
func (i *Ingester) IngestRoster(ctx context.Context, teamAbbr string, season int) (int, error) {
	path := fmt.Sprintf("/teams/%s/%d.html", teamAbbr, season)

	html, err := i.fetcher.FetchPage(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("fetching roster for %s: %w", teamAbbr, err)
	}

	entries, err := ParseRoster(html)
	if err != nil {
		return 0, fmt.Errorf("parsing roster for %s: %w", teamAbbr, err)
	}

	for _, e := range entries {
		player := &store.Player{
			Name:     e.Name,
			TeamAbbr: sql.NullString{String: teamAbbr, Valid: true},
		}
		if e.Slug != "" {
			player.Slug = sql.NullString{String: e.Slug, Valid: true}
		}
		if e.Position != "" {
			player.Position = sql.NullString{String: e.Position, Valid: true}
		}
		if e.Height != "" {
			player.Height = sql.NullString{String: e.Height, Valid: true}
		}
		if e.Weight > 0 {
			player.Weight = sql.NullInt32{Int32: int32(e.Weight), Valid: true}
		}
		if !e.BirthDate.IsZero() {
			player.BirthDate = sql.NullTime{Time: e.BirthDate, Valid: true}
		}

		if err := i.players.Upsert(ctx, player); err != nil {
			return 0, err
		}
	}

	return len(entries), nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
