package service

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// PlayerSeasonLine is a player's aggregate line for one season.
type PlayerSeasonLine struct {
	Season          int     `json:"season"`
	GamesPlayed     int     `json:"games_played"`
	TotalPoints     int     `json:"total_points"`
	PointsPerGame   float64 `json:"points_per_game"`
	ReboundsPerGame float64 `json:"rebounds_per_game"`
	AssistsPerGame  float64 `json:"assists_per_game"`
	StealsPerGame   float64 `json:"steals_per_game"`
	BlocksPerGame   float64 `json:"blocks_per_game"`
	FGPct           float64 `json:"fg_pct"`
	FG3Pct          float64 `json:"fg3_pct"`
	FTPct           float64 `json:"ft_pct"`
}

// PlayerReport is a player's profile with per-season aggregates.
type PlayerReport struct {
	Player  *store.Player       `json:"player"`
	Seasons []*PlayerSeasonLine `json:"seasons"`
}

// PlayerService answers player lookups backed by stored box scores.
type PlayerService struct {
	db      *store.Database
	players *repository.PlayerRepository
}

// NewPlayerService creates a player service
func NewPlayerService(db *store.Database) *PlayerService {
	return &PlayerService{
		db:      db,
		players: repository.NewPlayerRepository(db),
	}
}

// Report looks a player up by name (exact match preferred, then substring)
// and aggregates their stored stat lines per season.
func (s *PlayerService) Report(ctx context.Context, name string) (*PlayerReport, error) {
	matches, err := s.players.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no player matching %q", name)
	}

	player := matches[0]
	for _, m := range matches {
		if m.Name == name {
			player = m
			break
		}
	}

	seasons, err := s.seasonLines(ctx, player.Name)
	if err != nil {
		return nil, err
	}

	return &PlayerReport{Player: player, Seasons: seasons}, nil
}

// seasonLines aggregates a player's stat lines grouped by season. Shooting
// percentages are recomputed from totals rather than averaged per game.
func (s *PlayerService) seasonLines(ctx context.Context, playerName string) ([]*PlayerSeasonLine, error) {
	query := `
		SELECT g.season,
			COUNT(*) AS games_played,
			SUM(ps.pts) AS total_points,
			AVG(ps.pts) AS ppg,
			AVG(ps.trb) AS rpg,
			AVG(ps.ast) AS apg,
			AVG(ps.stl) AS spg,
			AVG(ps.blk) AS bpg,
			CAST(SUM(ps.fg) AS REAL) / MAX(SUM(ps.fga), 1) AS fg_pct,
			CAST(SUM(ps.fg3) AS REAL) / MAX(SUM(ps.fg3a), 1) AS fg3_pct,
			CAST(SUM(ps.ft) AS REAL) / MAX(SUM(ps.fta), 1) AS ft_pct
		FROM player_game_stats ps
		JOIN games g ON g.game_id = ps.game_id
		WHERE ps.player_name = ?
		GROUP BY g.season
		ORDER BY g.season
	`

	rows, err := s.db.DB().QueryContext(ctx, query, playerName)
	if err != nil {
		return nil, fmt.Errorf("querying season lines: %w", err)
	}
	defer rows.Close()

	var lines []*PlayerSeasonLine
	for rows.Next() {
		line := &PlayerSeasonLine{}
		err := rows.Scan(
			&line.Season, &line.GamesPlayed, &line.TotalPoints,
			&line.PointsPerGame, &line.ReboundsPerGame, &line.AssistsPerGame,
			&line.StealsPerGame, &line.BlocksPerGame,
			&line.FGPct, &line.FG3Pct, &line.FTPct,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning season line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
