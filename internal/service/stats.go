package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// Summary describes what the database currently holds.
type Summary struct {
	Games           int       `json:"games"`
	Teams           int       `json:"teams"`
	Players         int       `json:"players"`
	PlayerStatLines int       `json:"player_stat_lines"`
	TeamStatLines   int       `json:"team_stat_lines"`
	Seasons         []int     `json:"seasons"`
	EarliestGame    time.Time `json:"earliest_game,omitempty"`
	LatestGame      time.Time `json:"latest_game,omitempty"`
	HasGames        bool      `json:"has_games"`
}

// StatsService reports database-wide summary counts.
type StatsService struct {
	db    *store.Database
	games *repository.GameRepository
	stats *repository.StatsRepository
}

// NewStatsService creates a stats service
func NewStatsService(db *store.Database) *StatsService {
	return &StatsService{
		db:    db,
		games: repository.NewGameRepository(db),
		stats: repository.NewStatsRepository(db),
	}
}

// Summary gathers counts across every table
func (s *StatsService) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	var err error
	if summary.Games, err = s.games.Count(ctx); err != nil {
		return nil, err
	}
	if summary.PlayerStatLines, err = s.stats.CountPlayerStats(ctx); err != nil {
		return nil, err
	}
	if summary.TeamStatLines, err = s.stats.CountTeamStats(ctx); err != nil {
		return nil, err
	}
	if summary.Seasons, err = s.games.Seasons(ctx); err != nil {
		return nil, err
	}

	if err := s.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM teams").Scan(&summary.Teams); err != nil {
		return nil, fmt.Errorf("counting teams: %w", err)
	}
	if err := s.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&summary.Players); err != nil {
		return nil, fmt.Errorf("counting players: %w", err)
	}

	earliest, latest, ok, err := s.games.DateRange(ctx)
	if err != nil {
		return nil, err
	}
	summary.HasGames = ok
	if ok {
		summary.EarliestGame = earliest
		summary.LatestGame = latest
	}

	return summary, nil
}
