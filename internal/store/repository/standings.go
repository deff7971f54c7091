package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// StandingRepository handles season standings
type StandingRepository struct {
	db *store.Database
}

// NewStandingRepository creates a new standing repository
func NewStandingRepository(db *store.Database) *StandingRepository {
	return &StandingRepository{db: db}
}

// Upsert writes a team's record for a season, replacing any previous row
func (r *StandingRepository) Upsert(ctx context.Context, s *store.Standing) error {
	query := `
		INSERT INTO standings (team, season, wins, losses, win_pct,
			points_for, points_against, point_diff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (team, season) DO UPDATE SET
			wins = excluded.wins,
			losses = excluded.losses,
			win_pct = excluded.win_pct,
			points_for = excluded.points_for,
			points_against = excluded.points_against,
			point_diff = excluded.point_diff,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		s.Team, s.Season, s.Wins, s.Losses, s.WinPct,
		s.PointsFor, s.PointsAgainst, s.PointDiff,
	); err != nil {
		return fmt.Errorf("upserting standing for %s: %w", s.Team, err)
	}

	return nil
}

// GetBySeason returns a season's standings ordered best record first
func (r *StandingRepository) GetBySeason(ctx context.Context, season int) ([]*store.Standing, error) {
	query := `
		SELECT id, team, season, wins, losses, win_pct,
			points_for, points_against, point_diff, updated_at
		FROM standings
		WHERE season = ?
		ORDER BY wins DESC, point_diff DESC, team
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer rows.Close()

	var standings []*store.Standing
	for rows.Next() {
		s := &store.Standing{}
		err := rows.Scan(
			&s.ID, &s.Team, &s.Season, &s.Wins, &s.Losses, &s.WinPct,
			&s.PointsFor, &s.PointsAgainst, &s.PointDiff, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}
