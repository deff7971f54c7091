package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// StatsRepository handles box score stat lines and officials.
// All inserts are append-only: a re-scrape of the same game is a no-op.
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// InsertPlayerStats stores one player's box score line. Duplicate lines for
// the same (game, team, player) are ignored. Fails if the parent game is
// missing.
func (r *StatsRepository) InsertPlayerStats(ctx context.Context, s *store.PlayerGameStats) error {
	query := `
		INSERT INTO player_game_stats (game_id, team, player_name, player_slug,
			mp, fg, fga, fg_pct, fg3, fg3a, fg3_pct, ft, fta, ft_pct,
			orb, drb, trb, ast, stl, blk, tov, pf, pts, plus_minus,
			ts_pct, efg_pct, usg_pct, off_rtg, def_rtg, bpm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, team, player_name) DO NOTHING
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		s.GameID, s.Team, s.PlayerName, s.PlayerSlug,
		s.MP, s.FG, s.FGA, s.FGPct, s.FG3, s.FG3A, s.FG3Pct,
		s.FT, s.FTA, s.FTPct, s.ORB, s.DRB, s.TRB, s.AST, s.STL, s.BLK,
		s.TOV, s.PF, s.PTS, s.PlusMinus,
		s.TSPct, s.EFGPct, s.USGPct, s.OffRtg, s.DefRtg, s.BPM,
	); err != nil {
		return fmt.Errorf("inserting player stats for %s: %w", s.PlayerName, err)
	}

	return nil
}

// InsertTeamStats stores a team's totals for one game. Duplicates are ignored.
func (r *StatsRepository) InsertTeamStats(ctx context.Context, s *store.TeamGameStats) error {
	query := `
		INSERT INTO team_game_stats (game_id, team, is_home,
			fg, fga, fg_pct, fg3, fg3a, fg3_pct, ft, fta, ft_pct,
			orb, drb, trb, ast, stl, blk, tov, pf, pts,
			ts_pct, efg_pct, tov_pct, orb_pct, drb_pct, off_rtg, def_rtg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, team) DO NOTHING
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		s.GameID, s.Team, s.IsHome,
		s.FG, s.FGA, s.FGPct, s.FG3, s.FG3A, s.FG3Pct,
		s.FT, s.FTA, s.FTPct, s.ORB, s.DRB, s.TRB, s.AST, s.STL, s.BLK,
		s.TOV, s.PF, s.PTS,
		s.TSPct, s.EFGPct, s.TOVPct, s.ORBPct, s.DRBPct, s.OffRtg, s.DefRtg,
	); err != nil {
		return fmt.Errorf("inserting team stats for %s: %w", s.Team, err)
	}

	return nil
}

// InsertOfficial stores one referee assignment. Duplicates are ignored.
func (r *StatsRepository) InsertOfficial(ctx context.Context, o *store.GameOfficial) error {
	query := `
		INSERT INTO game_officials (game_id, official_name, official_url, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (game_id, position) DO NOTHING
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		o.GameID, o.OfficialName, o.OfficialURL, o.Position,
	); err != nil {
		return fmt.Errorf("inserting official %s: %w", o.OfficialName, err)
	}

	return nil
}

// GetPlayerStatsByGame returns every player line for a game
func (r *StatsRepository) GetPlayerStatsByGame(ctx context.Context, gameID string) ([]*store.PlayerGameStats, error) {
	query := `
		SELECT id, game_id, team, player_name, player_slug,
			mp, fg, fga, fg_pct, fg3, fg3a, fg3_pct, ft, fta, ft_pct,
			orb, drb, trb, ast, stl, blk, tov, pf, pts, plus_minus,
			ts_pct, efg_pct, usg_pct, off_rtg, def_rtg, bpm, created_at
		FROM player_game_stats
		WHERE game_id = ?
		ORDER BY team, pts DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying player stats: %w", err)
	}
	defer rows.Close()

	var stats []*store.PlayerGameStats
	for rows.Next() {
		s, err := scanPlayerStats(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// CountPlayerStats returns the total number of player stat lines
func (r *StatsRepository) CountPlayerStats(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM player_game_stats").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting player stats: %w", err)
	}
	return count, nil
}

// CountTeamStats returns the total number of team stat lines
func (r *StatsRepository) CountTeamStats(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM team_game_stats").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting team stats: %w", err)
	}
	return count, nil
}

func scanPlayerStats(rows *sql.Rows) (*store.PlayerGameStats, error) {
	s := &store.PlayerGameStats{}
	err := rows.Scan(
		&s.ID, &s.GameID, &s.Team, &s.PlayerName, &s.PlayerSlug,
		&s.MP, &s.FG, &s.FGA, &s.FGPct, &s.FG3, &s.FG3A, &s.FG3Pct,
		&s.FT, &s.FTA, &s.FTPct, &s.ORB, &s.DRB, &s.TRB, &s.AST, &s.STL, &s.BLK,
		&s.TOV, &s.PF, &s.PTS, &s.PlusMinus,
		&s.TSPct, &s.EFGPct, &s.USGPct, &s.OffRtg, &s.DefRtg, &s.BPM, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning player stats: %w", err)
	}
	return s, nil
}
