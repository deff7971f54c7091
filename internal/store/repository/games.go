package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// Upsert inserts a game or, on re-scrape, updates only its scores and status.
// The identifying fields (date, season, teams) are written once and never
// overwritten by a later scrape.
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) error {
	query := `
		INSERT INTO games (game_id, game_date, season, home_team, away_team,
			home_score, away_score, home_won, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			home_won = excluded.home_won,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		game.GameID, game.GameDate, game.Season, game.HomeTeam, game.AwayTeam,
		game.HomeScore, game.AwayScore, game.HomeWon, game.Status,
	); err != nil {
		return fmt.Errorf("upserting game %s: %w", game.GameID, err)
	}

	return nil
}

// GetByGameID finds a game by its basketball-reference identifier
func (r *GameRepository) GetByGameID(ctx context.Context, gameID string) (*store.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team, away_team,
			home_score, away_score, home_won, status, created_at, updated_at
		FROM games
		WHERE game_id = ?
	`

	game := &store.Game{}
	err := r.db.DB().QueryRowContext(ctx, query, gameID).Scan(
		&game.ID, &game.GameID, &game.GameDate, &game.Season,
		&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
		&game.HomeWon, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}

	return game, nil
}

// GetBySeason returns all games for a season ordered by date
func (r *GameRepository) GetBySeason(ctx context.Context, season int) ([]*store.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team, away_team,
			home_score, away_score, home_won, status, created_at, updated_at
		FROM games
		WHERE season = ?
		ORDER BY game_date, game_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByDateRange returns games played between from and to inclusive
func (r *GameRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*store.Game, error) {
	query := `
		SELECT id, game_id, game_date, season, home_team, away_team,
			home_score, away_score, home_won, status, created_at, updated_at
		FROM games
		WHERE game_date >= ? AND game_date <= ?
		ORDER BY game_date, game_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Count returns the total number of stored games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return count, nil
}

// Seasons returns the distinct seasons present, ascending
func (r *GameRepository) Seasons(ctx context.Context) ([]int, error) {
	rows, err := r.db.DB().QueryContext(ctx, "SELECT DISTINCT season FROM games ORDER BY season")
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, fmt.Errorf("scanning season: %w", err)
		}
		seasons = append(seasons, season)
	}

	return seasons, rows.Err()
}

// DateRange returns the earliest and latest game dates stored.
// ok is false when no games exist yet.
func (r *GameRepository) DateRange(ctx context.Context) (earliest, latest time.Time, ok bool, err error) {
	var minDate, maxDate sql.NullTime
	err = r.db.DB().QueryRowContext(ctx,
		"SELECT MIN(game_date), MAX(game_date) FROM games",
	).Scan(&minDate, &maxDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("querying date range: %w", err)
	}
	if !minDate.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return minDate.Time, maxDate.Time, true, nil
}

func scanGames(rows *sql.Rows) ([]*store.Game, error) {
	var games []*store.Game
	for rows.Next() {
		game := &store.Game{}
		err := rows.Scan(
			&game.ID, &game.GameID, &game.GameDate, &game.Season,
			&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
			&game.HomeWon, &game.Status, &game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
