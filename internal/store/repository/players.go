package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetBySlug finds a player by basketball-reference slug
func (r *PlayerRepository) GetBySlug(ctx context.Context, slug string) (*store.Player, error) {
	query := `
		SELECT id, slug, name, position, height, weight, birth_date, team_abbr,
			created_at, updated_at
		FROM players
		WHERE slug = ?
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, slug).Scan(
		&player.ID, &player.Slug, &player.Name, &player.Position, &player.Height,
		&player.Weight, &player.BirthDate, &player.TeamAbbr,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %s", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// SearchByName returns players whose name contains the given fragment
func (r *PlayerRepository) SearchByName(ctx context.Context, name string) ([]*store.Player, error) {
	query := `
		SELECT id, slug, name, position, height, weight, birth_date, team_abbr,
			created_at, updated_at
		FROM players
		WHERE name LIKE ?
		ORDER BY name
	`

	rows, err := r.db.DB().QueryContext(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []*store.Player
	for rows.Next() {
		player := &store.Player{}
		err := rows.Scan(
			&player.ID, &player.Slug, &player.Name, &player.Position, &player.Height,
			&player.Weight, &player.BirthDate, &player.TeamAbbr,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Upsert inserts or updates a player. Identity is the basketball-reference
// slug when known; rows scraped without a player link fall back to exact name.
// Biographical fields and team affiliation are refreshed on every re-scrape.
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	if player.Slug.Valid {
		query := `
			INSERT INTO players (slug, name, position, height, weight, birth_date, team_abbr)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (slug) DO UPDATE SET
				name = excluded.name,
				position = COALESCE(excluded.position, players.position),
				height = COALESCE(excluded.height, players.height),
				weight = COALESCE(excluded.weight, players.weight),
				birth_date = COALESCE(excluded.birth_date, players.birth_date),
				team_abbr = COALESCE(excluded.team_abbr, players.team_abbr),
				updated_at = CURRENT_TIMESTAMP
		`
		if _, err := r.db.DB().ExecContext(ctx, query,
			player.Slug, player.Name, player.Position, player.Height,
			player.Weight, player.BirthDate, player.TeamAbbr,
		); err != nil {
			return fmt.Errorf("upserting player: %w", err)
		}
		return nil
	}

	// No slug available: match on exact name to avoid duplicating players
	// across re-scrapes of unlinked pages.
	var id int
	err := r.db.DB().QueryRowContext(ctx,
		"SELECT id FROM players WHERE name = ? AND slug IS NULL", player.Name,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		query := `
			INSERT INTO players (name, position, height, weight, birth_date, team_abbr)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := r.db.DB().ExecContext(ctx, query,
			player.Name, player.Position, player.Height,
			player.Weight, player.BirthDate, player.TeamAbbr,
		); err != nil {
			return fmt.Errorf("inserting player: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("querying player: %w", err)
	}

	query := `
		UPDATE players SET
			position = COALESCE(?, position),
			height = COALESCE(?, height),
			weight = COALESCE(?, weight),
			birth_date = COALESCE(?, birth_date),
			team_abbr = COALESCE(?, team_abbr),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.DB().ExecContext(ctx, query,
		player.Position, player.Height, player.Weight,
		player.BirthDate, player.TeamAbbr, id,
	); err != nil {
		return fmt.Errorf("updating player: %w", err)
	}

	return nil
}
