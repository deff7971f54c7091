package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetAll returns all teams ordered by abbreviation
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	query := `
		SELECT id, abbreviation, name, conference, division, created_at, updated_at
		FROM teams
		ORDER BY abbreviation
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*store.Team
	for rows.Next() {
		team := &store.Team{}
		err := rows.Scan(
			&team.ID, &team.Abbreviation, &team.Name, &team.Conference,
			&team.Division, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByAbbreviation finds a team by abbreviation (e.g. "LAL", "BOS")
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbr string) (*store.Team, error) {
	query := `
		SELECT id, abbreviation, name, conference, division, created_at, updated_at
		FROM teams
		WHERE abbreviation = ?
	`

	team := &store.Team{}
	err := r.db.DB().QueryRowContext(ctx, query, abbr).Scan(
		&team.ID, &team.Abbreviation, &team.Name, &team.Conference,
		&team.Division, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team not found: %s", abbr)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return team, nil
}

// Upsert inserts a team on first encounter or refreshes its mutable fields.
// Teams are never deleted.
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (abbreviation, name, conference, division)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (abbreviation) DO UPDATE SET
			name = excluded.name,
			conference = COALESCE(excluded.conference, teams.conference),
			division = COALESCE(excluded.division, teams.division),
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.DB().ExecContext(ctx, query,
		team.Abbreviation, team.Name, team.Conference, team.Division,
	); err != nil {
		return fmt.Errorf("upserting team: %w", err)
	}

	return nil
}
