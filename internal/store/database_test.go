package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.RunMigrations())

	var applied int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, 8, applied)
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.SeedData())
	require.NoError(t, db.SeedData())

	var teams int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM teams").Scan(&teams))
	require.Equal(t, 30, teams)
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())

	_, err = db.DB().Exec(
		"INSERT INTO games (game_id, game_date, season, home_team, away_team) VALUES (?, ?, ?, ?, ?)",
		"202401150DEN", "2024-01-15", 2024, "DEN", "LAL",
	)
	require.Error(t, err, "games must reference seeded teams")
}

func TestHealthCheck(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck(context.Background()))
}
