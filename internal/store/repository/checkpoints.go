package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// CheckpointRepository tracks per-job progress so interrupted scrape runs
// can resume where they left off.
type CheckpointRepository struct {
	db *store.Database
}

// NewCheckpointRepository creates a new checkpoint repository
func NewCheckpointRepository(db *store.Database) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Get returns the last completed item for a job key, or "" if none exists
func (r *CheckpointRepository) Get(ctx context.Context, jobKey string) (string, error) {
	var last string
	err := r.db.DB().QueryRowContext(ctx,
		"SELECT last_completed FROM checkpoints WHERE job_key = ?", jobKey,
	).Scan(&last)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying checkpoint: %w", err)
	}

	return last, nil
}

// Put records the last completed item for a job key
func (r *CheckpointRepository) Put(ctx context.Context, jobKey, lastCompleted string) error {
	query := `
		INSERT INTO checkpoints (job_key, last_completed)
		VALUES (?, ?)
		ON CONFLICT (job_key) DO UPDATE SET
			last_completed = excluded.last_completed,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.DB().ExecContext(ctx, query, jobKey, lastCompleted); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	return nil
}

// Clear removes a job's checkpoint
func (r *CheckpointRepository) Clear(ctx context.Context, jobKey string) error {
	if _, err := r.db.DB().ExecContext(ctx,
		"DELETE FROM checkpoints WHERE job_key = ?", jobKey,
	); err != nil {
		return fmt.Errorf("clearing checkpoint: %w", err)
	}
	return nil
}
