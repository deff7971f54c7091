package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// GameIngester fetches and stores games. Satisfied by bref.Ingester.
type GameIngester interface {
	IngestGame(ctx context.Context, gameID string) error
	ScrapeSeasonSchedule(ctx context.Context, season int) ([]string, error)
}

// CheckpointStore persists per-job progress. Satisfied by
// repository.CheckpointRepository.
type CheckpointStore interface {
	Get(ctx context.Context, jobKey string) (string, error)
	Put(ctx context.Context, jobKey, lastCompleted string) error
	Clear(ctx context.Context, jobKey string) error
}

// Runner executes scrape jobs game by game. A game that fails — missing
// page, changed markup, or a write rejected for that game's rows — is
// recorded and skipped so one bad item never sinks the run. Only
// cancellation and checkpoint failures (the database itself unreachable)
// stop the loop.
type Runner struct {
	ingester    GameIngester
	checkpoints CheckpointStore
	logger      zerolog.Logger
}

// NewRunner constructs a runner
func NewRunner(ingester GameIngester, checkpoints CheckpointStore, logger zerolog.Logger) *Runner {
	return &Runner{
		ingester:    ingester,
		checkpoints: checkpoints,
		logger:      logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) (RunStats, error) {
	var stats RunStats

	gameIDs, err := r.resolveGames(ctx, spec)
	if err != nil {
		return stats, err
	}

	if spec.Resume && spec.JobKey() != "" {
		gameIDs, err = r.skipCompleted(ctx, spec.JobKey(), gameIDs, &stats)
		if err != nil {
			return stats, err
		}
	}

	if reporter != nil {
		reporter.OnJobStart(spec, len(gameIDs))
	}

	if spec.DryRun {
		r.logger.Info().Int("games", len(gameIDs)).Msg("dry run, nothing written")
		if reporter != nil {
			reporter.OnJobComplete(stats)
		}
		return stats, nil
	}

	total := len(gameIDs)
	for idx, gameID := range gameIDs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := r.ingester.IngestGame(ctx, gameID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			stats.Failed++
			r.logger.Error().Str("game_id", gameID).Err(err).Msg("skipping game")
			if reporter != nil {
				reporter.OnGameFailed(gameID, err)
			}
			continue
		}

		stats.Processed++

		if key := spec.JobKey(); key != "" {
			if err := r.checkpoints.Put(ctx, key, gameID); err != nil {
				return stats, fmt.Errorf("saving checkpoint: %w", err)
			}
		}

		if reporter != nil {
			reporter.OnGameProcessed(gameID, idx+1, total)
		}
	}

	// A finished season job clears its checkpoint so the next run starts
	// fresh and picks up games published since.
	if key := spec.JobKey(); key != "" {
		if err := r.checkpoints.Clear(ctx, key); err != nil {
			return stats, fmt.Errorf("clearing checkpoint: %w", err)
		}
	}

	r.logger.Info().
		Int("processed", stats.Processed).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("run complete")

	if reporter != nil {
		reporter.OnJobComplete(stats)
	}

	return stats, nil
}

func (r *Runner) resolveGames(ctx context.Context, spec JobSpec) ([]string, error) {
	switch spec.Type {
	case JobTypeGames:
		if len(spec.GameIDs) == 0 {
			return nil, fmt.Errorf("no game IDs provided for job type %q", spec.Type)
		}
		return spec.GameIDs, nil
	case JobTypeSeason:
		if spec.Season == 0 {
			return nil, fmt.Errorf("no season provided for job type %q", spec.Type)
		}
		return r.ingester.ScrapeSeasonSchedule(ctx, spec.Season)
	default:
		return nil, fmt.Errorf("unsupported job type %q", spec.Type)
	}
}

// skipCompleted drops every game up to and including the checkpointed one.
// If the checkpointed game is no longer in the schedule the full list runs;
// ingestion is idempotent so re-processing is safe.
func (r *Runner) skipCompleted(ctx context.Context, jobKey string, gameIDs []string, stats *RunStats) ([]string, error) {
	last, err := r.checkpoints.Get(ctx, jobKey)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	if last == "" {
		return gameIDs, nil
	}

	for idx, gameID := range gameIDs {
		if gameID == last {
			stats.Skipped = idx + 1
			r.logger.Info().
				Str("job_key", jobKey).
				Str("last_completed", last).
				Int("skipped", stats.Skipped).
				Msg("resuming after checkpoint")
			return gameIDs[idx+1:], nil
		}
	}

	r.logger.Warn().
		Str("job_key", jobKey).
		Str("last_completed", last).
		Msg("checkpointed game not in schedule, running full list")
	return gameIDs, nil
}

func jobKeyForSeason(season int) string {
	return fmt.Sprintf("season:%d", season)
}
