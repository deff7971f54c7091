package pipeline

// JobType enumerates the supported scrape job variants.
type JobType string

const (
	JobTypeSeason JobType = "season"
	JobTypeGames  JobType = "games"
)

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Type    JobType
	Season  int
	GameIDs []string
	Resume  bool
	DryRun  bool
}

// JobKey returns the checkpoint key for this job. Only season jobs are
// resumable; explicit game lists run start to finish.
func (s JobSpec) JobKey() string {
	if s.Type == JobTypeSeason {
		return jobKeyForSeason(s.Season)
	}
	return ""
}

// RunStats summarizes a completed run.
type RunStats struct {
	Processed int
	Failed    int
	Skipped   int
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec, total int)
	OnGameProcessed(gameID string, index, total int)
	OnGameFailed(gameID string, err error)
	OnJobComplete(stats RunStats)
}
