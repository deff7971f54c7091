package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/pipeline"
	"github.com/fortuna/courtside/internal/scrape/bref"
	"github.com/fortuna/courtside/internal/store/repository"
)

var (
	scrapeSeason      int
	scrapeStartSeason int
	scrapeEndSeason   int
	scrapeResume      bool
	scrapeDryRun      bool
	recentSeasons     int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [gameID...]",
	Short: "Scrape box scores from basketball-reference.com",
	Long: `Scrapes box scores into the database. With --season (or a
--start-season/--end-season range), discovers every game on the season's
schedule pages and scrapes each one; with explicit game IDs, scrapes just
those. Season runs checkpoint after every game, so an interrupted run
restarted with --resume picks up where it left off.

Seasons are named by their ending year: --season 2024 is the 2023-24
season.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runScrape(cmd, pipeline.JobSpec{
				Type:    pipeline.JobTypeGames,
				GameIDs: args,
				DryRun:  scrapeDryRun,
			})
		}

		start, end := scrapeStartSeason, scrapeEndSeason
		if scrapeSeason != 0 {
			start, end = scrapeSeason, scrapeSeason
		}
		if start == 0 || end == 0 {
			return fmt.Errorf("provide --season, a --start-season/--end-season range, or explicit game IDs")
		}
		if end < start {
			return fmt.Errorf("--end-season %d is before --start-season %d", end, start)
		}

		return scrapeSeasons(cmd, start, end, scrapeResume, scrapeDryRun)
	},
}

var scrapeRecentCmd = &cobra.Command{
	Use:   "scrape-recent",
	Short: "Scrape the most recent seasons, resuming any interrupted run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recentSeasons < 1 {
			return fmt.Errorf("--seasons must be at least 1")
		}
		current := bref.SeasonFromDate(time.Now())
		return scrapeSeasons(cmd, current-recentSeasons+1, current, true, false)
	},
}

func scrapeSeasons(cmd *cobra.Command, start, end int, resume, dryRun bool) error {
	for season := start; season <= end; season++ {
		spec := pipeline.JobSpec{
			Type:   pipeline.JobTypeSeason,
			Season: season,
			Resume: resume,
			DryRun: dryRun,
		}
		if err := runScrape(cmd, spec); err != nil {
			return fmt.Errorf("season %d: %w", season, err)
		}
	}
	return nil
}

func runScrape(cmd *cobra.Command, spec pipeline.JobSpec) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fetcher, cleanup, err := newFetcher()
	if err != nil {
		return err
	}
	defer cleanup()

	ingester := bref.NewIngester(fetcher, db, logger)
	runner := pipeline.NewRunner(ingester, repository.NewCheckpointRepository(db), logger)

	stats, err := runner.Run(cmd.Context(), spec, &consoleReporter{logger: logger})
	if err != nil {
		return err
	}

	fmt.Printf("Scraped %d games (%d failed, %d already done)\n",
		stats.Processed, stats.Failed, stats.Skipped)
	return nil
}

// newFetcher builds the configured page fetcher: a headless browser when
// requested, otherwise the HTTP client with an optional Redis page cache.
func newFetcher() (bref.Fetcher, func(), error) {
	if cfg.UseBrowser {
		browser, err := bref.NewBrowserClient(logger)
		if err != nil {
			return nil, nil, fmt.Errorf("starting browser: %w", err)
		}
		return browser, browser.Close, nil
	}

	opts := []bref.ClientOption{bref.WithInterval(time.Duration(cfg.RequestInterval))}
	cleanup := func() {}

	if cfg.RedisURL != "" {
		pageCache, err := cache.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, scraping without cache")
		} else {
			opts = append(opts, bref.WithCache(pageCache))
			cleanup = func() { pageCache.Close() }
		}
	}

	return bref.NewClient(logger, opts...), cleanup, nil
}

// consoleReporter prints progress as games complete.
type consoleReporter struct {
	logger zerolog.Logger
}

func (r *consoleReporter) OnJobStart(spec pipeline.JobSpec, total int) {
	r.logger.Info().
		Str("type", string(spec.Type)).
		Int("season", spec.Season).
		Int("games", total).
		Msg("starting scrape")
}

func (r *consoleReporter) OnGameProcessed(gameID string, index, total int) {
	fmt.Printf("[%d/%d] %s\n", index, total, gameID)
}

func (r *consoleReporter) OnGameFailed(gameID string, err error) {
	fmt.Printf("FAILED %s: %v\n", gameID, err)
}

func (r *consoleReporter) OnJobComplete(stats pipeline.RunStats) {
	r.logger.Info().
		Int("processed", stats.Processed).
		Int("failed", stats.Failed).
		Msg("scrape complete")
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeSeason, "season", 0, "single season to scrape, by ending year (e.g. 2024)")
	scrapeCmd.Flags().IntVar(&scrapeStartSeason, "start-season", 0, "first season of a range")
	scrapeCmd.Flags().IntVar(&scrapeEndSeason, "end-season", 0, "last season of a range")
	scrapeCmd.Flags().BoolVar(&scrapeResume, "resume", false, "resume from the last checkpoint")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "discover games without writing anything")

	scrapeRecentCmd.Flags().IntVar(&recentSeasons, "seasons", 1, "how many recent seasons to scrape")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(scrapeRecentCmd)
}
