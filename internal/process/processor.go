package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/pipeline"
	"github.com/fortuna/courtside/internal/scrape/bref"
)

// BoxScoreIngester stores a parsed box score page. Satisfied by
// bref.Ingester.
type BoxScoreIngester interface {
	IngestBoxScoreHTML(ctx context.Context, html, gameID string) error
}

// Processor ingests box score pages already saved to disk, so an archive
// of downloaded HTML can be loaded without touching the network.
type Processor struct {
	ingester BoxScoreIngester
	logger   zerolog.Logger
}

// NewProcessor creates a processor
func NewProcessor(ingester BoxScoreIngester, logger zerolog.Logger) *Processor {
	return &Processor{
		ingester: ingester,
		logger:   logger.With().Str("component", "processor").Logger(),
	}
}

// Run processes every .html file in dir whose name contains a game ID,
// in sorted (chronological) order. A file that fails to parse or store is
// counted and skipped; only cancellation and directory errors stop the run.
func (p *Processor) Run(ctx context.Context, dir string) (pipeline.RunStats, error) {
	var stats pipeline.RunStats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	p.logger.Info().Str("dir", dir).Int("files", len(files)).Msg("processing local box scores")

	for idx, name := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		gameID, err := bref.GameIDFromURL(name)
		if err != nil {
			stats.Skipped++
			p.logger.Debug().Str("file", name).Msg("no game ID in filename, skipping")
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return stats, fmt.Errorf("reading %s: %w", name, err)
		}

		if err := p.ingester.IngestBoxScoreHTML(ctx, string(content), gameID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			stats.Failed++
			p.logger.Error().Str("file", name).Err(err).Msg("skipping file")
			continue
		}

		stats.Processed++
		if stats.Processed%100 == 0 {
			p.logger.Info().
				Int("processed", stats.Processed).
				Int("remaining", len(files)-idx-1).
				Msg("progress")
		}
	}

	p.logger.Info().
		Int("processed", stats.Processed).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("local processing complete")

	return stats, nil
}
