package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/scrape/bref"
)

type fakeIngester struct {
	gameIDs  []string
	failWith map[string]error
}

func (f *fakeIngester) IngestBoxScoreHTML(_ context.Context, _ string, gameID string) error {
	if err, ok := f.failWith[gameID]; ok {
		return err
	}
	f.gameIDs = append(f.gameIDs, gameID)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestProcessorRunsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "202401160BOS.html", "<html/>")
	writeFile(t, dir, "202401150DEN.html", "<html/>")
	writeFile(t, dir, "notes.txt", "not a box score")
	writeFile(t, dir, "index.html", "no game id here")

	ingester := &fakeIngester{}
	processor := NewProcessor(ingester, zerolog.Nop())

	stats, err := processor.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Skipped, "html file without a game ID is skipped")
	assert.Equal(t, []string{"202401150DEN", "202401160BOS"}, ingester.gameIDs)
}

func TestProcessorSkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "202401150DEN.html", "<html/>")
	writeFile(t, dir, "202401160BOS.html", "<html/>")

	ingester := &fakeIngester{
		failWith: map[string]error{
			"202401150DEN": fmt.Errorf("parsing: %w", bref.ErrLayoutChanged),
		},
	}
	processor := NewProcessor(ingester, zerolog.Nop())

	stats, err := processor.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
}

func TestProcessorContinuesPastWriteFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "202401150DEN.html", "<html/>")
	writeFile(t, dir, "202401160BOS.html", "<html/>")

	ingester := &fakeIngester{
		failWith: map[string]error{
			"202401150DEN": fmt.Errorf("constraint failed: FOREIGN KEY constraint failed"),
		},
	}
	processor := NewProcessor(ingester, zerolog.Nop())

	stats, err := processor.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []string{"202401160BOS"}, ingester.gameIDs)
}

func TestProcessorStopsOnCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "202401150DEN.html", "<html/>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewProcessor(&fakeIngester{}, zerolog.Nop())
	_, err := processor.Run(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessorMissingDir(t *testing.T) {
	processor := NewProcessor(&fakeIngester{}, zerolog.Nop())

	_, err := processor.Run(context.Background(), "/does/not/exist")
	require.Error(t, err)
}
