package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/store"
)

var (
	cfgFile string
	dbPath  string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "NBA box score scraper and local stats database",
	Long: `courtside scrapes NBA box scores from basketball-reference.com into a
local SQLite database and answers queries against it. Scraping is polite
(one request per second) and idempotent: re-running any command over data
you already have leaves the database unchanged.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}

		logger, err = newLogger(cfg)
		return err
	},
}

// Execute runs the root command. The first SIGINT/SIGTERM cancels the
// command context so long scrapes stop issuing fetches and checkpoint
// cleanly; a second signal kills the process. Errors are logged here so
// main stays bare.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database file")
}

// newLogger builds a console logger, teeing to a file when configured.
func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	var out io.Writer = console
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("opening log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(console, file)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// openDatabase opens the configured database and verifies the schema exists
func openDatabase() (*store.Database, error) {
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	var count int
	err = db.DB().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'games'",
	).Scan(&count)
	if err != nil || count == 0 {
		db.Close()
		return nil, fmt.Errorf("database not initialized, run 'courtside setup' first")
	}

	return db, nil
}
