package main

import (
	"context"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/models"
	"github.com/myrjola/foxtrail/internal/repositories"
	"github.com/myrjola/foxtrail/internal/sqlite"
	"github.com/myrjola/foxtrail/internal/testhelpers"
	"log/slog"
	"os"
	"time"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("FOXTRAIL_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "FOXTRAIL_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// Fetch the game statistics from the migrated database and print them out as a simple smoke test.
	var stats models.Stats
	if stats, err = repositories.NewGameRepository(db, logger).Stats(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching game stats", errors.SlogError(err))
		os.Exit(1)
	}
	if stats.Games == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no games found, something is likely wrong")
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "game stats", slog.Int("games", stats.Games),
		slog.Int("finished", stats.Finished()))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
