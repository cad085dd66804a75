package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/foxtrail/internal/broker"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/envstruct"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/logging"
	"github.com/myrjola/foxtrail/internal/pprofserver"
	"github.com/myrjola/foxtrail/internal/random"
	"github.com/myrjola/foxtrail/internal/repositories"
	"github.com/myrjola/foxtrail/internal/sqlite"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	games          *repositories.GameRepository
	gameConfig     detective.Config
	newRand        func() (random.Source, error)
	templates      map[string]*template.Template

	// boards passes board refreshes from the pacers to the event streams.
	boards *broker.ChannelBroker[string, detective.Snapshot]
	// pacerCtx is cancelled when the server shuts down.
	pacerCtx   context.Context //nolint:containedctx // pacers outlive the requests that start them
	stopPacers context.CancelFunc
	pacerWG    sync.WaitGroup
	gameLocks  sync.Map
	pacers     sync.Map
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)

	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var gameConfig detective.Config
	if gameConfig, err = cfg.gameConfig(); err != nil {
		return errors.Wrap(err, "game config")
	}

	if cfg.PprofAddr != "" {
		// Listen on localhost so that pprof is not open to the world.
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour) //nolint:mnd // daily
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var templates map[string]*template.Template
	if templates, err = parseTemplates(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	boards := broker.NewChannelBroker[string, detective.Snapshot]()
	go boards.Start()
	defer boards.Stop()

	pacerCtx, stopPacers := context.WithCancel(ctx)
	app := &application{
		logger:         logger,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		games:          repositories.NewGameRepository(db, logger),
		gameConfig:     gameConfig,
		newRand:        cfg.newRand(),
		templates:      templates,
		boards:         boards,
		pacerCtx:       pacerCtx,
		stopPacers:     stopPacers,
		pacerWG:        sync.WaitGroup{},
		gameLocks:      sync.Map{},
		pacers:         sync.Map{},
	}
	defer func() {
		stopPacers()
		app.pacerWG.Wait()
	}()

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}

	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, real deployments configure the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
