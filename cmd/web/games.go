package main

import (
	"context"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/logging"
	"github.com/myrjola/foxtrail/internal/repositories"
	"log/slog"
	"sync"
	"time"
)

// boardSendTimeout is how long a pacer waits for an event stream to take a board before moving on.
const boardSendTimeout = 250 * time.Millisecond

// gameLock serialises the load, act and save cycles of game id.
func (app *application) gameLock(id string) *sync.Mutex {
	mu, _ := app.gameLocks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex) //nolint:forcetypeassert // only mutexes are stored
}

// newGame starts and stores a fresh game.
func (app *application) newGame(ctx context.Context) (string, *detective.Game, error) {
	rng, err := app.newRand()
	if err != nil {
		return "", nil, errors.Wrap(err, "seed game")
	}
	var g *detective.Game
	if g, err = detective.New(app.gameConfig, rng); err != nil {
		return "", nil, errors.Wrap(err, "new game")
	}
	var id string
	if id, err = app.games.Create(ctx, g); err != nil {
		return "", nil, errors.Wrap(err, "create game")
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "game started", slog.String("game_id", id))
	return id, g, nil
}

// loadGame restores the stored game and catches its clock up with the time passed since it was saved.
func (app *application) loadGame(ctx context.Context, id string) (*detective.Game, error) {
	stored, err := app.games.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get game")
	}
	rng, err := app.newRand()
	if err != nil {
		return nil, errors.Wrap(err, "seed game")
	}
	var g *detective.Game
	if g, err = detective.Restore(app.gameConfig, stored.State, rng); err != nil {
		return nil, errors.Wrap(err, "restore game", slog.String("game_id", id))
	}
	g.Advance(max(0, time.Since(stored.Updated)))
	return g, nil
}

// saveGame persists g and records the result of a finished game.
func (app *application) saveGame(ctx context.Context, id string, g *detective.Game) error {
	if err := app.games.Save(ctx, id, g); err != nil {
		return errors.Wrap(err, "save game")
	}
	if g.Phase().Terminal() {
		if err := app.games.RecordResult(ctx, id, g); err != nil {
			return errors.Wrap(err, "record result")
		}
	}
	return nil
}

// playGame applies action to the game of the session, starting a new game when the session has none. A nil action
// only reads the board.
func (app *application) playGame(
	ctx context.Context,
	action func(g *detective.Game) bool,
) (string, detective.Snapshot, error) {
	var (
		g   *detective.Game
		err error
	)
	id := app.sessionManager.GetString(ctx, string(gameIDSessionKey))
	if id != "" {
		mu := app.gameLock(id)
		mu.Lock()
		defer mu.Unlock()
		if g, err = app.loadGame(ctx, id); errors.Is(err, repositories.ErrNotFound) {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "session refers to a missing game", slog.String("game_id", id))
			id = ""
		} else if err != nil {
			return "", detective.Snapshot{}, err //nolint:exhaustruct // zero value on error
		}
	}
	if id == "" {
		if id, g, err = app.newGame(ctx); err != nil {
			return "", detective.Snapshot{}, err //nolint:exhaustruct // zero value on error
		}
		app.sessionManager.Put(ctx, string(gameIDSessionKey), id)
	}

	if action != nil && action(g) {
		// Fire the transitions that have no delay right away.
		g.Advance(0)
		if err = app.saveGame(ctx, id, g); err != nil {
			return "", detective.Snapshot{}, err //nolint:exhaustruct // zero value on error
		}
	}
	app.startPacer(id, g)
	return id, g.Snapshot(), nil
}

// storedBoard returns the board of the game of the session without starting a new game. It returns
// [repositories.ErrNotFound] when there is no game.
func (app *application) storedBoard(ctx context.Context) (detective.Snapshot, error) {
	id := app.sessionManager.GetString(ctx, string(gameIDSessionKey))
	if id == "" {
		return detective.Snapshot{}, errors.Wrap(repositories.ErrNotFound, "session has no game") //nolint:exhaustruct // zero value on error
	}
	mu := app.gameLock(id)
	mu.Lock()
	defer mu.Unlock()
	g, err := app.loadGame(ctx, id)
	if err != nil {
		return detective.Snapshot{}, err //nolint:exhaustruct // zero value on error
	}
	app.startPacer(id, g)
	return g.Snapshot(), nil
}

// restartGame replaces the game of the session with a new one. The old game and its result stay in the database.
func (app *application) restartGame(ctx context.Context) (detective.Snapshot, error) {
	id, g, err := app.newGame(ctx)
	if err != nil {
		return detective.Snapshot{}, err //nolint:exhaustruct // zero value on error
	}
	app.sessionManager.Put(ctx, string(gameIDSessionKey), id)
	return g.Snapshot(), nil
}

// startPacer launches a goroutine that fires the scheduled events of game id in real time. The caller holds the game
// lock. At most one pacer runs per game.
func (app *application) startPacer(id string, g *detective.Game) {
	if _, ok := g.NextDue(); !ok || app.pacerCtx.Err() != nil {
		return
	}
	if _, running := app.pacers.LoadOrStore(id, struct{}{}); running {
		return
	}
	boards := make(chan detective.Snapshot)
	app.boards.Publish(id, boards)
	app.pacerWG.Add(1)
	go app.pace(id, boards)
}

// pace sleeps until the next scheduled event of game id is due, fires it, and passes the new board to the event
// stream, until nothing is scheduled anymore.
func (app *application) pace(id string, boards chan detective.Snapshot) {
	defer app.pacerWG.Done()
	ctx := logging.WithAttrs(app.pacerCtx, slog.String("game_id", id))
	app.logger.LogAttrs(ctx, slog.LevelDebug, "pacer started")

	wait, more, err := app.tick(ctx, id, nil)
	for more && err == nil {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			more = false
			continue
		case <-timer.C:
		}
		wait, more, err = app.tick(ctx, id, boards)
	}
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "pacer failed", errors.SlogError(err))
	}

	close(boards)
	app.boards.Unpublish(id)
	app.pacers.Delete(id)
	app.logger.LogAttrs(ctx, slog.LevelDebug, "pacer stopped")

	// An action may have scheduled events after the last tick while this pacer was still registered.
	if ctx.Err() == nil && err == nil {
		if err = app.resumePacer(ctx, id); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "resume pacer", errors.SlogError(err))
		}
	}
}

// tick brings game id up to date and reports how long to wait for the next scheduled event.
func (app *application) tick(
	ctx context.Context,
	id string,
	boards chan<- detective.Snapshot,
) (time.Duration, bool, error) {
	mu := app.gameLock(id)
	mu.Lock()
	defer mu.Unlock()

	g, err := app.loadGame(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if boards != nil {
		if err = app.games.Save(ctx, id, g); err != nil {
			return 0, false, errors.Wrap(err, "save game")
		}
		timer := time.NewTimer(boardSendTimeout)
		defer timer.Stop()
		select {
		case boards <- g.Snapshot():
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	wait, more := g.NextDue()
	return wait, more, nil
}

func (app *application) resumePacer(ctx context.Context, id string) error {
	mu := app.gameLock(id)
	mu.Lock()
	defer mu.Unlock()

	g, err := app.loadGame(ctx, id)
	if err != nil {
		return err
	}
	app.startPacer(id, g)
	return nil
}
