package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/models"
	"github.com/myrjola/foxtrail/internal/sqlite"
	"github.com/oklog/ulid/v2"
	"log/slog"
	"time"
)

var (
	ErrNotFound    = errors.NewSentinel("not found")
	ErrGameNotOver = errors.NewSentinel("game is not over")
)

type GameRepository struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
	logger    *slog.Logger
}

func NewGameRepository(db *sqlite.Database, logger *slog.Logger) *GameRepository {
	return &GameRepository{
		readWrite: sqlx.NewDb(db.ReadWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(db.ReadOnly, "sqlite3"),
		logger:    logger.With(slog.String("source", "GameRepository")),
	}
}

type gameRow struct {
	ID       string `db:"id"`
	State    []byte `db:"state"`
	Phase    string `db:"phase"`
	Pressure int    `db:"pressure"`
	Created  string `db:"created"`
	Updated  string `db:"updated"`
}

func (r gameRow) toModel() (*models.Game, error) {
	var (
		game = models.Game{
			ID:       r.ID,
			State:    detective.State{},
			Phase:    detective.Phase(r.Phase),
			Pressure: r.Pressure,
			Created:  time.Time{},
			Updated:  time.Time{},
		}
		err error
	)
	if err = json.Unmarshal(r.State, &game.State); err != nil {
		return nil, errors.Wrap(err, "unmarshal state", slog.String("game_id", r.ID))
	}
	if game.Created, err = parseTimestamp(r.Created); err != nil {
		return nil, errors.Wrap(err, "parse created")
	}
	if game.Updated, err = parseTimestamp(r.Updated); err != nil {
		return nil, errors.Wrap(err, "parse updated")
	}
	return &game, nil
}

// Create stores a new game and returns its id.
func (r *GameRepository) Create(ctx context.Context, game *detective.Game) (string, error) {
	state, err := json.Marshal(game.State())
	if err != nil {
		return "", errors.Wrap(err, "marshal state")
	}
	id := ulid.Make().String()
	stmt := `INSERT INTO games (id, state, phase, pressure) VALUES (:id, :state, :phase, :pressure)`
	if _, err = r.readWrite.NamedExecContext(ctx, stmt, map[string]any{
		"id":       id,
		"state":    string(state),
		"phase":    string(game.Phase()),
		"pressure": game.Pressure(),
	}); err != nil {
		return "", errors.Wrap(err, "insert game")
	}
	return id, nil
}

// Get returns the game with id or [ErrNotFound].
func (r *GameRepository) Get(ctx context.Context, id string) (*models.Game, error) {
	var row gameRow
	stmt := `SELECT id, state, phase, pressure, created, updated FROM games WHERE id = ?`
	if err := r.readOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "get game", slog.String("game_id", id))
		}
		return nil, errors.Wrap(err, "select game", slog.String("game_id", id))
	}
	return row.toModel()
}

// Save overwrites the stored state of game id.
func (r *GameRepository) Save(ctx context.Context, id string, game *detective.Game) error {
	state, err := json.Marshal(game.State())
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}
	stmt := `UPDATE games
SET state    = :state,
    phase    = :phase,
    pressure = :pressure,
    updated  = :updated
WHERE id = :id`
	var res sql.Result
	if res, err = r.readWrite.NamedExecContext(ctx, stmt, map[string]any{
		"id":       id,
		"state":    string(state),
		"phase":    string(game.Phase()),
		"pressure": game.Pressure(),
		"updated":  time.Now().UTC().Format(timestampLayout),
	}); err != nil {
		return errors.Wrap(err, "update game", slog.String("game_id", id))
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "save game", slog.String("game_id", id))
	}
	return nil
}

// RecordResult stores the outcome of the finished game id. Recording the same game again keeps the first result.
func (r *GameRepository) RecordResult(ctx context.Context, id string, game *detective.Game) error {
	var outcome models.Outcome
	switch game.Phase() {
	case detective.PhaseWon:
		outcome = models.OutcomeWon
	case detective.PhaseLost:
		outcome = models.OutcomeLost
	default:
		return errors.Wrap(ErrGameNotOver, "record result", slog.String("phase", string(game.Phase())))
	}
	snapshot := game.Snapshot()
	stmt := `INSERT INTO results (game_id, outcome, pressure, clues_revealed, suspects_revealed)
VALUES (:game_id, :outcome, :pressure, :clues_revealed, :suspects_revealed)
ON CONFLICT (game_id) DO NOTHING`
	var (
		res sql.Result
		err error
	)
	if res, err = r.readWrite.NamedExecContext(ctx, stmt, map[string]any{
		"game_id":           id,
		"outcome":           string(outcome),
		"pressure":          snapshot.Pressure,
		"clues_revealed":    snapshot.CluesRevealed(),
		"suspects_revealed": snapshot.SuspectsRevealed(),
	}); err != nil {
		return errors.Wrap(err, "insert result", slog.String("game_id", id))
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "game finished",
			slog.String("game_id", id), slog.String("outcome", string(outcome)), slog.Int("pressure", snapshot.Pressure))
	}
	return nil
}

// Result returns the recorded result of game id or [ErrNotFound].
func (r *GameRepository) Result(ctx context.Context, id string) (*models.Result, error) {
	var row struct {
		GameID           string `db:"game_id"`
		Outcome          string `db:"outcome"`
		Pressure         int    `db:"pressure"`
		CluesRevealed    int    `db:"clues_revealed"`
		SuspectsRevealed int    `db:"suspects_revealed"`
		Finished         string `db:"finished"`
	}
	stmt := `SELECT game_id, outcome, pressure, clues_revealed, suspects_revealed, finished
FROM results
WHERE game_id = ?`
	if err := r.readOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "get result", slog.String("game_id", id))
		}
		return nil, errors.Wrap(err, "select result", slog.String("game_id", id))
	}
	finished, err := parseTimestamp(row.Finished)
	if err != nil {
		return nil, errors.Wrap(err, "parse finished")
	}
	return &models.Result{
		GameID:           row.GameID,
		Outcome:          models.Outcome(row.Outcome),
		Pressure:         row.Pressure,
		CluesRevealed:    row.CluesRevealed,
		SuspectsRevealed: row.SuspectsRevealed,
		Finished:         finished,
	}, nil
}

// Stats summarises all stored games.
func (r *GameRepository) Stats(ctx context.Context) (models.Stats, error) {
	var row struct {
		Games           int     `db:"games"`
		Won             int     `db:"won"`
		Lost            int     `db:"lost"`
		AveragePressure float64 `db:"average_pressure"`
	}
	stmt := `SELECT (SELECT count(*) FROM games)                          AS games,
       coalesce(sum(outcome = 'won'), 0)                      AS won,
       coalesce(sum(outcome = 'lost'), 0)                     AS lost,
       coalesce(avg(pressure), 0.0)                           AS average_pressure
FROM results`
	if err := r.readOnly.GetContext(ctx, &row, stmt); err != nil {
		return models.Stats{}, errors.Wrap(err, "select stats") //nolint:exhaustruct // zero value on error
	}
	return models.Stats{
		Games:           row.Games,
		Won:             row.Won,
		Lost:            row.Lost,
		AveragePressure: row.AveragePressure,
	}, nil
}

// Ping checks that both connections answer.
func (r *GameRepository) Ping(ctx context.Context) error {
	if err := r.readWrite.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read-write")
	}
	if err := r.readOnly.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read-only")
	}
	return nil
}

// timestampLayout matches strftime('%Y-%m-%dT%H:%M:%fZ') used for the column defaults.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse timestamp", slog.String("value", s))
	}
	return t, nil
}
