package main

import (
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/random"
	"time"
)

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FOXTRAIL_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database or :memory: for an in-memory database.
	SqliteURL string `env:"FOXTRAIL_SQLITE_URL" envDefault:"./foxtrail.sqlite"`
	// PprofAddr is the address of the pprof server. Leave empty to disable it.
	PprofAddr       string        `env:"FOXTRAIL_PPROF_ADDR" envDefault:"localhost:6060"`
	SessionLifetime time.Duration `env:"FOXTRAIL_SESSION_LIFETIME" envDefault:"168h"`

	MaxPressure       int `env:"FOXTRAIL_MAX_PRESSURE" envDefault:"30"`
	FailPenalty       int `env:"FOXTRAIL_FAIL_PENALTY" envDefault:"3"`
	WrongGuessPenalty int `env:"FOXTRAIL_WRONG_GUESS_PENALTY" envDefault:"5"`
	RollsPerTurn      int `env:"FOXTRAIL_ROLLS_PER_TURN" envDefault:"3"`
	// PacePercent scales every delay between turns. Tests use 0 to make the transitions immediate.
	PacePercent int `env:"FOXTRAIL_PACE_PERCENT" envDefault:"100"`
	// Seed replays the same puzzle and dice in every game when set. Zero seeds each game randomly.
	Seed int `env:"FOXTRAIL_SEED" envDefault:"0"`
}

// newRand returns the randomness source constructor of the games.
func (c config) newRand() func() (random.Source, error) {
	if c.Seed == 0 {
		return random.New
	}
	seed := uint64(c.Seed) //nolint:gosec // any bit pattern is a fine seed
	return func() (random.Source, error) {
		return random.NewSeeded(seed), nil
	}
}

func (c config) gameConfig() (detective.Config, error) {
	gc := detective.DefaultConfig()
	gc.MaxPressure = c.MaxPressure
	gc.FailPenalty = c.FailPenalty
	gc.WrongGuessPenalty = c.WrongGuessPenalty
	gc.RollsPerTurn = c.RollsPerTurn
	if c.PacePercent < 0 {
		return gc, errors.New("pace percent must not be negative")
	}
	scale := func(d time.Duration) time.Duration {
		return d * time.Duration(c.PacePercent) / 100 //nolint:mnd // percent
	}
	gc.Delays.ClueReveal = scale(gc.Delays.ClueReveal)
	gc.Delays.FailedTurn = scale(gc.Delays.FailedTurn)
	gc.Delays.PicksDone = scale(gc.Delays.PicksDone)
	gc.Delays.Message = scale(gc.Delays.Message)
	if err := gc.Validate(); err != nil {
		return gc, errors.Wrap(err, "validate game config")
	}
	return gc, nil
}
