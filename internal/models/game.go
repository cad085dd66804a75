package models

import (
	"github.com/myrjola/foxtrail/internal/detective"
	"time"
)

// Game is a stored detective game.
type Game struct {
	ID string
	// State restores the game with [detective.Restore].
	State    detective.State
	Phase    detective.Phase
	Pressure int
	Created  time.Time
	Updated  time.Time
}

type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Result is the record of a finished game.
type Result struct {
	GameID           string
	Outcome          Outcome
	Pressure         int
	CluesRevealed    int
	SuspectsRevealed int
	Finished         time.Time
}

// Stats summarises every game played so far.
type Stats struct {
	Games int
	Won   int
	Lost  int
	// AveragePressure is the mean fox position at the end of the finished games.
	AveragePressure float64
}

// Finished is the number of won and lost games.
func (s Stats) Finished() int {
	return s.Won + s.Lost
}
