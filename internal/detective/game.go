package detective

import (
	"fmt"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/random"
	"time"
)

// Phase is the stage of the current turn.
type Phase string

const (
	// PhaseRolling waits for the player to roll the dice or to start guessing.
	PhaseRolling Phase = "rolling"
	// PhasePickingSuspects waits for the player to choose hidden suspects to reveal.
	PhasePickingSuspects Phase = "picking-suspects"
	// PhaseRevealing shows a freshly revealed clue until the next turn starts.
	PhaseRevealing Phase = "revealing"
	// PhaseGuessing waits for the player to name the thief.
	PhaseGuessing Phase = "guessing"
	PhaseWon      Phase = "won"
	PhaseLost     Phase = "lost"
)

// Terminal reports whether the game is over.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseRolling, PhasePickingSuspects, PhaseRevealing, PhaseGuessing, PhaseWon, PhaseLost:
		return true
	}
	return false
}

// Category is the outcome a die can show. The player nominates one before rolling.
type Category string

const (
	CategorySuspect Category = "suspect"
	CategoryClue    Category = "clue"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategorySuspect || c == CategoryClue
}

// Game is a single detective game: a puzzle and the state of the turn being played.
//
// A Game is not safe for concurrent use.
type Game struct {
	cfg    Config
	rng    random.Source
	puzzle *Puzzle

	pressure  int
	phase     Phase
	rollsLeft int
	// nominated is empty until the first roll of a turn.
	nominated Category
	// dice is nil until the first roll of a turn.
	dice      []Category
	picksLeft int
	message   string

	clock   time.Duration
	pending []ScheduledEvent
}

// New starts a game with a freshly generated puzzle.
func New(cfg Config, rng random.Source) (*Game, error) {
	g := &Game{cfg: cfg, rng: rng} //nolint:exhaustruct // populated by Reset
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset replaces the puzzle and all turn state. It can be called in any phase, including in the middle of a turn.
//
// On error the game is left untouched.
func (g *Game) Reset() error {
	puzzle, err := Generate(g.cfg, g.rng)
	if err != nil {
		return errors.Wrap(err, "generate puzzle")
	}
	g.puzzle = puzzle
	g.pressure = 0
	g.message = ""
	g.clock = 0
	g.pending = nil
	g.startNewTurn()
	return nil
}

// Config returns the rules of the game.
func (g *Game) Config() Config {
	return g.cfg
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Pressure returns how far the fox has run.
func (g *Game) Pressure() int {
	return g.pressure
}

// RollFor rolls the dice hoping for category.
//
// The first roll of a turn nominates category and draws every die. Later rolls of the same turn keep the nominated
// category, ignoring the argument, and only redraw the dice that do not show it yet. When all dice match, the turn
// succeeds. When the roll budget runs out first, the fox advances.
//
// RollFor reports whether the roll happened.
func (g *Game) RollFor(category Category) bool {
	if g.phase != PhaseRolling || g.rollsLeft <= 0 || g.turnPending() {
		return false
	}
	if g.nominated == "" {
		if !category.Valid() {
			return false
		}
		g.nominated = category
		g.dice = make([]Category, g.cfg.Dice)
	}

	allMatch := true
	for i, face := range g.dice {
		if face != g.nominated {
			g.dice[i] = g.randomFace()
		}
		allMatch = allMatch && g.dice[i] == g.nominated
	}
	g.rollsLeft--

	switch {
	case allMatch:
		g.succeed()
	case g.rollsLeft == 0:
		g.showMessage("The thief got a bit further away! 🦊")
		g.addPressure(g.cfg.FailPenalty)
		if !g.phase.Terminal() {
			g.schedule(EventNewTurn, g.cfg.Delays.FailedTurn)
		}
	}
	return true
}

func (g *Game) randomFace() Category {
	if g.rng.IntN(2) == 0 { //nolint:mnd // coin flip
		return CategorySuspect
	}
	return CategoryClue
}

func (g *Game) succeed() {
	switch g.nominated {
	case CategorySuspect:
		hidden := 0
		for _, s := range g.puzzle.Suspects {
			if !s.Revealed {
				hidden++
			}
		}
		if hidden == 0 {
			g.showMessage("All suspects are already revealed!")
			g.startNewTurn()
			return
		}
		g.picksLeft = min(g.cfg.PicksPerSuccess, hidden)
		g.phase = PhasePickingSuspects
		g.showMessage(fmt.Sprintf("Pick %d suspects to reveal", g.picksLeft))
	case CategoryClue:
		var hidden []int
		for i, c := range g.puzzle.Clues {
			if !c.Revealed {
				hidden = append(hidden, i)
			}
		}
		if len(hidden) == 0 {
			g.showMessage("All clues are already revealed!")
			g.startNewTurn()
			return
		}
		clue := &g.puzzle.Clues[hidden[g.rng.IntN(len(hidden))]]
		clue.Revealed = true
		g.phase = PhaseRevealing
		g.showMessage(fmt.Sprintf("%s %s", g.cfg.Items[clue.Item].Icon, clue.Text(g.cfg.Items)))
		g.schedule(EventNewTurn, g.cfg.Delays.ClueReveal)
	}
}

// PickSuspect reveals the hidden suspect id after a successful suspect roll.
func (g *Game) PickSuspect(id int) bool {
	if g.phase != PhasePickingSuspects || g.picksLeft <= 0 {
		return false
	}
	s, ok := g.suspect(id)
	if !ok || s.Revealed {
		return false
	}
	s.Revealed = true
	g.picksLeft--
	if g.picksLeft == 0 {
		g.schedule(EventNewTurn, g.cfg.Delays.PicksDone)
	}
	return true
}

// ToggleEliminate crosses out a revealed suspect or brings it back. It only helps the player keep notes and has no
// effect on the outcome.
func (g *Game) ToggleEliminate(id int) bool {
	if g.phase != PhaseRolling {
		return false
	}
	s, ok := g.suspect(id)
	if !ok || !s.Revealed {
		return false
	}
	s.Eliminated = !s.Eliminated
	return true
}

// StartGuess lets the player name the thief.
func (g *Game) StartGuess() bool {
	if g.phase != PhaseRolling || g.turnPending() {
		return false
	}
	g.phase = PhaseGuessing
	return true
}

// CancelGuess returns to rolling without guessing.
func (g *Game) CancelGuess() bool {
	if g.phase != PhaseGuessing {
		return false
	}
	g.phase = PhaseRolling
	return true
}

// SubmitGuess accuses suspect id. The right suspect wins the game. A wrong guess advances the fox and returns to
// rolling.
func (g *Game) SubmitGuess(id int) bool {
	if g.phase != PhaseGuessing {
		return false
	}
	if _, ok := g.suspect(id); !ok {
		return false
	}
	if id == g.puzzle.ThiefID {
		g.phase = PhaseWon
		g.message = "You caught the thief! 🎉"
		g.pending = nil
		return true
	}
	g.phase = PhaseRolling
	g.showMessage("Wrong, that's not the thief!")
	g.addPressure(g.cfg.WrongGuessPenalty)
	return true
}

func (g *Game) suspect(id int) (*Suspect, bool) {
	if id < 0 || id >= len(g.puzzle.Suspects) {
		return nil, false
	}
	return &g.puzzle.Suspects[id], true
}

// addPressure advances the fox by steps. The game is lost when the fox gets home.
func (g *Game) addPressure(steps int) {
	g.pressure = min(g.pressure+steps, g.cfg.MaxPressure)
	if g.pressure >= g.cfg.MaxPressure {
		g.phase = PhaseLost
		g.message = "The thief got away! 🦊💨"
		g.pending = nil
	}
}

func (g *Game) showMessage(msg string) {
	g.message = msg
	g.cancel(EventClearMessage)
	g.schedule(EventClearMessage, g.cfg.Delays.Message)
}

func (g *Game) startNewTurn() {
	g.cancel(EventNewTurn)
	g.phase = PhaseRolling
	g.rollsLeft = g.cfg.RollsPerTurn
	g.nominated = ""
	g.dice = nil
	g.picksLeft = 0
}
