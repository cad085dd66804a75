package detective

import (
	"github.com/myrjola/foxtrail/internal/random"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// fixedSource always draws the same value, clamped to the requested range.
type fixedSource struct{ n int }

func (s fixedSource) IntN(n int) int { return min(s.n, n-1) }

// scriptedSource draws from values in order and counts the draws. It draws zero once values run out.
type scriptedSource struct {
	values []int
	draws  int
}

func (s *scriptedSource) IntN(n int) int {
	s.draws++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

var (
	allSuspects = fixedSource{n: 0}
	allClues    = fixedSource{n: 1}
)

func newTestGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	g, err := New(DefaultConfig(), random.NewSeeded(seed))
	require.NoError(t, err)
	return g
}

func hiddenSuspect(t *testing.T, g *Game) int {
	t.Helper()
	for _, s := range g.puzzle.Suspects {
		if !s.Revealed {
			return s.ID
		}
	}
	t.Fatal("no hidden suspect")
	return -1
}

func revealedSuspect(t *testing.T, g *Game) int {
	t.Helper()
	for _, s := range g.puzzle.Suspects {
		if s.Revealed {
			return s.ID
		}
	}
	t.Fatal("no revealed suspect")
	return -1
}

func innocent(g *Game) int {
	if g.puzzle.ThiefID == 0 {
		return 1
	}
	return 0
}

func TestNew(t *testing.T) {
	g := newTestGame(t, 1)
	s := g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, 0, s.Pressure)
	require.Equal(t, 30, s.MaxPressure)
	require.Equal(t, 3, s.RollsLeft)
	require.Equal(t, 2, s.SuspectsRevealed())
	require.Equal(t, 0, s.CluesRevealed())
	require.Empty(t, s.Nominated)
	require.Empty(t, s.Dice)
	require.False(t, s.Pending)
	require.Nil(t, s.ThiefID)
}

func TestNew_invalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dice = 0
	_, err := New(cfg, random.NewSeeded(1))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGame_successfulSuspectRoll(t *testing.T) {
	g := newTestGame(t, 2)
	g.rng = allSuspects

	require.True(t, g.RollFor(CategorySuspect))
	s := g.Snapshot()
	require.Equal(t, PhasePickingSuspects, s.Phase)
	require.Equal(t, 2, s.PicksLeft)
	require.Equal(t, 2, s.RollsLeft)
	require.Equal(t, []Category{CategorySuspect, CategorySuspect, CategorySuspect}, s.Dice)
	require.Equal(t, "Pick 2 suspects to reveal", s.Message)

	require.False(t, g.StartGuess(), "cannot guess while picking")
	require.False(t, g.RollFor(CategorySuspect), "cannot roll while picking")
	require.False(t, g.PickSuspect(revealedSuspect(t, g)), "revealed suspects cannot be picked")

	first := hiddenSuspect(t, g)
	require.True(t, g.PickSuspect(first))
	require.True(t, g.puzzle.Suspects[first].Revealed)
	require.False(t, g.Snapshot().Pending)
	require.True(t, g.PickSuspect(hiddenSuspect(t, g)))

	s = g.Snapshot()
	require.Equal(t, 4, s.SuspectsRevealed())
	require.Equal(t, 0, s.PicksLeft)
	require.True(t, s.Pending)
	require.Equal(t, PhasePickingSuspects, s.Phase)
	require.False(t, g.PickSuspect(hiddenSuspect(t, g)), "no picks left")

	g.Advance(g.cfg.Delays.PicksDone)
	s = g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, 3, s.RollsLeft)
	require.Empty(t, s.Nominated)
	require.Empty(t, s.Dice)
	require.False(t, s.Pending)
}

func TestGame_picksCappedByHiddenSuspects(t *testing.T) {
	g := newTestGame(t, 3)
	g.rng = allSuspects
	for i := range g.puzzle.Suspects {
		if i != g.puzzle.ThiefID {
			g.puzzle.Suspects[i].Revealed = true
		}
	}

	require.True(t, g.RollFor(CategorySuspect))
	require.Equal(t, 1, g.Snapshot().PicksLeft)
	require.Equal(t, "Pick 1 suspects to reveal", g.Snapshot().Message)
	require.True(t, g.PickSuspect(g.puzzle.ThiefID))
	require.True(t, g.Snapshot().Pending)
}

func TestGame_suspectRollWithEveryoneRevealed(t *testing.T) {
	g := newTestGame(t, 4)
	g.rng = allSuspects
	for i := range g.puzzle.Suspects {
		g.puzzle.Suspects[i].Revealed = true
	}

	require.True(t, g.RollFor(CategorySuspect))
	s := g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, "All suspects are already revealed!", s.Message)
	require.Equal(t, 3, s.RollsLeft)
	require.False(t, s.Pending)
}

func TestGame_successfulClueRoll(t *testing.T) {
	g := newTestGame(t, 5)
	g.rng = allClues

	require.True(t, g.RollFor(CategoryClue))
	s := g.Snapshot()
	require.Equal(t, PhaseRevealing, s.Phase)
	require.Equal(t, 1, s.CluesRevealed())
	require.True(t, s.Pending)

	var revealed ClueView
	for _, c := range s.Clues {
		if c.Revealed {
			revealed = c
		}
	}
	require.NotEmpty(t, revealed.Text)
	require.Equal(t, revealed.Icon+" "+revealed.Text, s.Message)
	require.False(t, g.StartGuess(), "cannot guess while the clue is on display")

	g.Advance(g.cfg.Delays.ClueReveal - time.Millisecond)
	require.Equal(t, PhaseRevealing, g.Phase())
	g.Advance(time.Millisecond)
	s = g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, 3, s.RollsLeft)
	require.Equal(t, 1, s.CluesRevealed())
}

func TestGame_clueRollWithEveryClueRevealed(t *testing.T) {
	g := newTestGame(t, 6)
	g.rng = allClues
	for i := range g.puzzle.Clues {
		g.puzzle.Clues[i].Revealed = true
	}

	require.True(t, g.RollFor(CategoryClue))
	s := g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, "All clues are already revealed!", s.Message)
	require.False(t, s.Pending)
}

func TestGame_rollUntilClue(t *testing.T) {
	for seed := range uint64(50) {
		cfg := DefaultConfig()
		cfg.MaxPressure = 10_000
		g, err := New(cfg, random.NewSeeded(seed))
		require.NoError(t, err)

		for g.Phase() != PhaseRevealing {
			require.Equal(t, PhaseRolling, g.Phase())
			require.Equal(t, 0, g.Snapshot().CluesRevealed())
			if !g.RollFor(CategoryClue) {
				g.Settle()
			}
		}
		require.Equal(t, 1, g.Snapshot().CluesRevealed())
		g.Settle()
		require.Equal(t, PhaseRolling, g.Phase())
		require.Equal(t, 1, g.Snapshot().CluesRevealed())
	}
}

func TestGame_rerollsOnlyMismatchedDice(t *testing.T) {
	g := newTestGame(t, 7)
	// Suspect, clue, suspect on the first roll.
	src := &scriptedSource{values: []int{0, 1, 0, 1}, draws: 0}
	g.rng = src

	require.True(t, g.RollFor(CategorySuspect))
	require.Equal(t, 3, src.draws)
	require.Equal(t, []Category{CategorySuspect, CategoryClue, CategorySuspect}, g.Snapshot().Dice)

	// The nominated category sticks for the rest of the turn.
	require.True(t, g.RollFor(CategoryClue))
	require.Equal(t, 4, src.draws)
	s := g.Snapshot()
	require.Equal(t, CategorySuspect, s.Nominated)
	require.Equal(t, []Category{CategorySuspect, CategoryClue, CategorySuspect}, s.Dice)
	require.Equal(t, 1, s.RollsLeft)

	require.True(t, g.RollFor(CategoryClue))
	require.Equal(t, 5, src.draws)
	require.Equal(t, PhasePickingSuspects, g.Phase())
}

func TestGame_exhaustedRollBudget(t *testing.T) {
	g := newTestGame(t, 8)
	g.rng = allClues

	for range 3 {
		require.True(t, g.RollFor(CategorySuspect))
	}
	s := g.Snapshot()
	require.Equal(t, PhaseRolling, s.Phase)
	require.Equal(t, 3, s.Pressure)
	require.Equal(t, 0, s.RollsLeft)
	require.True(t, s.Pending)
	require.Equal(t, "The thief got a bit further away! 🦊", s.Message)

	require.False(t, g.RollFor(CategorySuspect), "budget is spent")
	require.False(t, g.StartGuess(), "turn is over")

	g.Advance(g.cfg.Delays.FailedTurn)
	s = g.Snapshot()
	require.Equal(t, 3, s.RollsLeft)
	require.Empty(t, s.Nominated)
	require.False(t, s.Pending)
	require.Equal(t, 3, s.Pressure)
	require.True(t, g.StartGuess())
}

func TestGame_lostOnFailedTurn(t *testing.T) {
	g := newTestGame(t, 9)
	g.rng = allClues
	g.pressure = 28

	for range 3 {
		require.True(t, g.RollFor(CategorySuspect))
	}
	s := g.Snapshot()
	require.Equal(t, PhaseLost, s.Phase)
	require.Equal(t, 30, s.Pressure)
	require.False(t, s.Pending)
	require.Equal(t, "The thief got away! 🦊💨", s.Message)
	require.NotNil(t, s.ThiefID)
	for _, v := range s.Suspects {
		require.Len(t, v.Items, 3, "all items are shown once the game is over")
	}

	g.Settle()
	require.Equal(t, "The thief got away! 🦊💨", g.Snapshot().Message)
}

func TestGame_guess(t *testing.T) {
	t.Run("right suspect wins", func(t *testing.T) {
		for seed := range uint64(20) {
			g := newTestGame(t, seed)
			require.True(t, g.StartGuess())
			require.Equal(t, PhaseGuessing, g.Phase())
			require.True(t, g.SubmitGuess(g.puzzle.ThiefID))
			s := g.Snapshot()
			require.Equal(t, PhaseWon, s.Phase)
			require.Equal(t, 0, s.Pressure)
			require.Equal(t, "You caught the thief! 🎉", s.Message)
			thief, ok := s.Thief()
			require.True(t, ok)
			require.Equal(t, g.puzzle.ThiefID, thief.ID)
		}
	})

	t.Run("wrong suspect advances the fox", func(t *testing.T) {
		g := newTestGame(t, 10)
		wrong := innocent(g)
		require.True(t, g.StartGuess())
		require.True(t, g.SubmitGuess(wrong))
		s := g.Snapshot()
		require.Equal(t, PhaseRolling, s.Phase)
		require.Equal(t, 5, s.Pressure)
		require.Equal(t, "Wrong, that's not the thief!", s.Message)
		require.False(t, s.Suspects[wrong].Eliminated)
		require.Nil(t, s.ThiefID)
	})

	t.Run("wrong guess in the middle of a turn keeps the turn", func(t *testing.T) {
		g := newTestGame(t, 21)
		g.rng = &scriptedSource{values: []int{1, 0, 0}} //nolint:exhaustruct // draws start at zero
		require.True(t, g.RollFor(CategoryClue))
		dice := g.Snapshot().Dice
		require.Equal(t, []Category{CategoryClue, CategorySuspect, CategorySuspect}, dice)

		require.True(t, g.StartGuess())
		require.True(t, g.SubmitGuess(innocent(g)))
		s := g.Snapshot()
		require.Equal(t, PhaseRolling, s.Phase)
		require.Equal(t, 5, s.Pressure)
		require.Equal(t, 2, s.RollsLeft, "a wrong guess does not refill the roll budget")
		require.Equal(t, CategoryClue, s.Nominated)
		require.Equal(t, dice, s.Dice)

		// The turn goes on with the nominated category.
		g.rng = allClues
		require.True(t, g.RollFor(CategorySuspect))
		require.Equal(t, PhaseRevealing, g.Phase())
	})

	t.Run("wrong guess at the edge loses", func(t *testing.T) {
		g := newTestGame(t, 11)
		g.pressure = 27
		require.True(t, g.StartGuess())
		require.True(t, g.SubmitGuess(innocent(g)))
		require.Equal(t, PhaseLost, g.Phase())
		require.Equal(t, 30, g.Pressure())
	})

	t.Run("cancel", func(t *testing.T) {
		g := newTestGame(t, 12)
		require.False(t, g.CancelGuess())
		require.True(t, g.StartGuess())
		require.True(t, g.CancelGuess())
		require.Equal(t, PhaseRolling, g.Phase())
		require.Equal(t, 0, g.Pressure())
	})

	t.Run("unknown suspect is ignored", func(t *testing.T) {
		g := newTestGame(t, 13)
		require.True(t, g.StartGuess())
		require.False(t, g.SubmitGuess(-1))
		require.False(t, g.SubmitGuess(12))
		require.Equal(t, PhaseGuessing, g.Phase())
	})
}

func TestGame_toggleEliminate(t *testing.T) {
	g := newTestGame(t, 14)
	id := revealedSuspect(t, g)

	require.True(t, g.ToggleEliminate(id))
	require.True(t, g.Snapshot().Suspects[id].Eliminated)
	require.True(t, g.ToggleEliminate(id))
	require.False(t, g.Snapshot().Suspects[id].Eliminated)

	require.False(t, g.ToggleEliminate(hiddenSuspect(t, g)), "hidden suspects cannot be eliminated")
	require.False(t, g.ToggleEliminate(99))

	require.True(t, g.StartGuess())
	require.False(t, g.ToggleEliminate(id), "not while guessing")
}

func TestGame_ignoredActions(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(g *Game)
		action func(g *Game) bool
	}{
		{
			name:   "pick while rolling",
			setup:  func(_ *Game) {},
			action: func(g *Game) bool { return g.PickSuspect(innocent(g)) },
		},
		{
			name:   "roll unknown category",
			setup:  func(_ *Game) {},
			action: func(g *Game) bool { return g.RollFor("treasure") },
		},
		{
			name:   "guess without starting",
			setup:  func(_ *Game) {},
			action: func(g *Game) bool { return g.SubmitGuess(g.puzzle.ThiefID) },
		},
		{
			name:   "roll while guessing",
			setup:  func(g *Game) { g.StartGuess() },
			action: func(g *Game) bool { return g.RollFor(CategoryClue) },
		},
		{
			name:   "start guess twice",
			setup:  func(g *Game) { g.StartGuess() },
			action: func(g *Game) bool { return g.StartGuess() },
		},
		{
			name: "roll after winning",
			setup: func(g *Game) {
				g.StartGuess()
				g.SubmitGuess(g.puzzle.ThiefID)
			},
			action: func(g *Game) bool { return g.RollFor(CategoryClue) },
		},
		{
			name: "guess after losing",
			setup: func(g *Game) {
				g.pressure = 29
				g.StartGuess()
				g.SubmitGuess(innocent(g))
			},
			action: func(g *Game) bool { return g.StartGuess() },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 15)
			tt.setup(g)
			before := g.Snapshot()
			require.False(t, tt.action(g))
			require.Equal(t, before, g.Snapshot())
		})
	}
}

func TestGame_messageExpires(t *testing.T) {
	g := newTestGame(t, 16)
	require.True(t, g.StartGuess())
	require.True(t, g.SubmitGuess(innocent(g)))
	require.NotEmpty(t, g.Snapshot().Message)

	g.Advance(time.Second)
	require.True(t, g.StartGuess())
	require.True(t, g.SubmitGuess(innocent(g)))

	// The second message restarts the timer.
	g.Advance(time.Second)
	require.Equal(t, "Wrong, that's not the thief!", g.Snapshot().Message)
	g.Advance(time.Second)
	require.Empty(t, g.Snapshot().Message)
}

func TestGame_reset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
	}{
		{name: "after winning", setup: func(g *Game) {
			g.StartGuess()
			g.SubmitGuess(g.puzzle.ThiefID)
		}},
		{name: "after losing", setup: func(g *Game) {
			g.pressure = 29
			g.StartGuess()
			g.SubmitGuess(innocent(g))
		}},
		{name: "mid turn", setup: func(g *Game) {
			g.rng = allClues
			g.RollFor(CategoryClue)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 17)
			tt.setup(g)
			g.rng = random.NewSeeded(18)
			before := g.State().Puzzle

			require.NoError(t, g.Reset())
			s := g.Snapshot()
			require.Equal(t, PhaseRolling, s.Phase)
			require.Equal(t, 0, s.Pressure)
			require.Equal(t, 3, s.RollsLeft)
			require.Empty(t, s.Message)
			require.False(t, s.Pending)
			require.Equal(t, 0, s.CluesRevealed())
			require.Equal(t, 2, s.SuspectsRevealed())
			require.NotEqual(t, before, g.State().Puzzle)
		})
	}
}

func TestGame_resetKeepsGameOnError(t *testing.T) {
	g := newTestGame(t, 19)
	g.rng = fixedSource{n: 0}
	before := g.State()
	g.cfg.MaxDrawAttempts = 3
	require.ErrorIs(t, g.Reset(), ErrSubsetsExhausted)
	require.Equal(t, before, g.State())
}

func TestGame_snapshot(t *testing.T) {
	g := newTestGame(t, 20)
	a := g.Snapshot()
	b := g.Snapshot()
	require.Equal(t, a, b)

	for _, v := range a.Suspects {
		if v.Revealed {
			require.Len(t, v.Items, 3)
		} else {
			require.Empty(t, v.Items, "hidden suspects do not leak their items")
		}
	}
	for _, c := range a.Clues {
		require.Empty(t, c.Text, "hidden clues do not leak their content")
	}

	a.Suspects[0].Name = "changed"
	a.Dice = append(a.Dice, CategoryClue)
	require.Equal(t, b, g.Snapshot())
}

func TestGame_pressureInvariants(t *testing.T) {
	for seed := range uint64(40) {
		g := newTestGame(t, seed)
		actions := random.NewSeeded(seed + 1000)
		prev := 0
		for step := 0; step < 400 && !g.Phase().Terminal(); step++ {
			id := actions.IntN(len(g.puzzle.Suspects))
			switch actions.IntN(6) {
			case 0, 1:
				g.RollFor(CategoryClue)
			case 2:
				g.RollFor(CategorySuspect)
			case 3:
				g.PickSuspect(id)
			case 4:
				g.ToggleEliminate(id)
			case 5:
				if g.StartGuess() {
					g.SubmitGuess(id)
				}
			}
			g.Advance(time.Duration(actions.IntN(2000)) * time.Millisecond)

			s := g.Snapshot()
			require.GreaterOrEqual(t, s.Pressure, prev, "pressure never decreases")
			require.LessOrEqual(t, s.Pressure, s.MaxPressure)
			if s.Pressure == s.MaxPressure {
				require.Equal(t, PhaseLost, s.Phase)
			}
			require.GreaterOrEqual(t, s.RollsLeft, 0)
			require.LessOrEqual(t, s.RollsLeft, s.RollsPerTurn)
			prev = s.Pressure
		}
	}
}
