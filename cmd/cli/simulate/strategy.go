package simulate

import (
	"github.com/myrjola/foxtrail/internal/detective"
	"slices"
)

// strategy plays like a careful player: question every suspect, then collect clues until only one suspect fits.
type strategy struct {
	itemsPerSuspect int
}

// step performs the next action for the board s and reports whether the game accepted it.
func (st strategy) step(g *detective.Game, s detective.Snapshot) bool {
	switch s.Phase {
	case detective.PhasePickingSuspects:
		for _, v := range s.Suspects {
			if !v.Revealed {
				return g.PickSuspect(v.ID)
			}
		}
		return false
	case detective.PhaseRolling:
		if id, ok := st.solve(s); ok {
			return g.StartGuess() && g.SubmitGuess(id)
		}
		if s.Nominated != "" {
			return g.RollFor(s.Nominated)
		}
		if hiddenSuspects(s) > 0 {
			return g.RollFor(detective.CategorySuspect)
		}
		return g.RollFor(detective.CategoryClue)
	case detective.PhaseGuessing:
		return g.CancelGuess()
	case detective.PhaseRevealing, detective.PhaseWon, detective.PhaseLost:
	}
	return false
}

// solve returns the thief once the revealed suspects and clues leave no doubt.
func (st strategy) solve(s detective.Snapshot) (int, bool) {
	var candidates []int
	for _, v := range s.Suspects {
		if v.Revealed && fitsClues(v, s.Clues) {
			candidates = append(candidates, v.ID)
		}
	}
	if len(candidates) != 1 {
		return 0, false
	}
	// A hidden suspect could still be the thief unless the clues name all of the thief's items.
	if hiddenSuspects(s) > 0 && positiveClues(s) < st.itemsPerSuspect {
		return 0, false
	}
	return candidates[0], true
}

func fitsClues(v detective.SuspectView, clues []detective.ClueView) bool {
	for _, c := range clues {
		if !c.Revealed {
			continue
		}
		has := slices.ContainsFunc(v.Items, func(item detective.Item) bool {
			return item.Name == c.ItemName
		})
		if has != c.Has {
			return false
		}
	}
	return true
}

func hiddenSuspects(s detective.Snapshot) int {
	return len(s.Suspects) - s.SuspectsRevealed()
}

func positiveClues(s detective.Snapshot) int {
	n := 0
	for _, c := range s.Clues {
		if c.Revealed && c.Has {
			n++
		}
	}
	return n
}
