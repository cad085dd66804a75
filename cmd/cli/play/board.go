package play

import (
	"fmt"
	"github.com/myrjola/foxtrail/internal/detective"
	"io"
	"strings"
)

// WriteBoard prints the board as plain text.
func WriteBoard(w io.Writer, s detective.Snapshot) {
	var b strings.Builder

	steps := s.MaxPressure - s.Pressure
	_, _ = fmt.Fprintf(&b, "Fox %s%s home (%d/%d)\n",
		strings.Repeat("·", s.Pressure), strings.Repeat("-", max(steps, 0)), s.Pressure, s.MaxPressure)

	b.WriteString("Clues:")
	for _, c := range s.Clues {
		if c.Revealed {
			_, _ = fmt.Fprintf(&b, "\n  %s %s", c.Icon, c.Text)
		}
	}
	if s.CluesRevealed() == 0 {
		b.WriteString(" none yet")
	}
	b.WriteString("\n")

	b.WriteString("Suspects:\n")
	for _, v := range s.Suspects {
		mark := " "
		if v.Eliminated {
			mark = "x"
		}
		items := "? ? ?"
		if len(v.Items) > 0 {
			names := make([]string, len(v.Items))
			for i, item := range v.Items {
				names[i] = item.Icon + " " + item.Name
			}
			items = strings.Join(names, ", ")
		}
		_, _ = fmt.Fprintf(&b, "  [%s] %2d %s %s: %s\n", mark, v.ID, v.Icon, v.Name, items)
	}

	switch s.Phase {
	case detective.PhaseRolling:
		_, _ = fmt.Fprintf(&b, "Rolls left: %d/%d", s.RollsLeft, s.RollsPerTurn)
		if len(s.Dice) > 0 {
			faces := make([]string, len(s.Dice))
			for i, d := range s.Dice {
				faces[i] = string(d)
			}
			_, _ = fmt.Fprintf(&b, ", rolling for %s: %s", s.Nominated, strings.Join(faces, " "))
		}
		b.WriteString("\n")
	case detective.PhasePickingSuspects:
		_, _ = fmt.Fprintf(&b, "Pick %d hidden suspects to question.\n", s.PicksLeft)
	case detective.PhaseGuessing:
		b.WriteString("Who is the thief?\n")
	case detective.PhaseRevealing:
	case detective.PhaseWon, detective.PhaseLost:
		if thief, ok := s.Thief(); ok {
			_, _ = fmt.Fprintf(&b, "The thief was %s %s.\n", thief.Icon, thief.Name)
		}
	}

	_, _ = io.WriteString(w, b.String())
}
