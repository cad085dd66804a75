package play

import (
	"bufio"
	"fmt"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/random"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"strings"
)

var Group = &cobra.Group{
	ID:    "game",
	Title: "Game",
}

func init() {
	Command.Flags().Uint64("seed", 0, "seed for a reproducible case, 0 picks a random one")
}

var Command = &cobra.Command{
	Use:     "play",
	GroupID: "game",
	Short:   "Play a case in the terminal",
	Long:    "Plays a detective case in the terminal. Type help to list the commands.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		seed, err := cmd.Flags().GetUint64("seed")
		if err != nil {
			return errors.Wrap(err, "get seed flag")
		}
		var rng random.Source
		if seed == 0 {
			if rng, err = random.New(); err != nil {
				return errors.Wrap(err, "seed game")
			}
		} else {
			rng = random.NewSeeded(seed)
		}
		return Run(cmd.InOrStdin(), cmd.OutOrStdout(), detective.DefaultConfig(), rng)
	},
}

const help = `Commands:
  roll suspect|clue  roll the dice, later rolls of a turn keep the first choice
  pick <id>          question a hidden suspect after a successful suspect roll
  x <id>             rule a revealed suspect out or back in
  guess              start naming the thief
  accuse <id>        name the thief
  cancel             keep investigating instead of guessing
  new                start a new case
  quit               leave the game
`

// Run plays games read from in until the input ends or the player quits. The delays between turns are skipped.
func Run(in io.Reader, out io.Writer, cfg detective.Config, rng random.Source) error {
	g, err := detective.New(cfg, rng)
	if err != nil {
		return errors.Wrap(err, "new game")
	}

	scanner := bufio.NewScanner(in)
	WriteBoard(out, g.Snapshot())
	for {
		_, _ = io.WriteString(out, "> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return nil
		}
		if fields[0] == "new" {
			if err = g.Reset(); err != nil {
				return errors.Wrap(err, "reset game")
			}
			WriteBoard(out, g.Snapshot())
			continue
		}

		applied, known := apply(g, fields)
		switch {
		case !known:
			_, _ = io.WriteString(out, help)
			continue
		case !applied:
			_, _ = io.WriteString(out, "That doesn't work right now.\n")
			continue
		}
		if msg := g.Snapshot().Message; msg != "" {
			_, _ = fmt.Fprintln(out, msg)
		}
		g.Settle()
		WriteBoard(out, g.Snapshot())
	}
	if err = scanner.Err(); err != nil {
		return errors.Wrap(err, "read command")
	}
	return nil
}

// apply runs the command in fields. It reports whether the game accepted the action and whether the command exists.
func apply(g *detective.Game, fields []string) (bool, bool) {
	arg := func() (int, bool) {
		if len(fields) != 2 { //nolint:mnd // command and argument
			return 0, false
		}
		id, err := strconv.Atoi(fields[1])
		return id, err == nil
	}

	switch fields[0] {
	case "roll":
		category := g.Snapshot().Nominated
		if len(fields) == 2 { //nolint:mnd // command and argument
			category = detective.Category(fields[1])
		}
		return g.RollFor(category), true
	case "pick":
		id, ok := arg()
		return ok && g.PickSuspect(id), ok
	case "x":
		id, ok := arg()
		return ok && g.ToggleEliminate(id), ok
	case "guess":
		return g.StartGuess(), true
	case "accuse":
		id, ok := arg()
		return ok && g.SubmitGuess(id), ok
	case "cancel":
		return g.CancelGuess(), true
	}
	return false, false
}
