package simulate

import (
	"context"
	"fmt"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/logging"
	"github.com/myrjola/foxtrail/internal/random"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
)

// maxActions stops a game that the strategy can't finish.
const maxActions = 10_000

func init() {
	Command.Flags().Int("games", 1000, "number of games to play") //nolint:mnd // default sample size
	Command.Flags().Uint64("seed", 1, "seed of the first game, the following games count up from it")
}

var Command = &cobra.Command{
	Use:     "simulate",
	GroupID: "game",
	Short:   "Play many cases automatically",
	Long:    "Plays cases with a simple strategy and reports how often the thief is caught with the default rules.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			games int
			seed  uint64
			err   error
		)
		if games, err = cmd.Flags().GetInt("games"); err != nil {
			return errors.Wrap(err, "get games flag")
		}
		if seed, err = cmd.Flags().GetUint64("seed"); err != nil {
			return errors.Wrap(err, "get seed flag")
		}
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource:   false,
			Level:       slog.LevelInfo,
			ReplaceAttr: nil,
		})))

		var report Report
		if report, err = Simulate(cmd.Context(), logger, detective.DefaultConfig(), games, seed); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "games: %d, won: %d, lost: %d, win rate: %.1f%%, average pressure: %.1f\n",
			report.Games, report.Won, report.Lost, report.WinRate()*100, report.AveragePressure) //nolint:mnd // percent
		return errors.Wrap(err, "write report")
	},
}

// Report summarises a simulation.
type Report struct {
	Games           int
	Won             int
	Lost            int
	AveragePressure float64
	AverageActions  float64
}

// WinRate is the share of won games.
func (r Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Won) / float64(r.Games)
}

// Simulate plays games with consecutive seeds starting from seed.
func Simulate(ctx context.Context, logger *slog.Logger, cfg detective.Config, games int, seed uint64) (Report, error) {
	var (
		report   Report
		pressure int
		actions  int
	)
	st := strategy{itemsPerSuspect: cfg.ItemsPerSuspect}
	for i := range games {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "simulation cancelled")
		}
		gameSeed := seed + uint64(i) //nolint:gosec // i is never negative
		g, err := detective.New(cfg, random.NewSeeded(gameSeed))
		if err != nil {
			return report, errors.Wrap(err, "new game", slog.Uint64("seed", gameSeed))
		}
		var n int
		if n, err = playOut(g, st); err != nil {
			return report, errors.Wrap(err, "play game", slog.Uint64("seed", gameSeed))
		}

		report.Games++
		actions += n
		pressure += g.Pressure()
		if g.Phase() == detective.PhaseWon {
			report.Won++
		} else {
			report.Lost++
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "game finished", slog.Uint64("seed", gameSeed),
			slog.String("phase", string(g.Phase())), slog.Int("pressure", g.Pressure()), slog.Int("actions", n))
	}
	if report.Games > 0 {
		report.AveragePressure = float64(pressure) / float64(report.Games)
		report.AverageActions = float64(actions) / float64(report.Games)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "simulation finished", slog.Int("games", report.Games),
		slog.Int("won", report.Won), slog.Float64("average_pressure", report.AveragePressure))
	return report, nil
}

// playOut lets st play g until the game is over and returns the number of actions it took.
func playOut(g *detective.Game, st strategy) (int, error) {
	actions := 0
	for !g.Phase().Terminal() {
		if actions >= maxActions {
			return actions, errors.New("game did not finish", slog.Int("actions", actions))
		}
		s := g.Snapshot()
		if !st.step(g, s) {
			return actions, errors.New("action ignored", slog.String("phase", string(s.Phase)))
		}
		actions++
		g.Settle()
	}
	return actions, nil
}
