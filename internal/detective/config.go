package detective

import (
	"github.com/myrjola/foxtrail/internal/errors"
	"log/slog"
	"time"
)

// ErrInvalidConfig is returned when a [Config] cannot produce a playable puzzle.
var ErrInvalidConfig = errors.NewSentinel("invalid detective config")

// Delays pace the transitions that follow an action so that the player has time to read the feedback.
type Delays struct {
	// ClueReveal is how long a revealed clue stays on display before the next turn.
	ClueReveal time.Duration
	// FailedTurn is the pause after the roll budget runs out.
	FailedTurn time.Duration
	// PicksDone is the pause after the last suspect pick.
	PicksDone time.Duration
	// Message is how long a transient message is shown.
	Message time.Duration
}

// Config holds the rules of a detective game.
type Config struct {
	Items    []Item
	Suspects []Profile
	// ItemsPerSuspect is the size of each suspect's item set.
	ItemsPerSuspect int
	// PreRevealed is the number of innocent suspects revealed when a puzzle starts.
	PreRevealed int
	Dice        int
	// RollsPerTurn is the roll budget of a single turn.
	RollsPerTurn int
	// PicksPerSuccess is the maximum number of suspects revealed after a successful suspect roll.
	PicksPerSuccess   int
	MaxPressure       int
	FailPenalty       int
	WrongGuessPenalty int
	// MaxDrawAttempts caps the item set redraws needed to make every suspect unique.
	MaxDrawAttempts int
	Delays          Delays
}

// DefaultConfig returns the standard rules: 12 suspects carrying 3 of 10 items, 3 dice with 3 rolls per turn and a
// fox that gets home after 30 steps.
func DefaultConfig() Config {
	return Config{
		Items:             DefaultItems(),
		Suspects:          DefaultSuspects(),
		ItemsPerSuspect:   3,  //nolint:mnd // game rule
		PreRevealed:       2,  //nolint:mnd // game rule
		Dice:              3,  //nolint:mnd // game rule
		RollsPerTurn:      3,  //nolint:mnd // game rule
		PicksPerSuccess:   2,  //nolint:mnd // game rule
		MaxPressure:       30, //nolint:mnd // game rule
		FailPenalty:       3,  //nolint:mnd // game rule
		WrongGuessPenalty: 5,  //nolint:mnd // game rule
		MaxDrawAttempts:   1000,
		Delays: Delays{
			ClueReveal: 1500 * time.Millisecond, //nolint:mnd // pacing
			FailedTurn: 1200 * time.Millisecond, //nolint:mnd // pacing
			PicksDone:  800 * time.Millisecond,  //nolint:mnd // pacing
			Message:    2 * time.Second,
		},
	}
}

// Validate reports whether the config can generate a puzzle.
func (c Config) Validate() error {
	var (
		m    = len(c.Items)
		n    = len(c.Suspects)
		errs []error
	)
	invalid := func(msg string, attrs ...slog.Attr) {
		errs = append(errs, errors.Wrap(ErrInvalidConfig, msg, attrs...))
	}

	if m == 0 {
		invalid("empty item catalog")
	}
	if n < 1 {
		invalid("no suspects")
	}
	if c.ItemsPerSuspect < 1 || c.ItemsPerSuspect > m {
		invalid("items per suspect out of range",
			slog.Int("items_per_suspect", c.ItemsPerSuspect), slog.Int("items", m))
	} else if binomial(m, c.ItemsPerSuspect) < n {
		invalid("not enough distinct item sets for all suspects",
			slog.Int("suspects", n), slog.Int("items", m), slog.Int("items_per_suspect", c.ItemsPerSuspect))
	}
	if c.PreRevealed < 0 || (n > 0 && c.PreRevealed > n-1) {
		invalid("pre-revealed suspects out of range", slog.Int("pre_revealed", c.PreRevealed))
	}
	if c.Dice < 1 {
		invalid("need at least one die", slog.Int("dice", c.Dice))
	}
	if c.RollsPerTurn < 1 {
		invalid("need at least one roll per turn", slog.Int("rolls_per_turn", c.RollsPerTurn))
	}
	if c.PicksPerSuccess < 1 {
		invalid("need at least one pick per success", slog.Int("picks_per_success", c.PicksPerSuccess))
	}
	if c.MaxPressure < 1 {
		invalid("max pressure must be positive", slog.Int("max_pressure", c.MaxPressure))
	}
	if c.FailPenalty < 0 || c.WrongGuessPenalty < 0 {
		invalid("penalties must not be negative",
			slog.Int("fail_penalty", c.FailPenalty), slog.Int("wrong_guess_penalty", c.WrongGuessPenalty))
	}
	if c.MaxDrawAttempts < 0 {
		invalid("max draw attempts must not be negative", slog.Int("max_draw_attempts", c.MaxDrawAttempts))
	}
	if c.Delays.ClueReveal < 0 || c.Delays.FailedTurn < 0 || c.Delays.PicksDone < 0 || c.Delays.Message < 0 {
		invalid("delays must not be negative")
	}

	return errors.Join(errs...)
}

// binomial returns n choose k, saturating at a value large enough for any roster.
func binomial(n, k int) int {
	const saturated = 1 << 30
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
		if result >= saturated {
			return saturated
		}
	}
	return result
}
