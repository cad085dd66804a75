package detective

import (
	"cmp"
	"encoding"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/random"
	"log/slog"
	"slices"
	"time"
)

// ErrInvalidState is returned when a [State] does not fit the config it is restored with.
var ErrInvalidState = errors.NewSentinel("invalid game state")

// State is the complete, serialisable state of a [Game].
type State struct {
	Puzzle    Puzzle           `json:"puzzle"`
	Pressure  int              `json:"pressure"`
	Phase     Phase            `json:"phase"`
	RollsLeft int              `json:"rollsLeft"`
	Nominated Category         `json:"nominated,omitempty"`
	Dice      []Category       `json:"dice,omitempty"`
	PicksLeft int              `json:"picksLeft"`
	Message   string           `json:"message,omitempty"`
	Clock     time.Duration    `json:"clock"`
	Pending   []ScheduledEvent `json:"pending,omitempty"`
	// Rand is the position of the randomness source, when the source can save it. Restoring it makes the dice
	// continue where they stopped instead of replaying the sequence from the seed.
	Rand []byte `json:"rand,omitempty"`
}

// State returns a copy of the game state.
func (g *Game) State() State {
	state := State{
		Puzzle:    *g.puzzle.clone(),
		Pressure:  g.pressure,
		Phase:     g.phase,
		RollsLeft: g.rollsLeft,
		Nominated: g.nominated,
		Dice:      slices.Clone(g.dice),
		PicksLeft: g.picksLeft,
		Message:   g.message,
		Clock:     g.clock,
		Pending:   slices.Clone(g.pending),
		Rand:      nil,
	}
	if m, ok := g.rng.(encoding.BinaryMarshaler); ok {
		if b, err := m.MarshalBinary(); err == nil {
			state.Rand = b
		}
	}
	return state
}

// Restore rebuilds a game from state saved with [Game.State]. When the state carries the position of the randomness
// source and rng can load it, rng is moved to that position.
func Restore(cfg Config, state State, rng random.Source) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	if err := state.validate(cfg); err != nil {
		return nil, err
	}
	if u, ok := rng.(encoding.BinaryUnmarshaler); ok && len(state.Rand) > 0 {
		if err := u.UnmarshalBinary(state.Rand); err != nil {
			return nil, errors.Wrap(ErrInvalidState, "restore random source", slog.String("error", err.Error()))
		}
	}
	pending := slices.Clone(state.Pending)
	slices.SortStableFunc(pending, func(a, b ScheduledEvent) int {
		return cmp.Compare(a.Due, b.Due)
	})
	return &Game{
		cfg:       cfg,
		rng:       rng,
		puzzle:    state.Puzzle.clone(),
		pressure:  state.Pressure,
		phase:     state.Phase,
		rollsLeft: state.RollsLeft,
		nominated: state.Nominated,
		dice:      slices.Clone(state.Dice),
		picksLeft: state.PicksLeft,
		message:   state.Message,
		clock:     state.Clock,
		pending:   pending,
	}, nil
}

func (s State) validate(cfg Config) error {
	invalid := func(msg string, attrs ...slog.Attr) error {
		return errors.Wrap(ErrInvalidState, msg, attrs...)
	}
	if len(s.Puzzle.Suspects) != len(cfg.Suspects) {
		return invalid("suspect count mismatch",
			slog.Int("suspects", len(s.Puzzle.Suspects)), slog.Int("want", len(cfg.Suspects)))
	}
	if len(s.Puzzle.Clues) != len(cfg.Items) {
		return invalid("clue count mismatch", slog.Int("clues", len(s.Puzzle.Clues)), slog.Int("want", len(cfg.Items)))
	}
	if s.Puzzle.ThiefID < 0 || s.Puzzle.ThiefID >= len(s.Puzzle.Suspects) {
		return invalid("thief out of range", slog.Int("thief_id", s.Puzzle.ThiefID))
	}
	for i, suspect := range s.Puzzle.Suspects {
		if suspect.ID != i {
			return invalid("suspect id out of order", slog.Int("index", i), slog.Int("id", suspect.ID))
		}
		for _, item := range suspect.Items {
			if item < 0 || item >= len(cfg.Items) {
				return invalid("suspect item out of range", slog.Int("suspect", i), slog.Int("item", item))
			}
		}
	}
	for _, clue := range s.Puzzle.Clues {
		if clue.Item < 0 || clue.Item >= len(cfg.Items) {
			return invalid("clue item out of range", slog.Int("clue", clue.ID), slog.Int("item", clue.Item))
		}
	}
	if !s.Phase.Valid() {
		return invalid("unknown phase", slog.String("phase", string(s.Phase)))
	}
	if s.Nominated != "" && !s.Nominated.Valid() {
		return invalid("unknown category", slog.String("category", string(s.Nominated)))
	}
	if (s.Nominated == "") != (s.Dice == nil) {
		return invalid("dice and nominated category disagree",
			slog.String("category", string(s.Nominated)), slog.Int("dice", len(s.Dice)))
	}
	if s.Dice != nil && len(s.Dice) != cfg.Dice {
		return invalid("dice count mismatch", slog.Int("dice", len(s.Dice)), slog.Int("want", cfg.Dice))
	}
	for i, face := range s.Dice {
		if !face.Valid() {
			return invalid("unknown die face", slog.Int("die", i), slog.String("face", string(face)))
		}
	}
	if s.RollsLeft < 0 || s.RollsLeft > cfg.RollsPerTurn {
		return invalid("rolls left out of range", slog.Int("rolls_left", s.RollsLeft))
	}
	if s.PicksLeft < 0 || s.PicksLeft > cfg.PicksPerSuccess {
		return invalid("picks left out of range", slog.Int("picks_left", s.PicksLeft))
	}
	for _, event := range s.Pending {
		if !event.Kind.Valid() {
			return invalid("unknown event", slog.String("kind", string(event.Kind)))
		}
	}
	if s.Pressure < 0 || s.Pressure > cfg.MaxPressure {
		return invalid("pressure out of range", slog.Int("pressure", s.Pressure))
	}
	return nil
}
