package detective

import (
	"fmt"
	"github.com/myrjola/foxtrail/internal/errors"
	"github.com/myrjola/foxtrail/internal/random"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// ErrSubsetsExhausted is returned when the generator gives up on finding a unique item set for every suspect.
var ErrSubsetsExhausted = errors.NewSentinel("could not draw unique item sets")

// Suspect is one of the candidates the player chooses the thief from.
type Suspect struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	// Items are sorted catalog indices. No two suspects in a puzzle share the same items.
	Items      []int `json:"items"`
	Revealed   bool  `json:"revealed"`
	Eliminated bool  `json:"eliminated"`
}

// Clue tells whether the thief carries a catalog item.
type Clue struct {
	ID       int  `json:"id"`
	Item     int  `json:"item"`
	Has      bool `json:"has"`
	Revealed bool `json:"revealed"`
}

// Text renders the clue for the given item catalog.
func (c Clue) Text(items []Item) string {
	if c.Has {
		return fmt.Sprintf("The thief has the %s", items[c.Item].Name)
	}
	return fmt.Sprintf("The thief doesn't have the %s", items[c.Item].Name)
}

// Puzzle is a generated detective case.
type Puzzle struct {
	Suspects []Suspect `json:"suspects"`
	ThiefID  int       `json:"thiefId"`
	// Clues are kept in the order they were shuffled into.
	Clues []Clue `json:"clues"`
}

// Thief returns the suspect the player is looking for.
func (p *Puzzle) Thief() Suspect {
	return p.Suspects[p.ThiefID]
}

func (p *Puzzle) clone() *Puzzle {
	suspects := make([]Suspect, len(p.Suspects))
	for i, s := range p.Suspects {
		s.Items = slices.Clone(s.Items)
		suspects[i] = s
	}
	return &Puzzle{
		Suspects: suspects,
		ThiefID:  p.ThiefID,
		Clues:    slices.Clone(p.Clues),
	}
}

// Generate creates a new puzzle with cfg and the random source rng.
//
// Every suspect gets a unique random set of cfg.ItemsPerSuspect items. One suspect is the thief and cfg.PreRevealed
// innocent suspects start revealed. There is one clue per catalog item: positive for the thief's items and negative
// for the rest.
func Generate(cfg Config, rng random.Source) (*Puzzle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	var (
		m        = len(cfg.Items)
		n        = len(cfg.Suspects)
		suspects = make([]Suspect, n)
		seen     = make(map[string]struct{}, n)
		redraws  = 0
	)
	for i, profile := range cfg.Suspects {
		items := drawItems(rng, m, cfg.ItemsPerSuspect)
		for {
			if _, ok := seen[itemsKey(items)]; !ok {
				break
			}
			if redraws >= cfg.MaxDrawAttempts {
				return nil, errors.Wrap(ErrSubsetsExhausted, "redraw item set",
					slog.Int("attempts", redraws), slog.Int("suspect", i))
			}
			redraws++
			items = drawItems(rng, m, cfg.ItemsPerSuspect)
		}
		seen[itemsKey(items)] = struct{}{}
		suspects[i] = Suspect{
			ID:         i,
			Name:       profile.Name,
			Icon:       profile.Icon,
			Items:      items,
			Revealed:   false,
			Eliminated: false,
		}
	}

	thiefID := rng.IntN(n)

	innocents := make([]int, 0, n-1)
	for _, s := range suspects {
		if s.ID != thiefID {
			innocents = append(innocents, s.ID)
		}
	}
	random.Shuffle(rng, innocents)
	for _, id := range innocents[:cfg.PreRevealed] {
		suspects[id].Revealed = true
	}

	thief := suspects[thiefID]
	clues := make([]Clue, 0, m)
	for _, item := range thief.Items {
		clues = append(clues, Clue{ID: len(clues), Item: item, Has: true, Revealed: false})
	}
	for item := range m {
		if !slices.Contains(thief.Items, item) {
			clues = append(clues, Clue{ID: len(clues), Item: item, Has: false, Revealed: false})
		}
	}
	random.Shuffle(rng, clues)

	return &Puzzle{
		Suspects: suspects,
		ThiefID:  thiefID,
		Clues:    clues,
	}, nil
}

// drawItems draws k distinct items out of m and returns them sorted.
func drawItems(rng random.Source, m, k int) []int {
	indices := make([]int, m)
	for i := range indices {
		indices[i] = i
	}
	random.Shuffle(rng, indices)
	items := indices[:k:k]
	slices.Sort(items)
	return items
}

// itemsKey is the canonical representation of a sorted item set.
func itemsKey(items []int) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = strconv.Itoa(item)
	}
	return strings.Join(parts, ",")
}
