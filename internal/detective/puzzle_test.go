package detective_test

import (
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/random"
	"github.com/stretchr/testify/require"
	"slices"
	"testing"
)

// constSource always draws zero, so every shuffle produces the same permutation.
type constSource struct{}

func (constSource) IntN(int) int { return 0 }

func TestGenerate(t *testing.T) {
	cfg := detective.DefaultConfig()
	for seed := range uint64(200) {
		puzzle, err := detective.Generate(cfg, random.NewSeeded(seed))
		require.NoError(t, err)
		require.Len(t, puzzle.Suspects, 12)

		seen := map[string]bool{}
		revealed := 0
		for i, s := range puzzle.Suspects {
			require.Equal(t, i, s.ID)
			require.Len(t, s.Items, 3)
			require.True(t, slices.IsSorted(s.Items), "items must be sorted")
			require.Len(t, slices.Compact(slices.Clone(s.Items)), 3, "items must be distinct")
			key := ""
			for _, item := range s.Items {
				require.GreaterOrEqual(t, item, 0)
				require.Less(t, item, 10)
				key += string(rune('a' + item))
			}
			require.False(t, seen[key], "duplicate item set %v", s.Items)
			seen[key] = true
			require.False(t, s.Eliminated)
			if s.Revealed {
				revealed++
				require.NotEqual(t, puzzle.ThiefID, s.ID, "thief must not start revealed")
			}
		}
		require.Equal(t, 2, revealed)

		thief := puzzle.Thief()
		require.Len(t, puzzle.Clues, 10)
		var positive, negative []int
		clueIDs := map[int]bool{}
		for _, c := range puzzle.Clues {
			require.False(t, c.Revealed)
			require.False(t, clueIDs[c.ID])
			clueIDs[c.ID] = true
			if c.Has {
				positive = append(positive, c.Item)
				require.Contains(t, thief.Items, c.Item)
			} else {
				negative = append(negative, c.Item)
				require.NotContains(t, thief.Items, c.Item)
			}
		}
		require.Len(t, positive, 3)
		require.Len(t, negative, 7)
		slices.Sort(positive)
		require.Equal(t, thief.Items, positive)
	}
}

func TestGenerate_deterministic(t *testing.T) {
	cfg := detective.DefaultConfig()
	a, err := detective.Generate(cfg, random.NewSeeded(7))
	require.NoError(t, err)
	b, err := detective.Generate(cfg, random.NewSeeded(7))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerate_subsetsExhausted(t *testing.T) {
	cfg := detective.DefaultConfig()
	cfg.MaxDrawAttempts = 5
	_, err := detective.Generate(cfg, constSource{})
	require.ErrorIs(t, err, detective.ErrSubsetsExhausted)
}

func TestGenerate_tightCatalog(t *testing.T) {
	// Four items taken two at a time give exactly six distinct sets for six suspects.
	cfg := detective.DefaultConfig()
	cfg.Items = cfg.Items[:4]
	cfg.Suspects = cfg.Suspects[:6]
	cfg.ItemsPerSuspect = 2
	cfg.MaxDrawAttempts = 100_000
	puzzle, err := detective.Generate(cfg, random.NewSeeded(3))
	require.NoError(t, err)
	seen := map[[2]int]bool{}
	for _, s := range puzzle.Suspects {
		key := [2]int{s.Items[0], s.Items[1]}
		require.False(t, seen[key])
		seen[key] = true
	}
	require.Len(t, seen, 6)
	require.Len(t, puzzle.Clues, 4)
}

func TestClue_Text(t *testing.T) {
	items := detective.DefaultItems()
	require.Equal(t, "The thief has the hat", detective.Clue{ID: 0, Item: 0, Has: true, Revealed: false}.Text(items))
	require.Equal(t, "The thief doesn't have the shield",
		detective.Clue{ID: 1, Item: 9, Has: false, Revealed: false}.Text(items))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *detective.Config)
		wantErr bool
	}{
		{name: "default", modify: func(_ *detective.Config) {}, wantErr: false},
		{name: "more items per suspect than items", modify: func(c *detective.Config) { c.ItemsPerSuspect = 11 }, wantErr: true},
		{name: "no items per suspect", modify: func(c *detective.Config) { c.ItemsPerSuspect = 0 }, wantErr: true},
		{name: "too few item sets", modify: func(c *detective.Config) { c.Items = c.Items[:3]; c.ItemsPerSuspect = 1 }, wantErr: true},
		{name: "pre-revealing every innocent is fine", modify: func(c *detective.Config) { c.PreRevealed = 11 }, wantErr: false},
		{name: "pre-revealing the thief", modify: func(c *detective.Config) { c.PreRevealed = 12 }, wantErr: true},
		{name: "no dice", modify: func(c *detective.Config) { c.Dice = 0 }, wantErr: true},
		{name: "no rolls", modify: func(c *detective.Config) { c.RollsPerTurn = 0 }, wantErr: true},
		{name: "no max pressure", modify: func(c *detective.Config) { c.MaxPressure = 0 }, wantErr: true},
		{name: "negative penalty", modify: func(c *detective.Config) { c.FailPenalty = -1 }, wantErr: true},
		{name: "no suspects", modify: func(c *detective.Config) { c.Suspects = nil; c.PreRevealed = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := detective.DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, detective.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}
