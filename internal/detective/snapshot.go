package detective

import "slices"

// SuspectView is a suspect as the player sees it. Items stay hidden until the suspect is revealed or the game is over.
type SuspectView struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Items      []Item `json:"items,omitempty"`
	Revealed   bool   `json:"revealed"`
	Eliminated bool   `json:"eliminated"`
}

// ClueView is a clue as the player sees it. Only revealed clues carry their content.
type ClueView struct {
	ID       int    `json:"id"`
	Revealed bool   `json:"revealed"`
	Has      bool   `json:"has,omitempty"`
	Text     string `json:"text,omitempty"`
	Icon     string `json:"icon,omitempty"`
	ItemName string `json:"itemName,omitempty"`
}

// Snapshot is the observable state of a game after an action.
type Snapshot struct {
	Phase        Phase         `json:"phase"`
	Suspects     []SuspectView `json:"suspects"`
	Clues        []ClueView    `json:"clues"`
	Pressure     int           `json:"pressure"`
	MaxPressure  int           `json:"maxPressure"`
	RollsLeft    int           `json:"rollsLeft"`
	RollsPerTurn int           `json:"rollsPerTurn"`
	Nominated    Category      `json:"nominated,omitempty"`
	Dice         []Category    `json:"dice"`
	PicksLeft    int           `json:"picksLeft"`
	Message      string        `json:"message"`
	// Pending is true while the turn is over and the next one has not started yet. Actions are ignored meanwhile.
	Pending bool `json:"pending"`
	// ThiefID is only set once the game is over.
	ThiefID *int `json:"thiefId,omitempty"`
}

// CluesRevealed counts the revealed clues.
func (s Snapshot) CluesRevealed() int {
	n := 0
	for _, c := range s.Clues {
		if c.Revealed {
			n++
		}
	}
	return n
}

// SuspectsRevealed counts the revealed suspects.
func (s Snapshot) SuspectsRevealed() int {
	n := 0
	for _, v := range s.Suspects {
		if v.Revealed {
			n++
		}
	}
	return n
}

// Thief returns the thief once the game is over.
func (s Snapshot) Thief() (SuspectView, bool) {
	if s.ThiefID == nil {
		return SuspectView{}, false //nolint:exhaustruct // zero value
	}
	return s.Suspects[*s.ThiefID], true
}

// Snapshot returns the observable state. It does not change the game.
func (g *Game) Snapshot() Snapshot {
	over := g.phase.Terminal()

	suspects := make([]SuspectView, len(g.puzzle.Suspects))
	for i, s := range g.puzzle.Suspects {
		view := SuspectView{
			ID:         s.ID,
			Name:       s.Name,
			Icon:       s.Icon,
			Items:      nil,
			Revealed:   s.Revealed,
			Eliminated: s.Eliminated,
		}
		if s.Revealed || over {
			view.Items = make([]Item, len(s.Items))
			for j, item := range s.Items {
				view.Items[j] = g.cfg.Items[item]
			}
		}
		suspects[i] = view
	}

	clues := make([]ClueView, len(g.puzzle.Clues))
	for i, c := range g.puzzle.Clues {
		view := ClueView{ID: c.ID, Revealed: c.Revealed} //nolint:exhaustruct // content only for revealed clues
		if c.Revealed {
			view.Has = c.Has
			view.Text = c.Text(g.cfg.Items)
			view.Icon = g.cfg.Items[c.Item].Icon
			view.ItemName = g.cfg.Items[c.Item].Name
		}
		clues[i] = view
	}

	var thiefID *int
	if over {
		id := g.puzzle.ThiefID
		thiefID = &id
	}

	return Snapshot{
		Phase:        g.phase,
		Suspects:     suspects,
		Clues:        clues,
		Pressure:     g.pressure,
		MaxPressure:  g.cfg.MaxPressure,
		RollsLeft:    g.rollsLeft,
		RollsPerTurn: g.cfg.RollsPerTurn,
		Nominated:    g.nominated,
		Dice:         slices.Clone(g.dice),
		PicksLeft:    g.picksLeft,
		Message:      g.message,
		Pending:      g.turnPending(),
		ThiefID:      thiefID,
	}
}
