package detective

import (
	"slices"
	"time"
)

// EventKind identifies a delayed transition.
type EventKind string

const (
	// EventNewTurn ends the current turn and refills the roll budget.
	EventNewTurn EventKind = "new-turn"
	// EventClearMessage clears the transient message.
	EventClearMessage EventKind = "clear-message"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	return k == EventNewTurn || k == EventClearMessage
}

// ScheduledEvent is a transition that fires once the game clock reaches Due.
type ScheduledEvent struct {
	Kind EventKind     `json:"kind"`
	Due  time.Duration `json:"due"`
}

// Advance moves the game clock forward by d and fires the events that became due, earliest first.
//
// The clock is logical: callers decide how much time has passed, which keeps tests deterministic.
func (g *Game) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := g.clock + d
	for len(g.pending) > 0 && g.pending[0].Due <= target {
		event := g.pending[0]
		g.pending = g.pending[1:]
		g.clock = event.Due
		g.fire(event.Kind)
	}
	g.clock = target
}

// NextDue returns how far the clock has to advance for the next scheduled event to fire.
func (g *Game) NextDue() (time.Duration, bool) {
	if len(g.pending) == 0 {
		return 0, false
	}
	return g.pending[0].Due - g.clock, true
}

// Settle fires every scheduled event.
func (g *Game) Settle() {
	for {
		d, ok := g.NextDue()
		if !ok {
			return
		}
		g.Advance(d)
	}
}

func (g *Game) fire(kind EventKind) {
	switch kind {
	case EventNewTurn:
		g.startNewTurn()
	case EventClearMessage:
		g.message = ""
	}
}

// schedule queues kind to fire after delay. Events with the same due time fire in the order they were scheduled.
func (g *Game) schedule(kind EventKind, delay time.Duration) {
	event := ScheduledEvent{Kind: kind, Due: g.clock + delay}
	i, _ := slices.BinarySearchFunc(g.pending, event, func(e ScheduledEvent, target ScheduledEvent) int {
		if e.Due <= target.Due {
			return -1
		}
		return 1
	})
	g.pending = slices.Insert(g.pending, i, event)
}

func (g *Game) cancel(kind EventKind) {
	g.pending = slices.DeleteFunc(g.pending, func(e ScheduledEvent) bool {
		return e.Kind == kind
	})
}

// turnPending reports whether the current turn is over and waiting for the next one to start.
func (g *Game) turnPending() bool {
	return slices.ContainsFunc(g.pending, func(e ScheduledEvent) bool {
		return e.Kind == EventNewTurn
	})
}
