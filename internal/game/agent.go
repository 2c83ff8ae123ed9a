package game

import (
	"math/rand/v2"
	"slices"

	"github.com/paulhankin/poker"
)

// View is the read-only slice of a ledger visible to the acting seat.
type View struct {
	Seat      int
	Bets      []int
	Stacks    []int
	Active    []bool
	History   []Action
	HoleCards []poker.Card // acting seat only
	Board     []poker.Card
}

// Pot returns the sum of all bets.
func (v View) Pot() int {
	pot := 0
	for _, b := range v.Bets {
		pot += b
	}
	return pot
}

// ToCall returns the chips the acting seat needs to match the biggest bet.
func (v View) ToCall() int {
	return slices.Max(v.Bets) - v.Bets[v.Seat]
}

func newView(l *Ledger) View {
	return View{
		Seat:      l.ToMove,
		Bets:      slices.Clone(l.Bets),
		Stacks:    slices.Clone(l.Stacks),
		Active:    slices.Clone(l.Active),
		History:   slices.Clone(l.History),
		HoleCards: slices.Clone(l.HoleCards(l.ToMove)),
		Board:     slices.Clone(l.Board),
	}
}

// Decision is everything an agent receives when it is asked to act.
type Decision struct {
	View   View
	Mask   []bool
	Street Street
	Config *Config

	// Rand belongs to the hand being played and must not be retained.
	Rand *rand.Rand
}

// Legal returns the indices whose mask entry is true.
func (d Decision) Legal() []int {
	legal := make([]int, 0, len(d.Mask))
	for i, ok := range d.Mask {
		if ok {
			legal = append(legal, i)
		}
	}
	return legal
}

// Agent maps a decision point to a mask index. Agents are shared between
// concurrently played hands, so any randomness must come from Decision.Rand.
type Agent interface {
	ChooseAction(d Decision) (int, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(d Decision) (int, error)

func (f AgentFunc) ChooseAction(d Decision) (int, error) { return f(d) }
