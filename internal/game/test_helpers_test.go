package game

import (
	"testing"

	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of mask indices in order.
type scripted struct {
	moves []int
	next  int
}

func (s *scripted) ChooseAction(Decision) (int, error) {
	m := s.moves[s.next]
	s.next++
	return m, nil
}

// randomAgent picks uniformly among legal indices.
var randomAgent = AgentFunc(func(d Decision) (int, error) {
	legal := d.Legal()
	return legal[d.Rand.IntN(len(legal))], nil
})

func seatAll(n int, a Agent) []Agent {
	agents := make([]Agent, n)
	for i := range agents {
		agents[i] = a
	}
	return agents
}

func headsUpConfig() Config {
	return Config{
		Seats:             2,
		BuyIn:             300,
		SmallBlind:        10,
		BigBlind:          20,
		PreflopRaises:     []float64{2.0, 3.0},
		PostflopRaises:    []float64{0.5, 1.0},
		MinRaise:          20,
		CommitmentPercent: 9,
	}
}

// playTree builds a tree whose root is replaced by a Play node over l.
func playTree(t *testing.T, cfg Config, l Ledger) *Tree {
	t.Helper()
	tree, err := NewTree(cfg, WithSeed(1))
	require.NoError(t, err)
	tree.nodes = []Node{{Kind: PlayNode, Ledger: l}}
	return tree
}

// flopLedger is a three-handed flop spot with every seat in for 40.
func flopLedger(history ...Action) Ledger {
	return Ledger{
		Bets:        []int{40, 40, 40},
		Stacks:      []int{260, 260, 260},
		Active:      []bool{true, true, true},
		Remaining:   3,
		History:     history,
		LastActions: []Action{NoAction, NoAction, NoAction},
		ToMove:      0,
		LastToAct:   2,
		Street:      Flop,
		MinRaise:    20,
	}
}

func streetActions(street Street, n int, kinds ...ActionKind) []Action {
	var history []Action
	for i := range n {
		kind := Call
		if i < len(kinds) {
			kind = kinds[i]
		}
		history = append(history, Action{Kind: kind, RaiseIndex: -1, Seat: i % 3, Street: street})
	}
	return history
}

func card(t *testing.T, s poker.Suit, r int) poker.Card {
	t.Helper()
	c, err := poker.MakeCard(s, poker.Rank(r))
	require.NoError(t, err)
	return c
}
