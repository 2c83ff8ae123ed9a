package phh

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/lox/pokerelo/internal/game"
)

// ErrNoHand is returned when the tree has not played a hand to completion.
var ErrNoHand = errors.New("phh: no finished hand in tree")

// FromTree converts the hand last played on tree into a hand history.
// Players are listed by seat; an empty slice leaves them out.
func FromTree(tree *game.Tree, players []string, handID string) (*HandHistory, error) {
	path := tree.Path()
	if len(path) == 0 || tree.Node(path[len(path)-1]).Kind != game.TerminalNode {
		return nil, ErrNoHand
	}
	cfg := tree.Config()
	n := cfg.Seats
	if len(players) > 0 && len(players) != n {
		return nil, fmt.Errorf("phh: %d player names for %d seats", len(players), n)
	}

	h := &HandHistory{
		Variant:           "NT",
		SeatCount:         n,
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            cfg.MinRaise,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           slices.Clone(players),
		HandID:            handID,
	}
	for i := range n {
		h.Antes[i] = cfg.Ante
		h.StartingStacks[i] = cfg.BuyIn
	}
	h.BlindsOrStraddles[0] = cfg.SmallBlind
	h.BlindsOrStraddles[1] = cfg.BigBlind

	// streetStart holds each seat's contribution before the current street.
	streetStart := make([]int, n)
	for i := range n {
		streetStart[i] = min(cfg.Ante, cfg.BuyIn)
	}

	for i := 1; i < len(path); i++ {
		parent := tree.Node(path[i-1])
		child := tree.Node(path[i])

		switch parent.Kind {
		case game.ChanceNode:
			h.Actions = append(h.Actions, dealActions(&parent.Ledger, &child.Ledger)...)
			if child.Ledger.Street != game.Preflop {
				copy(streetStart, child.Ledger.Bets)
			}

		case game.PlayNode:
			index := slices.Index(parent.Children, path[i])
			seat := parent.Ledger.ToMove
			a := game.ActionAt(cfg, index, seat, parent.Ledger.Street)
			h.Actions = append(h.Actions, formatAction(a, &parent.Ledger, &child.Ledger, streetStart))
		}
	}

	last := tree.Node(path[len(path)-1])
	for i, r := range last.Rewards {
		net := int(math.Round(r))
		h.FinishingStacks[i] = cfg.BuyIn + net
		h.Winnings[i] = net + last.Ledger.Bets[i]
	}
	return h, nil
}

func dealActions(before, after *game.Ledger) []string {
	if after.Street == game.Preflop {
		out := make([]string, 0, len(after.Bets))
		for seat := range after.Bets {
			out = append(out, fmt.Sprintf("d dh p%d %s", seat+1, CardsString(after.HoleCards(seat))))
		}
		return out
	}
	if len(after.Board) <= len(before.Board) {
		return nil
	}
	return []string{"d db " + CardsString(after.Board[len(before.Board):])}
}

// formatAction renders a move. Bets and raises carry the seat's total for
// the street; an all-in that does not exceed the price is a call.
func formatAction(a game.Action, before, after *game.Ledger, streetStart []int) string {
	player := fmt.Sprintf("p%d", a.Seat+1)
	switch a.Kind {
	case game.Fold:
		return player + " f"
	case game.Call:
		return player + " cc"
	}
	if after.Bets[a.Seat] <= before.BiggestBet() {
		return player + " cc"
	}
	return fmt.Sprintf("%s cbr %d", player, after.Bets[a.Seat]-streetStart[a.Seat])
}
