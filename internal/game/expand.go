package game

import (
	"fmt"
	"math"
)

// Expand builds the children of a node. It is idempotent: a node that has
// already been expanded is left untouched.
func (t *Tree) Expand(id NodeID) error {
	if id < 0 || int(id) >= len(t.nodes) {
		return fmt.Errorf("node %d out of range", id)
	}
	if t.nodes[id].Expanded {
		return nil
	}

	var err error
	switch t.nodes[id].Kind {
	case PlayNode:
		err = t.expandPlay(id)
	case ChanceNode:
		t.expandChance(id)
	case TerminalNode:
		t.settle(id)
	}
	if err != nil {
		return err
	}
	t.nodes[id].Expanded = true
	return nil
}

// closedKind is the successor once nobody owes an action on street.
func closedKind(street Street) NodeKind {
	if street == River {
		return TerminalNode
	}
	return ChanceNode
}

func (t *Tree) expandPlay(id NodeID) error {
	// The parent ledger is read-only from here on; every branch clones it.
	parent := t.nodes[id].Ledger
	cfg := t.cfg

	size := cfg.ActionCount()
	children := make([]NodeID, size)
	for i := range children {
		children[i] = NoNode
	}
	mask := make([]bool, size)

	seat := parent.ToMove
	if seat < 0 || seat >= cfg.Seats || !parent.Active[seat] {
		return invariant(&parent, "play node has no valid seat to move")
	}

	pot := parent.Pot()
	biggest := parent.BiggestBet()
	bet, stack := parent.Bets[seat], parent.Stacks[seat]
	toCall := biggest - bet
	street := parent.Street
	count, streetAllIn := parent.streetActions()
	capped := !streetAllIn && count > cfg.MaxStreetActions()

	// Fold.
	if biggest > bet {
		c := parent.Clone()
		c.Active[seat] = false
		c.Remaining--
		c.record(ActionAt(cfg, 0, seat, street))
		c.ToMove = c.nextToAct(seat)
		kind := PlayNode
		switch {
		case c.Remaining == 1:
			kind = TerminalNode
		case c.ToMove == RoundClosed:
			kind = closedKind(street)
		}
		children[0] = t.add(kind, c)
		mask[0] = true
	}

	// Call. A call that would empty the stack is only reachable as all-in.
	if toCall < stack {
		c := parent.Clone()
		c.post(seat, toCall)
		c.record(ActionAt(cfg, 1, seat, street))
		c.ToMove = c.nextToAct(seat)
		kind := PlayNode
		if c.ToMove == RoundClosed {
			kind = closedKind(street)
		}
		children[1] = t.add(kind, c)
		mask[1] = true
	}

	// Raises, one slot per ladder ratio.
	responders := parent.actors()
	if stack > 0 {
		responders--
	}
	for i, ratio := range cfg.raises(street) {
		slot := 2 + i
		if ratio == 0 || capped || responders == 0 {
			continue
		}

		var raise, moved int
		if street == Preflop {
			target := int(math.Round(ratio * float64(biggest)))
			raise = target - biggest
			moved = target - bet
		} else {
			raise = int(math.Round(ratio * float64(pot)))
			moved = toCall + raise
		}
		if raise <= 0 || raise < parent.MinRaise || moved >= stack ||
			float64(stack-moved) < cfg.commitmentFloor() {
			continue
		}

		c := parent.Clone()
		c.post(seat, moved)
		c.record(ActionAt(cfg, slot, seat, street))
		c.LastToAct = c.seatBefore(seat)
		c.ToMove = c.nextToAct(seat)
		if c.ToMove == RoundClosed {
			return invariant(&c, "raise slot %d left nobody to act", i)
		}
		children[slot] = t.add(PlayNode, c)
		mask[slot] = true
	}

	// All-in.
	if slot := cfg.AllInIndex(); stack > 0 && !capped {
		c := parent.Clone()
		c.post(seat, stack)
		c.record(ActionAt(cfg, slot, seat, street))
		c.LastToAct = c.seatBefore(seat)
		c.ToMove = c.nextToAct(seat)
		kind := PlayNode
		if c.ToMove == RoundClosed {
			kind = closedKind(street)
		}
		children[slot] = t.add(kind, c)
		mask[slot] = true
	}

	legal := 0
	for _, ok := range mask {
		if ok {
			legal++
		}
	}
	if legal == 0 {
		return invariant(&parent, "no legal actions for seat %d", seat)
	}

	node := &t.nodes[id]
	node.Children = children
	node.Mask = mask
	return nil
}

// expandChance deals the next street and opens its betting round. When fewer
// than two seats can still bet, the hand runs out to the river.
func (t *Tree) expandChance(id NodeID) {
	if t.dealer == nil {
		t.dealer = NewDeckDealer(t.cfg.Seats, t.rng)
	}

	c := t.nodes[id].Ledger.Clone()
	c.Street++
	t.dealer.Deal(&c, c.Street)
	if c.Street != Preflop {
		c.openStreet()
	}

	kind := PlayNode
	switch {
	case c.actors() >= 2 && c.ToMove != RoundClosed:
	case c.Street < River:
		kind = ChanceNode
	default:
		kind = TerminalNode
	}
	child := t.add(kind, c)

	node := &t.nodes[id]
	node.Children = []NodeID{child}
	node.Mask = []bool{true}
}

func (t *Tree) settle(id NodeID) {
	if t.dealer == nil {
		t.dealer = NewDeckDealer(t.cfg.Seats, t.rng)
	}
	node := &t.nodes[id]
	node.Rewards = t.dealer.Rewards(&node.Ledger)
}
