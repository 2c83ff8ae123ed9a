package game

import (
	"slices"

	"github.com/paulhankin/poker"
)

// RoundClosed is the ToMove value once nobody owes an action on the street.
const RoundClosed = -1

// Ledger is the value record of one hand at one node. Children work on a
// Clone; a ledger is never written after a child has been derived from it.
type Ledger struct {
	Bets        []int
	Stacks      []int
	Active      []bool
	Remaining   int
	History     []Action
	LastActions []Action
	ToMove      int
	LastToAct   int
	Street      Street
	MinRaise    int

	Hole  []poker.Card // two per seat, seat-major
	Board []poker.Card
}

// newRootLedger posts antes and blinds: seat 0 small blind, seat 1 big blind.
func newRootLedger(cfg *Config) Ledger {
	n := cfg.Seats
	l := Ledger{
		Bets:        make([]int, n),
		Stacks:      make([]int, n),
		Active:      make([]bool, n),
		Remaining:   n,
		LastActions: make([]Action, n),
		ToMove:      2 % n,
		LastToAct:   1,
		Street:      Deal,
		MinRaise:    cfg.MinRaise,
	}
	for i := range n {
		l.Stacks[i] = cfg.BuyIn
		l.Active[i] = true
		l.LastActions[i] = NoAction
		l.post(i, cfg.Ante)
	}
	l.post(0, cfg.SmallBlind)
	l.post(1, cfg.BigBlind)
	return l
}

func (l *Ledger) post(seat, amount int) {
	amount = min(amount, l.Stacks[seat])
	l.Stacks[seat] -= amount
	l.Bets[seat] += amount
}

// Clone returns a deep copy.
func (l *Ledger) Clone() Ledger {
	c := *l
	c.Bets = slices.Clone(l.Bets)
	c.Stacks = slices.Clone(l.Stacks)
	c.Active = slices.Clone(l.Active)
	c.History = slices.Clone(l.History)
	c.LastActions = slices.Clone(l.LastActions)
	c.Hole = slices.Clone(l.Hole)
	c.Board = slices.Clone(l.Board)
	return c
}

// Pot is the sum of every seat's bet.
func (l *Ledger) Pot() int {
	pot := 0
	for _, b := range l.Bets {
		pot += b
	}
	return pot
}

// BiggestBet is the largest single bet on the table.
func (l *Ledger) BiggestBet() int {
	return slices.Max(l.Bets)
}

// record appends an action and stores it as the seat's last action.
func (l *Ledger) record(a Action) {
	l.History = append(l.History, a)
	l.LastActions[a.Seat] = a
}

// nextToAct walks the seats after from, up to and including LastToAct, and
// returns the first one still in the hand with chips behind.
func (l *Ledger) nextToAct(from int) int {
	n := len(l.Bets)
	seat := from
	for seat != l.LastToAct {
		seat = (seat + 1) % n
		if l.Active[seat] && l.Stacks[seat] > 0 {
			return seat
		}
	}
	return RoundClosed
}

// seatBefore is the seat immediately before seat in turn order.
func (l *Ledger) seatBefore(seat int) int {
	n := len(l.Bets)
	return (seat - 1 + n) % n
}

// actors counts active seats that still hold chips.
func (l *Ledger) actors() int {
	count := 0
	for i, active := range l.Active {
		if active && l.Stacks[i] > 0 {
			count++
		}
	}
	return count
}

// streetActions returns how many actions were taken on the current street
// and whether one of them was an all-in.
func (l *Ledger) streetActions() (count int, allIn bool) {
	for i := len(l.History) - 1; i >= 0; i-- {
		a := l.History[i]
		if a.Street != l.Street {
			break
		}
		count++
		if a.Kind == AllIn {
			allIn = true
		}
	}
	return count, allIn
}

// openStreet positions the turn pointers for the first action of a new street.
func (l *Ledger) openStreet() {
	l.ToMove = RoundClosed
	for seat := range l.Bets {
		if l.Active[seat] && l.Stacks[seat] > 0 {
			l.ToMove = seat
			break
		}
	}
	if l.ToMove != RoundClosed {
		l.LastToAct = l.seatBefore(l.ToMove)
	}
}

// HoleCards returns the two cards dealt to seat, or nil before the deal.
func (l *Ledger) HoleCards(seat int) []poker.Card {
	if len(l.Hole) < 2*(seat+1) {
		return nil
	}
	return l.Hole[2*seat : 2*seat+2]
}
