package game

import (
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/paulhankin/poker"
)

// Dealer supplies the cards for one hand and settles it. Implementations must
// be deterministic for a given hand: dealing the same street twice yields the
// same cards, so sibling Chance nodes agree.
type Dealer interface {
	// Deal writes the cards revealed on entering street into l: hole cards
	// for Preflop, the community cards otherwise.
	Deal(l *Ledger, street Street)

	// Rewards returns each seat's net chips for a finished hand. The vector
	// sums to zero.
	Rewards(l *Ledger) []float64
}

var suits = [...]poker.Suit{poker.Club, poker.Diamond, poker.Heart, poker.Spade}

// DeckDealer deals from one shuffled 52-card deck and evaluates showdowns
// with poker.Eval7.
type DeckDealer struct {
	seats int
	cards [52]poker.Card
}

// NewDeckDealer shuffles a fresh deck with rng (Fisher-Yates).
func NewDeckDealer(seats int, rng *rand.Rand) *DeckDealer {
	d := &DeckDealer{seats: seats}
	i := 0
	for _, s := range suits {
		for r := 1; r <= 13; r++ {
			c, err := poker.MakeCard(s, poker.Rank(r))
			if err != nil {
				// Suits and ranks above are the library's full range.
				panic(err)
			}
			d.cards[i] = c
			i++
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Deal implements Dealer.
func (d *DeckDealer) Deal(l *Ledger, street Street) {
	hole := 2 * d.seats
	switch street {
	case Preflop:
		l.Hole = slices.Clone(d.cards[:hole])
	case Flop:
		l.Board = slices.Clone(d.cards[hole : hole+3])
	case Turn:
		l.Board = slices.Clone(d.cards[hole : hole+4])
	case River:
		l.Board = slices.Clone(d.cards[hole : hole+5])
	}
}

// Rewards implements Dealer. A lone survivor takes the pot; otherwise the pot
// is split into contribution layers and each layer goes to the best eligible
// hand, odd chips to the lowest seat.
func (d *DeckDealer) Rewards(l *Ledger) []float64 {
	won := make([]int, len(l.Bets))
	if l.Remaining == 1 {
		winner := slices.Index(l.Active, true)
		won[winner] = l.Pot()
	} else {
		scores := d.scores(l)
		for _, pot := range layers(l) {
			best := int16(-1 << 15)
			var winners []int
			for _, seat := range pot.eligible {
				switch {
				case scores[seat] > best:
					best = scores[seat]
					winners = []int{seat}
				case scores[seat] == best:
					winners = append(winners, seat)
				}
			}
			share := pot.amount / len(winners)
			for _, seat := range winners {
				won[seat] += share
			}
			for i := 0; i < pot.amount%len(winners); i++ {
				won[winners[i]]++
			}
		}
	}

	rewards := make([]float64, len(l.Bets))
	for i := range rewards {
		rewards[i] = float64(won[i] - l.Bets[i])
	}
	return rewards
}

func (d *DeckDealer) scores(l *Ledger) []int16 {
	scores := make([]int16, len(l.Bets))
	for seat, active := range l.Active {
		if !active {
			continue
		}
		var seven [7]poker.Card
		copy(seven[:2], l.HoleCards(seat))
		copy(seven[2:], l.Board)
		scores[seat] = poker.Eval7(&seven)
	}
	return scores
}

type sidePot struct {
	amount   int
	eligible []int // ascending seat order
}

// layers splits the pot by distinct contribution level. Folded chips count
// toward every layer they reach but folded seats are never eligible.
func layers(l *Ledger) []sidePot {
	levels := slices.Clone(l.Bets)
	sort.Ints(levels)
	levels = slices.Compact(levels)

	var pots []sidePot
	prev, carry := 0, 0
	for _, level := range levels {
		if level == 0 {
			continue
		}
		pot := sidePot{amount: carry}
		for seat, bet := range l.Bets {
			if bet >= level {
				pot.amount += level - prev
				if l.Active[seat] {
					pot.eligible = append(pot.eligible, seat)
				}
			}
		}
		prev = level
		if len(pot.eligible) == 0 {
			// Every contributor at this level folded; the chips roll into
			// the next layer.
			carry = pot.amount
			continue
		}
		carry = 0
		pots = append(pots, pot)
	}
	if carry > 0 && len(pots) > 0 {
		pots[len(pots)-1].amount += carry
	}
	return pots
}
