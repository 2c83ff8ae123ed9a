package bot

import (
	"github.com/lox/pokerelo/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct{}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot() *ManiacBot {
	return &ManiacBot{}
}

func (ManiacBot) ChooseAction(d game.Decision) (int, error) {
	allIn := d.Config.AllInIndex()
	raise := largestRaise(d)
	short := d.View.Stacks[d.View.Seat] <= 20*d.Config.BigBlind

	if d.View.ToCall() == 0 {
		// Unopened: bet 85% of the time, shoving when short or 30% of bets.
		if d.Rand.Float64() < 0.85 {
			if (short || d.Rand.Float64() < 0.3) && d.Mask[allIn] {
				return allIn, nil
			}
			if raise >= 0 {
				return raise, nil
			}
		}
		if d.Mask[game.CallIndex] {
			return game.CallIndex, nil
		}
		return firstLegal(d)
	}

	// Facing a bet: 40% shove, 40% call, 20% fold.
	r := d.Rand.Float64()
	if r < 0.4 {
		if d.Mask[allIn] {
			return allIn, nil
		}
		if raise >= 0 {
			return raise, nil
		}
	}
	if r < 0.8 && d.Mask[game.CallIndex] {
		return game.CallIndex, nil
	}
	if d.Mask[game.FoldIndex] {
		return game.FoldIndex, nil
	}
	return firstLegal(d)
}

// largestRaise returns the highest legal raise slot, or -1.
func largestRaise(d game.Decision) int {
	for i := d.Config.AllInIndex() - 1; i >= game.RaiseSlot(0); i-- {
		if d.Mask[i] {
			return i
		}
	}
	return -1
}
