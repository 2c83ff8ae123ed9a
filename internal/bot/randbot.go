package bot

import (
	"errors"
	"slices"

	"github.com/lox/pokerelo/internal/game"
)

// ErrNoLegalAction is returned when an agent is handed a mask with nothing
// legal in it.
var ErrNoLegalAction = errors.New("no legal action")

// RandBot draws a uniformly random mask index and redraws until it lands on
// a legal one.
type RandBot struct{}

// NewRandBot creates a new RandBot instance
func NewRandBot() *RandBot {
	return &RandBot{}
}

func (RandBot) ChooseAction(d game.Decision) (int, error) {
	if !slices.Contains(d.Mask, true) {
		return 0, ErrNoLegalAction
	}
	for {
		i := d.Rand.IntN(len(d.Mask))
		if d.Mask[i] {
			return i, nil
		}
	}
}
