package bot

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerelo/internal/game"
)

// CallBot checks and calls down, folding the river only to repeated raises.
// When a call would put it all-in it shoves instead.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CallBot{logger: logger}
}

func (c *CallBot) ChooseAction(d game.Decision) (int, error) {
	if d.Street == game.River && d.Mask[game.FoldIndex] && streetRaises(d) >= 2 {
		c.logger.Debug("Folding river to aggression", "seat", d.View.Seat)
		return game.FoldIndex, nil
	}
	if d.Mask[game.CallIndex] {
		return game.CallIndex, nil
	}
	if allIn := d.Config.AllInIndex(); d.Mask[allIn] {
		return allIn, nil
	}
	return firstLegal(d)
}

// streetRaises counts raises and all-ins made on the decision's street.
func streetRaises(d game.Decision) int {
	n := 0
	for _, a := range d.View.History {
		if a.Street == d.Street && (a.Kind == game.Raise || a.Kind == game.AllIn) {
			n++
		}
	}
	return n
}

func firstLegal(d game.Decision) (int, error) {
	for i, ok := range d.Mask {
		if ok {
			return i, nil
		}
	}
	return 0, ErrNoLegalAction
}
