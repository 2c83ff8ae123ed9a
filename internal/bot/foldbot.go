package bot

import "github.com/lox/pokerelo/internal/game"

// FoldBot checks when it can and folds to any bet.
type FoldBot struct{}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot() *FoldBot {
	return &FoldBot{}
}

func (FoldBot) ChooseAction(d game.Decision) (int, error) {
	if d.View.ToCall() == 0 && d.Mask[game.CallIndex] {
		return game.CallIndex, nil
	}
	if d.Mask[game.FoldIndex] {
		return game.FoldIndex, nil
	}
	return firstLegal(d)
}
