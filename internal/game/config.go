package game

import (
	"errors"
	"fmt"
)

// Config holds the immutable sizing parameters for a run.
type Config struct {
	Seats      int
	BuyIn      int
	Ante       int
	SmallBlind int
	BigBlind   int

	// Raise ladders expressed as ratios. Preflop ratios multiply the current
	// biggest bet, postflop ratios multiply the pot. A ratio of 0 disables
	// the slot without changing the mask layout.
	PreflopRaises  []float64
	PostflopRaises []float64

	MinRaise int

	// CommitmentPercent is the share of the buy-in a seat must keep behind
	// after a voluntary raise; below it the raise must be made as an all-in.
	CommitmentPercent int
}

// DefaultConfig returns the three-handed configuration used for training runs.
func DefaultConfig() Config {
	return Config{
		Seats:             3,
		BuyIn:             300,
		SmallBlind:        10,
		BigBlind:          20,
		PreflopRaises:     []float64{2.0, 3.0, 0, 0},
		PostflopRaises:    []float64{0.25, 0.5, 0.66, 1.0},
		MinRaise:          20,
		CommitmentPercent: 9,
	}
}

// ActionCount returns the length of every legality mask: fold, call, the
// raise slots and all-in.
func (c *Config) ActionCount() int {
	return 3 + len(c.PostflopRaises)
}

// AllInIndex returns the mask slot of the all-in action.
func (c *Config) AllInIndex() int {
	return 2 + len(c.PostflopRaises)
}

// MaxStreetActions is the number of actions on one street after which raises
// are capped unless somebody has already moved all-in.
func (c *Config) MaxStreetActions() int {
	return c.Seats*3 - c.Seats
}

// raises returns the ladder in force on the given street.
func (c *Config) raises(street Street) []float64 {
	if street == Preflop {
		return c.PreflopRaises
	}
	return c.PostflopRaises
}

// commitmentFloor is the smallest stack a seat may keep after a raise.
func (c *Config) commitmentFloor() float64 {
	return float64(c.CommitmentPercent) * float64(c.BuyIn) / 100.0
}

// Validate checks the configuration for values the tree cannot play.
func (c *Config) Validate() error {
	var errs []error
	if c.Seats < 2 {
		errs = append(errs, fmt.Errorf("seats must be at least 2, got %d", c.Seats))
	}
	if c.BuyIn <= 0 {
		errs = append(errs, fmt.Errorf("buy-in must be positive, got %d", c.BuyIn))
	}
	if c.Ante < 0 || c.SmallBlind < 0 || c.BigBlind < 0 {
		errs = append(errs, errors.New("ante and blinds cannot be negative"))
	}
	if c.BigBlind < c.SmallBlind {
		errs = append(errs, fmt.Errorf("big blind %d is smaller than small blind %d", c.BigBlind, c.SmallBlind))
	}
	if c.Ante+c.BigBlind >= c.BuyIn {
		errs = append(errs, fmt.Errorf("ante plus big blind (%d) must be below the buy-in (%d)", c.Ante+c.BigBlind, c.BuyIn))
	}
	if len(c.PreflopRaises) != len(c.PostflopRaises) {
		errs = append(errs, fmt.Errorf("preflop ladder has %d slots but postflop ladder has %d",
			len(c.PreflopRaises), len(c.PostflopRaises)))
	}
	for _, r := range append(append([]float64{}, c.PreflopRaises...), c.PostflopRaises...) {
		if r < 0 {
			errs = append(errs, fmt.Errorf("raise ratio %v is negative", r))
		}
	}
	if c.MinRaise < 0 {
		errs = append(errs, fmt.Errorf("minimum raise cannot be negative, got %d", c.MinRaise))
	}
	if c.CommitmentPercent < 0 || c.CommitmentPercent > 100 {
		errs = append(errs, fmt.Errorf("commitment percent must be within 0..100, got %d", c.CommitmentPercent))
	}
	if c.Seats > 23 {
		// 52 cards: 2 per seat plus a 5 card board.
		errs = append(errs, fmt.Errorf("a single deck cannot deal %d seats", c.Seats))
	}
	return errors.Join(errs...)
}
