// Package simulator measures one policy's win rate against a fixed set of
// opponents by playing seeded hands through the game tree.
package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerelo/internal/bot"
	"github.com/lox/pokerelo/internal/game"
	"github.com/lox/pokerelo/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Game      game.Config
	Hands     int
	Hero      string
	Opponents []string // one per remaining seat
	Seed      int64
	Timeout   time.Duration // per hand; zero disables. See playHandWithTimeout.
	Logger    *log.Logger
	Loader    bot.Loader
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	hero   game.Agent
	opps   []game.Agent
}

// New resolves the agents named in config.
func New(config Config) (*Simulator, error) {
	if err := config.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if len(config.Opponents) != config.Game.Seats-1 {
		return nil, fmt.Errorf("need %d opponents, got %d", config.Game.Seats-1, len(config.Opponents))
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Loader == nil {
		config.Loader = bot.NewResolver(config.Logger)
	}

	s := &Simulator{config: config}
	var err error
	if s.hero, err = config.Loader.Load(config.Hero, 0); err != nil {
		return nil, err
	}
	for _, id := range config.Opponents {
		a, err := config.Loader.Load(id, 0)
		if err != nil {
			return nil, err
		}
		s.opps = append(s.opps, a)
	}
	return s, nil
}

// Run plays every hand twice with the same cards, the hero in a different
// seat each time, and returns the hero's net chips per hand. The hero's seat
// rotates across hands to remove positional bias.
func (s *Simulator) Run(ctx context.Context) (*statistics.Results, error) {
	stats := &statistics.Results{}
	seats := s.config.Game.Seats

	for hand := 0; hand < s.config.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		handSeed := s.config.Seed + int64(hand)
		seat := hand % seats
		swapped := (seat + 1) % seats

		for _, heroSeat := range []int{seat, swapped} {
			net, err := s.playHandWithTimeout(ctx, handSeed, heroSeat)
			if err != nil {
				return stats, fmt.Errorf("hand %d (seed %d, seat %d): %w", hand+1, handSeed, heroSeat, err)
			}
			stats.Add(net)
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playHandWithTimeout runs a single hand with timeout protection. Agents take
// no context, so a hand that times out keeps running in its goroutine until
// the agents return; its result is discarded.
func (s *Simulator) playHandWithTimeout(ctx context.Context, handSeed int64, heroSeat int) (float64, error) {
	if s.config.Timeout <= 0 {
		return s.playHand(handSeed, heroSeat)
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	type result struct {
		net float64
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		net, err := s.playHand(handSeed, heroSeat)
		resultCh <- result{net, err}
	}()

	select {
	case r := <-resultCh:
		return r.net, r.err
	case <-ctx.Done():
		return 0, fmt.Errorf("hand timed out after %v: %w", s.config.Timeout, ctx.Err())
	}
}

// playHand seats the hero at heroSeat and the opponents in order around it.
func (s *Simulator) playHand(handSeed int64, heroSeat int) (float64, error) {
	agents := make([]game.Agent, 0, s.config.Game.Seats)
	agents = append(agents, s.opps[:heroSeat]...)
	agents = append(agents, s.hero)
	agents = append(agents, s.opps[heroSeat:]...)

	tree, err := game.NewTree(s.config.Game,
		game.WithSeed(handSeed),
		game.WithLogger(s.config.Logger))
	if err != nil {
		return 0, err
	}
	rewards, err := tree.PlayOneHand(agents, true)
	if err != nil {
		return 0, err
	}
	return rewards[heroSeat], nil
}

// PrintSummary writes a short report of the hero's results.
func PrintSummary(w io.Writer, stats *statistics.Results, hero string, bigBlind int) {
	lo, hi := stats.ConfidenceInterval95()
	fmt.Fprintf(w, "%s over %d hands\n", hero, stats.Hands)
	fmt.Fprintf(w, "  mean      %+.2f chips/hand (%.2f bb/100)\n", stats.Mean(), stats.PerHundred(bigBlind))
	fmt.Fprintf(w, "  std dev   %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "  95%% CI    [%+.2f, %+.2f]\n", lo, hi)
	fmt.Fprintf(w, "  won/lost  %d/%d (best %+.0f, worst %+.0f)\n", stats.Wins, stats.Losses, stats.Best, stats.Worst)
}
