package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lox/pokerelo/internal/game"
	"github.com/lox/pokerelo/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// Summary describes a finished Play call.
type Summary struct {
	Workers int
	Rounds  int

	Hands       int64 // hands played and rated
	Illegal     int64 // hands abandoned for an illegal agent choice
	Failed      int64 // hands abandoned for any other agent error
	Substituted int64 // illegal choices replaced in permissive mode
	Contention  int64 // failed all-or-nothing lock attempts

	Dropped int // records removed for a negative Elo
	Elapsed time.Duration
}

type counters struct {
	hands, illegal, failed, substituted, contention atomic.Int64
}

// Play runs roughly totalHands hands: every policy acts totalHands/AgentCount
// times. The roster is sorted by Elo and split into contiguous batches, one
// per worker. A hand that fails because an agent misbehaved is logged,
// counted and skipped without touching any rating; a tree invariant
// violation or context cancellation stops every worker and is returned.
// Whatever the outcome, records with a negative Elo are then dropped and the
// roster is left sorted by Elo.
func (t *Tournament) Play(ctx context.Context, totalHands int) (Summary, error) {
	if len(t.records) < t.cfg.Seats {
		return Summary{}, fmt.Errorf("%w: have %d, need %d seats", ErrNotEnoughAgents, len(t.records), t.cfg.Seats)
	}

	start := t.clock.Now()
	t.sortByElo()
	roster := t.records

	workers := t.opts.Workers
	batch := (len(roster) + workers - 1) / workers
	rounds := t.ScheduledHands(totalHands) / len(roster)

	t.logger.Info("Starting tournament",
		"agents", len(roster),
		"workers", workers,
		"batch", batch,
		"rounds", rounds)

	var c counters
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*batch, min((w+1)*batch, len(roster))
		if lo >= hi {
			continue
		}
		rng := randutil.New(randutil.Stream(t.seed, w))
		g.Go(func() error {
			for range rounds {
				for acting := lo; acting < hi; acting++ {
					if err := ctx.Err(); err != nil {
						return err
					}
					err := t.playHand(ctx, roster, acting, rng, &c)
					if t.opts.Progress != nil {
						t.opts.Progress()
					}
					if err := t.handleHandError(roster[acting], err, &c); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	err := g.Wait()

	summary := Summary{
		Workers:     workers,
		Rounds:      rounds,
		Hands:       c.hands.Load(),
		Illegal:     c.illegal.Load(),
		Failed:      c.failed.Load(),
		Substituted: c.substituted.Load(),
		Contention:  c.contention.Load(),
		Dropped:     t.prune(),
	}
	t.sortByElo()
	summary.Elapsed = t.clock.Since(start)

	if err != nil {
		t.logger.Error("Tournament stopped", "error", err, "hands", summary.Hands)
		return summary, err
	}
	t.logger.Info("Tournament finished",
		"hands", summary.Hands,
		"illegal", summary.Illegal,
		"failed", summary.Failed,
		"dropped", summary.Dropped,
		"elapsed", summary.Elapsed)
	return summary, nil
}

// handleHandError classifies a hand's error: nil means keep going.
func (t *Tournament) handleHandError(acting *record, err error, c *counters) error {
	switch {
	case err == nil:
		c.hands.Add(1)
		return nil
	case errors.Is(err, game.ErrTreeInvariant), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, game.ErrIllegalAction):
		c.illegal.Add(1)
		t.logger.Warn("Skipping hand with illegal action", "agent", acting.identity, "error", err)
		return nil
	default:
		c.failed.Add(1)
		t.logger.Warn("Skipping failed hand", "agent", acting.identity, "error", err)
		return nil
	}
}

// playHand matches, seats, plays and rates one hand for roster[acting].
func (t *Tournament) playHand(ctx context.Context, roster []*record, acting int, rng *rand.Rand, c *counters) error {
	table := t.matchmake(roster, acting, rng)

	// seating[s] is the table position sitting in seat s.
	seating := rng.Perm(len(table))
	agents := make([]game.Agent, len(table))
	for s, p := range seating {
		agents[s] = table[p].agent
	}

	tree, err := game.NewTree(t.cfg,
		game.WithSeed(rng.Int64()),
		game.WithLogger(t.logger),
		game.WithPermissive(t.opts.Permissive))
	if err != nil {
		return err
	}
	rewards, err := tree.PlayOneHand(agents, true)
	c.substituted.Add(int64(tree.IllegalChoices()))
	if err != nil {
		return err
	}

	won := make([]float32, len(table))
	for s, p := range seating {
		won[p] += float32(rewards[s])
	}

	retries, err := t.lockAll(ctx, table)
	c.contention.Add(int64(retries))
	if err != nil {
		return err
	}
	defer unlockAll(table)

	ratings := make([]Rating, len(table))
	for i, r := range table {
		ratings[i] = r.rating
	}
	for i, delta := range PairwiseDeltas(ratings, won, t.cfg.BuyIn) {
		table[i].rating.Apply(delta)
		table[i].results.Add(float64(won[i]))
	}
	return nil
}
