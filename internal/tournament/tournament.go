// Package tournament rates a roster of poker policies against each other.
//
// Hands are played concurrently by a pool of workers, each owning a
// contiguous slice of the Elo-sorted roster. Every hand seats the acting
// policy with the opponents closest to it in Elo, plays one hand through a
// fresh game.Tree and then updates all participants' ratings together under
// their individual locks. Locks are taken all-or-nothing: on contention every
// held lock is released and the worker backs off before retrying, so no
// worker ever waits while holding a partial set.
package tournament

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerelo/internal/bot"
	"github.com/lox/pokerelo/internal/game"
	"github.com/lox/pokerelo/internal/randutil"
	"github.com/lox/pokerelo/internal/statistics"
)

// Options configures a Tournament. Zero values select the defaults.
type Options struct {
	// Workers is the size of the worker pool; defaults to three quarters of
	// the available CPUs, at least one.
	Workers int

	// Seed drives matchmaking, seating and dealing. Zero seeds from the clock.
	Seed int64

	Logger *log.Logger
	Clock  quartz.Clock

	// Loader resolves identities to agents; defaults to bot.NewResolver.
	Loader bot.Loader

	// Permissive replaces illegal agent choices instead of failing the hand.
	Permissive bool

	// Backoff is the wait between lock attempts; defaults to 1ms.
	Backoff time.Duration

	// Progress, if set, is called from the workers once per scheduled hand.
	Progress func()
}

// record is one registered policy. The rating fields and results are
// guarded by mu; identity, iteration and agent never change.
type record struct {
	identity  string
	iteration int
	agent     game.Agent

	mu      sync.Mutex
	rating  Rating
	results statistics.Results
}

func (r *record) snapshot() Standing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Standing{
		Identity:  r.identity,
		Iteration: r.iteration,
		Rating:    r.rating,
		Results:   r.results,
		Agent:     r.agent,
	}
}

func (r *record) elo() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rating.Elo
}

// Standing is a point-in-time copy of a rating record.
type Standing struct {
	Identity  string
	Iteration int
	Rating
	Results statistics.Results
	Agent   game.Agent
}

// Tournament owns the rating table. Registration, persistence and Play must
// not be called concurrently with each other.
type Tournament struct {
	cfg     game.Config
	opts    Options
	logger  *log.Logger
	clock   quartz.Clock
	loader  bot.Loader
	seed    int64
	records []*record
}

// New creates an empty tournament for cfg.
func New(cfg game.Config, opts Options) (*Tournament, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = max(1, runtime.NumCPU()*3/4)
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	loader := opts.Loader
	if loader == nil {
		loader = bot.NewResolver(logger)
	}
	cfg.PreflopRaises = slices.Clone(cfg.PreflopRaises)
	cfg.PostflopRaises = slices.Clone(cfg.PostflopRaises)

	return &Tournament{
		cfg:    cfg,
		opts:   opts,
		logger: logger.WithPrefix("tournament"),
		clock:  clock,
		loader: loader,
		seed:   randutil.Seed(opts.Seed),
	}, nil
}

// Config returns the game configuration every hand is played with.
func (t *Tournament) Config() game.Config { return t.cfg }

// AddAgent resolves identity at iteration and registers it at the initial
// rating.
func (t *Tournament) AddAgent(identity string, iteration int) error {
	r, err := t.newRecord(identity, iteration)
	if err != nil {
		return err
	}
	t.records = append(t.records, r)
	t.logger.Debug("Registered agent", "identity", identity, "iteration", iteration)
	return nil
}

func (t *Tournament) newRecord(identity string, iteration int) (*record, error) {
	if identity == "" || strings.ContainsAny(identity, ";\n") {
		return nil, fmt.Errorf("invalid identity %q", identity)
	}
	if iteration < 0 {
		return nil, fmt.Errorf("invalid iteration %d", iteration)
	}
	agent, err := t.loader.Load(identity, iteration)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent %s@%d: %w", identity, iteration, err)
	}
	return &record{
		identity:  identity,
		iteration: iteration,
		agent:     agent,
		rating:    Rating{Elo: InitialElo},
	}, nil
}

// AgentCount returns the number of registered policies.
func (t *Tournament) AgentCount() int { return len(t.records) }

// ScheduledHands is the number of hands Play(ctx, totalHands) will deal with
// the current roster: whole rounds in which every policy acts once.
func (t *Tournament) ScheduledHands(totalHands int) int {
	if len(t.records) == 0 || totalHands <= 0 {
		return 0
	}
	return totalHands / len(t.records) * len(t.records)
}

// Standings returns every record in roster order.
func (t *Tournament) Standings() []Standing {
	out := make([]Standing, len(t.records))
	for i, r := range t.records {
		out[i] = r.snapshot()
	}
	return out
}

// BestAgents returns the n highest rated policies, or all of them when fewer
// are registered. The roster order is left unchanged.
func (t *Tournament) BestAgents(n int) []Standing {
	standings := t.Standings()
	slices.SortStableFunc(standings, func(a, b Standing) int {
		return cmp.Compare(b.Elo, a.Elo)
	})
	if n < len(standings) {
		standings = standings[:max(n, 0)]
	}
	return standings
}

// sortByElo orders the roster by descending Elo.
func (t *Tournament) sortByElo() {
	slices.SortStableFunc(t.records, func(a, b *record) int {
		return cmp.Compare(b.elo(), a.elo())
	})
}

// prune drops records whose Elo fell below zero and returns how many went.
func (t *Tournament) prune() int {
	before := len(t.records)
	t.records = slices.DeleteFunc(t.records, func(r *record) bool {
		return r.elo() < 0
	})
	return before - len(t.records)
}
