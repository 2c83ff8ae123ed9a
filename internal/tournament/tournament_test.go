package tournament

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lox/pokerelo/internal/bot"
	"github.com/lox/pokerelo/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAgent(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "call")
	require.Equal(t, 2, tour.AgentCount())

	s := tour.Standings()[1]
	assert.Equal(t, "call", s.Identity)
	assert.Equal(t, 1, s.Iteration)
	assert.Equal(t, Rating{Elo: 1400}, s.Rating)
	assert.NotNil(t, s.Agent)

	require.ErrorIs(t, tour.AddAgent("gto-wizard", 0), bot.ErrUnknownAgent)
	require.Error(t, tour.AddAgent("random;evil", 0))
	require.Error(t, tour.AddAgent("random", -1))
	assert.Equal(t, 2, tour.AgentCount())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := game.DefaultConfig()
	cfg.Seats = 1
	_, err := New(cfg, Options{})
	require.Error(t, err)
}

func TestBestAgents(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "call", "maniac", "fold")
	for i, elo := range []float32{1400, 1600, 1200, 1500} {
		setRating(tour, i, Rating{Elo: elo})
	}

	best := tour.BestAgents(2)
	require.Len(t, best, 2)
	assert.Equal(t, "call", best[0].Identity)
	assert.Equal(t, "fold", best[1].Identity)

	assert.Len(t, tour.BestAgents(10), 4)
	assert.Empty(t, tour.BestAgents(0))
	assert.Equal(t, "random", tour.Standings()[0].Identity, "roster order is unchanged")
}

func TestPlayRatesEveryHand(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{Workers: 4},
		"random", "random", "random", "random", "random", "random")

	var progress atomicCounter
	tour.opts.Progress = progress.inc

	summary, err := tour.Play(context.Background(), 600)
	require.NoError(t, err)
	assert.Equal(t, 100, summary.Rounds)
	assert.Equal(t, int64(600), summary.Hands)
	assert.Zero(t, summary.Illegal)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.Dropped)
	assert.Equal(t, int64(600), progress.load())

	standings := tour.Standings()
	require.Len(t, standings, 6)
	var hands, results int
	var total float64
	for i, s := range standings {
		hands += s.HandsPlayed
		results += s.Results.Hands
		total += float64(s.Elo)
		if i > 0 {
			assert.GreaterOrEqual(t, standings[i-1].Elo, s.Elo, "roster is sorted by Elo")
		}
	}
	assert.Equal(t, 600*3, hands)
	assert.Equal(t, 600*3, results)
	assert.InDelta(t, 6*1400, total, 1, "pairwise updates are zero-sum")
}

func TestScheduledHandsMatchesPlay(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{Workers: 3},
		"random", "random", "random", "random", "random", "random", "random")
	assert.Equal(t, 0, tour.ScheduledHands(6))
	assert.Equal(t, 0, tour.ScheduledHands(-5))
	assert.Equal(t, 595, tour.ScheduledHands(600))

	var progress atomicCounter
	tour.opts.Progress = progress.inc
	summary, err := tour.Play(context.Background(), 600)
	require.NoError(t, err)
	assert.Equal(t, 85, summary.Rounds)
	assert.Equal(t, int64(595), progress.load(), "every scheduled hand ticks progress once")
	assert.Equal(t, int64(595), summary.Hands)
}

func TestPlayNeedsAFullTable(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "random")
	_, err := tour.Play(context.Background(), 100)
	require.ErrorIs(t, err, ErrNotEnoughAgents)
}

func TestPlayDropsNegativeRatings(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "call", "maniac", "fold")
	setRating(tour, 1, Rating{Elo: -5})
	setRating(tour, 2, Rating{Elo: 1500})

	summary, err := tour.Play(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Dropped)

	var ids []string
	for _, s := range tour.Standings() {
		ids = append(ids, s.Identity)
	}
	assert.Equal(t, []string{"maniac", "random", "fold"}, ids)
}

func TestPlaySkipsIllegalHands(t *testing.T) {
	t.Parallel()
	illegal := game.AgentFunc(func(game.Decision) (int, error) { return 99, nil })
	tour := newTestTournament(t, Options{Workers: 2, Loader: agentLoader(illegal)}, "a", "b", "c")

	summary, err := tour.Play(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), summary.Illegal)
	assert.Zero(t, summary.Hands)
	for _, s := range tour.Standings() {
		assert.Equal(t, Rating{Elo: 1400}, s.Rating, "failed hands never touch ratings")
	}
}

func TestPlayPermissiveSubstitutes(t *testing.T) {
	t.Parallel()
	illegal := game.AgentFunc(func(game.Decision) (int, error) { return 99, nil })
	tour := newTestTournament(t, Options{Loader: agentLoader(illegal), Permissive: true}, "a", "b", "c")

	summary, err := tour.Play(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), summary.Hands)
	assert.Positive(t, summary.Substituted)
}

func TestPlayCountsAgentFailures(t *testing.T) {
	t.Parallel()
	broken := game.AgentFunc(func(game.Decision) (int, error) { return 0, errors.New("model unavailable") })
	tour := newTestTournament(t, Options{Loader: agentLoader(broken)}, "a", "b", "c")

	summary, err := tour.Play(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), summary.Failed)
}

func TestPlayAbortsOnInvariantViolation(t *testing.T) {
	t.Parallel()
	fatal := game.AgentFunc(func(game.Decision) (int, error) {
		return 0, fmt.Errorf("corrupt node: %w", game.ErrTreeInvariant)
	})
	tour := newTestTournament(t, Options{Workers: 3, Loader: agentLoader(fatal)}, "a", "b", "c")

	summary, err := tour.Play(context.Background(), 3000)
	require.ErrorIs(t, err, game.ErrTreeInvariant)
	assert.Zero(t, summary.Hands)
}

func TestPlayHonoursCancellation(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "random", "random")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tour.Play(ctx, 300)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlayOverlappingTablesTerminate(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test")
	}
	t.Parallel()

	// Four policies at three seats: any two concurrent hands share at least
	// two participants.
	tour := newTestTournament(t, Options{Workers: 16, Backoff: 50 * time.Microsecond},
		"random", "call", "maniac", "random")

	done := make(chan error, 1)
	var summary Summary
	go func() {
		var err error
		summary, err = tour.Play(context.Background(), 8000)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Minute):
		t.Fatal("tournament did not finish; lock protocol deadlocked")
	}
	assert.Equal(t, int64(8000), summary.Hands)

	hands := 0
	for _, s := range tour.Standings() {
		hands += s.HandsPlayed
	}
	assert.Equal(t, 8000*3, hands, "no lost updates")
}
