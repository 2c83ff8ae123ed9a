package tournament

import (
	"sync/atomic"
	"testing"

	"github.com/lox/pokerelo/internal/bot"
	"github.com/lox/pokerelo/internal/game"
	"github.com/stretchr/testify/require"
)

// newTestTournament builds a seeded three-handed tournament with the given
// identities registered through the default resolver.
func newTestTournament(t *testing.T, opts Options, identities ...string) *Tournament {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	tour, err := New(game.DefaultConfig(), opts)
	require.NoError(t, err)
	for i, id := range identities {
		require.NoError(t, tour.AddAgent(id, i))
	}
	return tour
}

// agentLoader serves the same agent for every identity.
func agentLoader(a game.Agent) bot.Loader {
	return bot.LoaderFunc(func(string, int) (game.Agent, error) { return a, nil })
}

func setRating(tour *Tournament, i int, r Rating) {
	tour.records[i].mu.Lock()
	tour.records[i].rating = r
	tour.records[i].mu.Unlock()
}

type atomicCounter struct{ n atomic.Int64 }

func (c *atomicCounter) inc()        { c.n.Add(1) }
func (c *atomicCounter) load() int64 { return c.n.Load() }
