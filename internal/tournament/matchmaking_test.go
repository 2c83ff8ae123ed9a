package tournament

import (
	"testing"

	"github.com/lox/pokerelo/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func TestClosestPicksSmallestDistance(t *testing.T) {
	t.Parallel()
	elos := []float32{1400, 1500, 1390, 1000, 1420, 2000}
	for seed := range int64(50) {
		got := closest(elos, 0, 2, randutil.New(seed))
		assert.Equal(t, []int{2, 4}, got, "seed %d", seed)
	}

	got := closest(elos, 5, 3, randutil.New(1))
	assert.Equal(t, []int{1, 4, 0}, got)
}

func TestClosestBreaksTiesAtRandom(t *testing.T) {
	t.Parallel()
	elos := []float32{1400, 1400, 1400, 1400, 1400}
	seen := map[int]int{}
	for seed := range int64(200) {
		for _, i := range closest(elos, 2, 2, randutil.New(seed)) {
			assert.NotEqual(t, 2, i, "acting agent picked as its own opponent")
			seen[i]++
		}
	}
	for _, i := range []int{0, 1, 3, 4} {
		assert.Positive(t, seen[i], "candidate %d never chosen", i)
	}
}

func TestClosestWithFewCandidates(t *testing.T) {
	t.Parallel()
	got := closest([]float32{1400, 1300}, 1, 5, randutil.New(1))
	assert.Equal(t, []int{0}, got)
}

func TestMatchmakeSeatsActingLast(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "random", "random", "random")
	for i, elo := range []float32{1400, 1800, 1390, 900} {
		setRating(tour, i, Rating{Elo: elo})
	}

	table := tour.matchmake(tour.records, 0, randutil.New(3))
	assert.Equal(t, []*record{tour.records[2], tour.records[1], tour.records[0]}, table)
}
