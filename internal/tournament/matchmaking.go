package tournament

import (
	"math/rand/v2"
	"sort"
)

type candidate struct {
	index    int
	distance float32
}

// closest returns the indices of the n policies nearest to elos[acting] in
// Elo. Candidates are shuffled before the stable sort so that equal
// distances are broken at random rather than by roster position.
func closest(elos []float32, acting, n int, rng *rand.Rand) []int {
	candidates := make([]candidate, 0, len(elos)-1)
	for i, elo := range elos {
		if i == acting {
			continue
		}
		candidates = append(candidates, candidate{index: i, distance: abs32(elos[acting] - elo)})
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]int, 0, n)
	for _, c := range candidates[:min(n, len(candidates))] {
		out = append(out, c.index)
	}
	return out
}

// matchmake picks the table for roster[acting]: its Seats-1 closest
// opponents followed by the acting record. Elo values are read under a
// momentary lock per record, so the table reflects ratings at selection
// time.
func (t *Tournament) matchmake(roster []*record, acting int, rng *rand.Rand) []*record {
	elos := make([]float32, len(roster))
	for i, r := range roster {
		elos[i] = r.elo()
	}
	table := make([]*record, 0, t.cfg.Seats)
	for _, i := range closest(elos, acting, t.cfg.Seats-1, rng) {
		table = append(table, roster[i])
	}
	return append(table, roster[acting])
}
