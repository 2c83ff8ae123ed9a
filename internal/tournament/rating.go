package tournament

import "math"

const (
	// InitialElo is the rating every newly registered policy starts at.
	InitialElo float32 = 1400

	// MaxRating is the ceiling above which a policy is permanently flagged
	// and its K-factor quartered.
	MaxRating float32 = 2400

	baseK        float32 = 40
	tieEpsilon   float32 = 1e-4
	veteranHands         = 100000
)

// Rating is the mutable part of a rating record.
type Rating struct {
	Elo           float32
	HandsPlayed   int
	OverMaxRating bool
}

// ExpectedScore is the logistic Elo win expectation of a against b. The
// rating difference is taken in float32; the logistic is evaluated in
// float64 and rounded to float32 once, so the result is the float32 nearest
// the exact expectation for that difference.
func ExpectedScore(a, b float32) float32 {
	return float32(1 / (1 + math.Pow(10, float64(b-a)/400)))
}

// kFactor applies the per-policy volatility multiplier.
func (r Rating) kFactor(k float32) float32 {
	switch {
	case r.OverMaxRating:
		return k * 0.25
	case r.HandsPlayed > veteranHands:
		return k * 0.5
	default:
		return k
	}
}

// PairwiseDeltas returns the Elo change of every participant of one hand.
// Each unordered pair is scored as its own game (win, loss or tie within
// 1e-4 chips) and the pair's K is scaled by the chips at stake relative to
// buyIn: the gap between the two results when both finished on the same
// side of zero, otherwise the smaller absolute result.
func PairwiseDeltas(ratings []Rating, won []float32, buyIn int) []float32 {
	deltas := make([]float32, len(ratings))
	maxToWin := float32(buyIn)
	for i := range ratings {
		for j := i + 1; j < len(ratings); j++ {
			var outcome float32
			switch {
			case abs32(won[i]-won[j]) < tieEpsilon:
				outcome = 0.5
			case won[i] > won[j]:
				outcome = 1
			}

			var stake float32
			if sameSide(won[i], won[j]) {
				stake = abs32(won[i] - won[j])
			} else {
				stake = min(abs32(won[i]), abs32(won[j]))
			}
			k := baseK * stake / maxToWin

			deltas[i] += ratings[i].kFactor(k) * (outcome - ExpectedScore(ratings[i].Elo, ratings[j].Elo))
			deltas[j] += ratings[j].kFactor(k) * ((1 - outcome) - ExpectedScore(ratings[j].Elo, ratings[i].Elo))
		}
	}
	return deltas
}

// Apply commits a delta and the hand to r.
func (r *Rating) Apply(delta float32) {
	r.Elo += delta
	r.HandsPlayed++
	if r.Elo > MaxRating {
		r.OverMaxRating = true
	}
}

func sameSide(a, b float32) bool {
	return (a < -tieEpsilon && b < -tieEpsilon) || (a > tieEpsilon && b > tieEpsilon)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
