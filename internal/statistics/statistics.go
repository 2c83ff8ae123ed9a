// Package statistics accumulates per-policy net chip results.
package statistics

import (
	"fmt"
	"math"
)

// Results tracks the running moments of one policy's net chips per hand.
// The zero value is ready to use. Results is not safe for concurrent use;
// the tournament guards it with the owning record's lock.
type Results struct {
	Hands int
	Sum   float64
	SumSq float64 // sum of squares for variance

	Wins   int // hands finished ahead
	Losses int // hands finished behind

	Best  float64
	Worst float64
}

// Add records the net chips of one hand.
func (r *Results) Add(net float64) {
	if r.Hands == 0 || net > r.Best {
		r.Best = net
	}
	if r.Hands == 0 || net < r.Worst {
		r.Worst = net
	}
	r.Hands++
	r.Sum += net
	r.SumSq += net * net
	switch {
	case net > 0:
		r.Wins++
	case net < 0:
		r.Losses++
	}
}

// Merge folds other into r.
func (r *Results) Merge(other Results) {
	if other.Hands == 0 {
		return
	}
	if r.Hands == 0 || other.Best > r.Best {
		r.Best = other.Best
	}
	if r.Hands == 0 || other.Worst < r.Worst {
		r.Worst = other.Worst
	}
	r.Hands += other.Hands
	r.Sum += other.Sum
	r.SumSq += other.SumSq
	r.Wins += other.Wins
	r.Losses += other.Losses
}

// Mean returns the average net chips per hand.
func (r *Results) Mean() float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.Sum / float64(r.Hands)
}

// Variance returns the sample variance.
func (r *Results) Variance() float64 {
	if r.Hands < 2 {
		return 0
	}
	mean := r.Mean()
	v := (r.SumSq - float64(r.Hands)*mean*mean) / float64(r.Hands-1)
	if v < 0 {
		// rounding on near-constant samples
		return 0
	}
	return v
}

func (r *Results) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// StdError returns the standard error of the mean.
func (r *Results) StdError() float64 {
	if r.Hands == 0 {
		return 0
	}
	return r.StdDev() / math.Sqrt(float64(r.Hands))
}

// ConfidenceInterval95 returns the normal-approximation 95% interval for the
// mean.
func (r *Results) ConfidenceInterval95() (float64, float64) {
	mean := r.Mean()
	margin := 1.96 * r.StdError()
	return mean - margin, mean + margin
}

// PerHundred returns the mean in big blinds per hundred hands.
func (r *Results) PerHundred(bigBlind int) float64 {
	if bigBlind <= 0 {
		return 0
	}
	return r.Mean() / float64(bigBlind) * 100
}

// Validate checks the counters agree with each other.
func (r *Results) Validate() error {
	if r.Hands < 0 {
		return fmt.Errorf("invalid hands count: %d", r.Hands)
	}
	if r.Wins+r.Losses > r.Hands {
		return fmt.Errorf("wins (%d) and losses (%d) exceed hands (%d)", r.Wins, r.Losses, r.Hands)
	}
	if r.Hands > 0 && r.Worst > r.Best {
		return fmt.Errorf("worst result %.2f above best %.2f", r.Worst, r.Best)
	}
	return nil
}

func (r Results) String() string {
	lo, hi := r.ConfidenceInterval95()
	return fmt.Sprintf("%d hands, mean %.2f ± %.2f [%.2f, %.2f]", r.Hands, r.Mean(), r.StdError(), lo, hi)
}
