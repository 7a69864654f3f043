package chart

import (
	"math/rand"
	"time"
)

// Walk produces synthetic samples: a random walk that stays within
// [Min, Max] and moves at most Step per sample. It stands in for real
// telemetry when the chart has no sensor feed.
type Walk struct {
	Min, Max, Step float64

	rng *rand.Rand
	cur float64
}

// NewWalk starts a walk in the middle of [lo, hi]. A zero seed uses the
// current time.
func NewWalk(lo, hi, step float64, seed int64) *Walk {
	if hi < lo {
		lo, hi = hi, lo
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Walk{
		Min:  lo,
		Max:  hi,
		Step: step,
		rng:  rand.New(rand.NewSource(seed)),
		cur:  (lo + hi) / 2,
	}
}

// Next returns the next sample.
func (w *Walk) Next() float64 {
	w.cur += (w.rng.Float64()*2 - 1) * w.Step
	if w.cur < w.Min {
		w.cur = w.Min
	}
	if w.cur > w.Max {
		w.cur = w.Max
	}
	return w.cur
}
