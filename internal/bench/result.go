package bench

import "time"

// TimingSample holds the elapsed time of each variant's batch and the
// iteration count it was measured over. It is not modified after Run.
type TimingSample struct {
	Elapsed    [NumVariants]time.Duration
	Iterations int
}

// Get returns the elapsed time for v.
func (t TimingSample) Get(v Variant) time.Duration {
	return t.Elapsed[v]
}

// PerUpdate returns the mean time of one update of v, or zero when no
// iterations were timed.
func (t TimingSample) PerUpdate(v Variant) time.Duration {
	if t.Iterations <= 0 {
		return 0
	}
	return t.Elapsed[v] / time.Duration(t.Iterations)
}

// Speedup returns sequential time divided by broadcast time for mode
// (ModeSingle or ModeMulti). It returns 0 when the broadcast time is zero.
func (t TimingSample) Speedup(mode string) float64 {
	seq, bc := SingleSequential, SingleBroadcast
	if mode == ModeMulti {
		seq, bc = MultiSequential, MultiBroadcast
	}
	if t.Elapsed[bc] <= 0 {
		return 0
	}
	return float64(t.Elapsed[seq]) / float64(t.Elapsed[bc])
}

// Summary keeps per-batch timings when a variant is timed more than once.
type Summary struct {
	Batches [NumVariants][]float64 // nanoseconds per batch
	Mean    [NumVariants]time.Duration
	StdDev  [NumVariants]time.Duration
}

// Result is the outcome of one driver run.
type Result struct {
	Timing  TimingSample
	Summary Summary

	// States holds, per variant, the state after exactly one update from zero.
	States [NumVariants][]complex128
}

// State returns the captured state of v.
func (r *Result) State(v Variant) []complex128 {
	return r.States[v]
}
