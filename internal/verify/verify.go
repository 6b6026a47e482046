// Package verify checks captured equalizer states: the two update strategies
// against each other and each against the closed-form result of one update
// from a zero state.
package verify

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-cma-bench/internal/bench"
	"github.com/tphakala/go-cma-bench/internal/equalizer"
)

// DefaultTolerance is the relative tolerance between strategies.
const DefaultTolerance = 1e-9

// Comparison is the outcome of comparing two buffers.
type Comparison struct {
	Name       string  `json:"name"`
	Len        int     `json:"len"`
	MaxAbs     float64 `json:"max_abs"`
	MaxRel     float64 `json:"max_rel"`
	WorstIndex int     `json:"worst_index"`
	Tolerance  float64 `json:"tolerance"`
	OK         bool    `json:"ok"`
	Reason     string  `json:"reason,omitempty"`
}

func (c Comparison) String() string {
	status := "ok"
	if !c.OK {
		status = "FAIL"
	}
	if c.Reason != "" {
		return fmt.Sprintf("%-40s %s (%s)", c.Name, status, c.Reason)
	}
	return fmt.Sprintf("%-40s %s max_abs=%.3e max_rel=%.3e at %d", c.Name, status, c.MaxAbs, c.MaxRel, c.WorstIndex)
}

// Compare measures the largest deviation of got from want. MaxRel is MaxAbs
// over the largest reference magnitude.
func Compare(name string, want, got []complex128, tolerance float64) Comparison {
	c := Comparison{Name: name, Len: len(want), Tolerance: tolerance, WorstIndex: -1}
	if len(want) != len(got) {
		c.Reason = fmt.Sprintf("length %d, want %d", len(got), len(want))
		return c
	}
	if len(want) == 0 {
		c.OK = true
		return c
	}

	wantRe, wantIm := split(want)
	gotRe, gotIm := split(got)

	// |want - got| per element.
	floats.Sub(gotRe, wantRe)
	floats.Sub(gotIm, wantIm)
	diff := make([]float64, len(want))
	vecmath.Magnitude(diff, gotRe, gotIm)

	scale := make([]float64, len(want))
	vecmath.Magnitude(scale, wantRe, wantIm)

	c.WorstIndex = floats.MaxIdx(diff)
	c.MaxAbs = diff[c.WorstIndex]
	ref := floats.Max(scale)
	if ref > 0 {
		c.MaxRel = c.MaxAbs / ref
	} else {
		c.MaxRel = c.MaxAbs
	}
	c.OK = c.MaxRel <= tolerance
	if floats.HasNaN(diff) {
		c.OK = false
		c.Reason = "NaN in result"
	}
	return c
}

func split(s []complex128) (re, im []float64) {
	re = make([]float64, len(s))
	im = make([]float64, len(s))
	for i, v := range s {
		re[i] = real(v)
		im[i] = imag(v)
	}
	return re, im
}

// ExpectedSingle returns mu * conj(x[k]), the single-mode state after one
// update from zero.
func ExpectedSingle(x []complex128, nTaps int, mu complex128) []complex128 {
	h := equalizer.NewSingleState(nTaps)
	for k := range h {
		h[k] = mu * cmplx.Conj(x[k])
	}
	return h
}

// ExpectedMulti returns the multi-mode state after one update from zero:
// -mu * e[m] * conj(x[k*nModes+m']).
func ExpectedMulti(x, outEq []complex128, r []float64, nTaps, nModes int, mu float64) []complex128 {
	h := equalizer.NewMultiState(nTaps, nModes)
	for m := range nModes {
		e := equalizer.CMAError(outEq[m], r[m])
		c := complex(mu*real(e), mu*imag(e))
		for mp := range nModes {
			f := equalizer.Filter(h, m, mp, nTaps, nModes)
			for k := range f {
				f[k] = -c * cmplx.Conj(x[equalizer.InputIndex(k, mp, nModes)])
			}
		}
	}
	return h
}

// CheckResult compares the captured states of a run: sequential against
// broadcast, and both against the closed form.
func CheckResult(in *bench.Inputs, res *bench.Result, tolerance float64) []Comparison {
	return CheckStates(in, res.States, tolerance)
}

// CheckStates is CheckResult over bare states.
func CheckStates(in *bench.Inputs, states [bench.NumVariants][]complex128, tolerance float64) []Comparison {
	single := ExpectedSingle(in.SingleX, in.NTaps, in.SingleMu)
	multi := ExpectedMulti(in.Multi.X, in.Multi.OutEq, in.Multi.R, in.NTaps, in.NModes, in.Mu)

	return []Comparison{
		Compare("singlemode loop vs broadcast", states[bench.SingleSequential], states[bench.SingleBroadcast], tolerance),
		Compare("multimode loop vs broadcast", states[bench.MultiSequential], states[bench.MultiBroadcast], tolerance),
		Compare("singlemode loop vs closed form", single, states[bench.SingleSequential], tolerance),
		Compare("singlemode broadcast vs closed form", single, states[bench.SingleBroadcast], tolerance),
		Compare("multimode loop vs closed form", multi, states[bench.MultiSequential], tolerance),
		Compare("multimode broadcast vs closed form", multi, states[bench.MultiBroadcast], tolerance),
	}
}

// Passed reports whether every comparison is OK.
func Passed(cs []Comparison) bool {
	for _, c := range cs {
		if !c.OK {
			return false
		}
	}
	return true
}
