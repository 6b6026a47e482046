// Package equalizer implements the Constant Modulus Algorithm (CMA) tap
// update for single-mode and multi-mode (nModes x nModes MIMO) FIR
// equalizers.
//
// Two strategies satisfy the same numeric contract:
//
//   - [Sequential] updates one tap at a time.
//   - [Broadcast] updates fixed-width lanes of taps with one broadcast
//     coefficient, dispatching the lane arithmetic through [simdops.Ops].
//
// Both mutate the state in place and never allocate. Callers guarantee
// buffer sizes; [CheckSingle] and [CheckMulti] validate them up front.
//
// # Layout
//
// A multi-mode state holds nModes*nModes filters of nTaps taps each, grouped
// by input mode: tap k of the filter producing output mode m from input mode
// m' lives at (m'*nModes+m)*nTaps + k, so filter index m + m'*nModes matches
// the row order of the result files. The multi-mode input window is tap
// major: sample k of input mode m' lives at k*nModes + m'.
package equalizer

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch indicates a buffer too small for the requested tap or mode count.
var ErrSizeMismatch = errors.New("equalizer: buffer size mismatch")

// SingleModeKernel applies one CMA step to a single FIR filter:
// h[k] += mu * conj(x[k]) for k < nTaps. mu is the precomputed adaptation
// increment.
type SingleModeKernel interface {
	UpdateSingle(h, x []complex128, nTaps int, mu complex128)
}

// MultiModeKernel applies one CMA step to an nModes x nModes filter bank:
// h[m][m'][k] -= mu * e[m] * conj(x[k*nModes+m']) with
// e[m] = CMAError(outEq[m], r[m]). outEq and r are read only.
type MultiModeKernel interface {
	UpdateMulti(h, x, outEq []complex128, r []float64, nTaps, nModes int, mu float64)
}

// SingleFunc adapts a plain function to SingleModeKernel.
type SingleFunc func(h, x []complex128, nTaps int, mu complex128)

// UpdateSingle calls f.
func (f SingleFunc) UpdateSingle(h, x []complex128, nTaps int, mu complex128) {
	f(h, x, nTaps, mu)
}

// MultiFunc adapts a plain function to MultiModeKernel.
type MultiFunc func(h, x, outEq []complex128, r []float64, nTaps, nModes int, mu float64)

// UpdateMulti calls f.
func (f MultiFunc) UpdateMulti(h, x, outEq []complex128, r []float64, nTaps, nModes int, mu float64) {
	f(h, x, outEq, r, nTaps, nModes, mu)
}

// CMAError returns the CMA error term y * (|y|^2 - r).
func CMAError(y complex128, r float64) complex128 {
	re, im := real(y), imag(y)
	d := re*re + im*im - r
	return complex(re*d, im*d)
}

// stepCoefficient returns mu * CMAError(y, r), the factor shared by every tap
// of the filters feeding output mode m.
func stepCoefficient(y complex128, r, mu float64) complex128 {
	e := CMAError(y, r)
	return complex(mu*real(e), mu*imag(e))
}

// NewSingleState returns a zeroed single-mode state.
func NewSingleState(nTaps int) []complex128 {
	return make([]complex128, nTaps)
}

// NewMultiState returns a zeroed multi-mode state.
func NewMultiState(nTaps, nModes int) []complex128 {
	return make([]complex128, nModes*nModes*nTaps)
}

// StateIndex returns the position of tap k of the filter producing output
// mode m from input mode mp.
func StateIndex(m, mp, k, nTaps, nModes int) int {
	return (mp*nModes+m)*nTaps + k
}

// InputIndex returns the position of sample k of input mode mp.
func InputIndex(k, mp, nModes int) int {
	return k*nModes + mp
}

// Filter returns the taps of the filter producing output mode m from input
// mode mp. The result aliases h.
func Filter(h []complex128, m, mp, nTaps, nModes int) []complex128 {
	base := StateIndex(m, mp, 0, nTaps, nModes)
	return h[base : base+nTaps]
}

// CheckSingle reports whether h and x can hold nTaps taps.
func CheckSingle(h, x []complex128, nTaps int) error {
	if nTaps < 0 {
		return fmt.Errorf("%w: negative tap count %d", ErrSizeMismatch, nTaps)
	}
	if len(h) < nTaps {
		return fmt.Errorf("%w: state has %d taps, need %d", ErrSizeMismatch, len(h), nTaps)
	}
	if len(x) < nTaps {
		return fmt.Errorf("%w: input has %d samples, need %d", ErrSizeMismatch, len(x), nTaps)
	}
	return nil
}

// CheckMulti reports whether the buffers are consistent with nTaps and nModes.
func CheckMulti(h, x, outEq []complex128, r []float64, nTaps, nModes int) error {
	if err := CheckMultiInputs(x, outEq, r, nTaps, nModes); err != nil {
		return err
	}
	if need := nModes * nModes * nTaps; len(h) < need {
		return fmt.Errorf("%w: state has %d coefficients, need %d", ErrSizeMismatch, len(h), need)
	}
	return nil
}

// CheckMultiInputs validates the read-only multi-mode buffers.
func CheckMultiInputs(x, outEq []complex128, r []float64, nTaps, nModes int) error {
	if nTaps < 0 || nModes < 0 {
		return fmt.Errorf("%w: negative size (taps=%d, modes=%d)", ErrSizeMismatch, nTaps, nModes)
	}
	if nModes > MaxModes {
		return fmt.Errorf("%w: %d modes exceeds %d", ErrSizeMismatch, nModes, MaxModes)
	}
	if need := nTaps * nModes; len(x) < need {
		return fmt.Errorf("%w: input has %d samples, need %d", ErrSizeMismatch, len(x), need)
	}
	if len(outEq) < nModes {
		return fmt.Errorf("%w: outEq has %d modes, need %d", ErrSizeMismatch, len(outEq), nModes)
	}
	if len(r) < nModes {
		return fmt.Errorf("%w: radius has %d modes, need %d", ErrSizeMismatch, len(r), nModes)
	}
	return nil
}
