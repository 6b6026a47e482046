package equalizer

import "math/cmplx"

// Sequential updates one tap at a time. The zero value is ready to use and
// is safe for concurrent use on distinct states.
type Sequential struct{}

// UpdateSingle implements SingleModeKernel.
func (Sequential) UpdateSingle(h, x []complex128, nTaps int, mu complex128) {
	if nTaps <= 0 {
		return
	}
	h = h[:nTaps]
	x = x[:nTaps]
	for k := range h {
		h[k] += mu * cmplx.Conj(x[k])
	}
}

// UpdateMulti implements MultiModeKernel. Taps are the outer loop: every
// filter of the bank advances by one tap before the next tap is touched.
// Mode counts above MaxModes are ignored.
func (Sequential) UpdateMulti(h, x, outEq []complex128, r []float64, nTaps, nModes int, mu float64) {
	if nTaps <= 0 || nModes <= 0 || nModes > MaxModes {
		return
	}
	var coef [MaxModes]complex128
	for m := range nModes {
		coef[m] = stepCoefficient(outEq[m], r[m], mu)
	}
	for k := range nTaps {
		xk := x[k*nModes : k*nModes+nModes]
		for mp := range nModes {
			cx := cmplx.Conj(xk[mp])
			row := mp * nModes
			for m, c := range coef[:nModes] {
				h[(row+m)*nTaps+k] -= c * cx
			}
		}
	}
}
