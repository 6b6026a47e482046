package equalizer

import (
	"math/cmplx"

	"github.com/tphakala/go-cma-bench/internal/simdops"
)

// Broadcast updates taps in lanes of a fixed width. For each lane it gathers
// the conjugated inputs, multiplies them by a lane holding one broadcast
// coefficient and accumulates the products into the state. Taps beyond the
// last full lane are updated one at a time.
//
// A Broadcast owns its lane scratch and must not be shared between goroutines.
type Broadcast struct {
	width int
	ops   *simdops.Ops

	conj []complex128 // gathered conj(x)
	coef []complex128 // broadcast coefficient
	prod []complex128 // coef * conj
}

// NewBroadcast returns a Broadcast kernel with the given lane width. A width
// outside [1, MaxWidth] selects DefaultWidth; a nil ops selects the pure Go
// table.
func NewBroadcast(width int, ops *simdops.Ops) *Broadcast {
	if width < 1 || width > MaxWidth {
		width = DefaultWidth
	}
	if ops == nil {
		ops = simdops.Generic()
	}
	return &Broadcast{
		width: width,
		ops:   ops,
		conj:  make([]complex128, width),
		coef:  make([]complex128, width),
		prod:  make([]complex128, width),
	}
}

// Width returns the lane width.
func (b *Broadcast) Width() int {
	return b.width
}

// Ops returns the lane operation table.
func (b *Broadcast) Ops() *simdops.Ops {
	return b.ops
}

func (b *Broadcast) broadcast(c complex128) {
	for j := range b.coef {
		b.coef[j] = c
	}
}

// UpdateSingle implements SingleModeKernel.
func (b *Broadcast) UpdateSingle(h, x []complex128, nTaps int, mu complex128) {
	if nTaps <= 0 {
		return
	}
	h = h[:nTaps]
	x = x[:nTaps]
	w := b.width
	b.broadcast(mu)

	k := 0
	for ; k+w <= nTaps; k += w {
		b.ops.ConjLanes(b.conj, x[k:k+w])
		b.ops.MulLanes(b.prod, b.coef, b.conj)
		b.ops.AddLanes(h[k:k+w], b.prod)
	}
	for ; k < nTaps; k++ {
		h[k] += mu * cmplx.Conj(x[k])
	}
}

// UpdateMulti implements MultiModeKernel. Mode counts above MaxModes are
// ignored. The subtraction is applied as an
// addition of the negated coefficient, which is exact in IEEE arithmetic.
func (b *Broadcast) UpdateMulti(h, x, outEq []complex128, r []float64, nTaps, nModes int, mu float64) {
	if nTaps <= 0 || nModes <= 0 || nModes > MaxModes {
		return
	}
	w := b.width
	for m := range nModes {
		c := stepCoefficient(outEq[m], r[m], mu)
		b.broadcast(-c)
		for mp := range nModes {
			f := Filter(h, m, mp, nTaps, nModes)
			k := 0
			for ; k+w <= nTaps; k += w {
				for j := range w {
					b.conj[j] = cmplx.Conj(x[(k+j)*nModes+mp])
				}
				b.ops.MulLanes(b.prod, b.coef, b.conj)
				b.ops.AddLanes(f[k:k+w], b.prod)
			}
			for ; k < nTaps; k++ {
				f[k] -= c * cmplx.Conj(x[k*nModes+mp])
			}
		}
	}
}

// Compile-time interface checks.
var (
	_ SingleModeKernel = Sequential{}
	_ MultiModeKernel  = Sequential{}
	_ SingleModeKernel = (*Broadcast)(nil)
	_ MultiModeKernel  = (*Broadcast)(nil)
	_ SingleModeKernel = SingleFunc(nil)
	_ MultiModeKernel  = MultiFunc(nil)
)
