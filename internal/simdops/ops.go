// Package simdops provides the lane operations used by the broadcast update
// strategy. An Ops table is chosen once when a kernel is constructed, so the
// hot path pays one indirect call per lane and never a feature check.
package simdops

import (
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
)

// Ops holds complex lane operations. All slices passed to one call must have
// equal length.
type Ops struct {
	// Name identifies the table in logs and run manifests.
	Name string

	// MulLanes computes dst[i] = a[i] * b[i].
	MulLanes func(dst, a, b []complex128)

	// AddLanes computes dst[i] += src[i].
	AddLanes func(dst, src []complex128)

	// ConjLanes computes dst[i] = conj(a[i]).
	ConjLanes func(dst, a []complex128)
}

// Pre-instantiated tables.
var (
	vectorOps = Ops{
		Name:      "simd",
		MulLanes:  c128.Mul,
		AddLanes:  accumulate,
		ConjLanes: c128.Conj,
	}
	genericOps = Ops{
		Name:      "generic",
		MulLanes:  mulLanes,
		AddLanes:  addLanes,
		ConjLanes: conjLanes,
	}
)

// For returns the vector table when enableSIMD is set and the pure Go table
// otherwise.
func For(enableSIMD bool) *Ops {
	if enableSIMD {
		return &vectorOps
	}
	return &genericOps
}

// Vector returns the table backed by github.com/tphakala/simd.
func Vector() *Ops {
	return &vectorOps
}

// Generic returns the pure Go table.
func Generic() *Ops {
	return &genericOps
}

// Info describes the instruction set the vector table dispatches to.
func Info() string {
	return cpu.Info()
}

// accumulate adds src into dst in place.
func accumulate(dst, src []complex128) {
	c128.Add(dst, dst, src)
}

func mulLanes(dst, a, b []complex128) {
	b = b[:len(a)]
	dst = dst[:len(a)]
	for i := range a {
		dst[i] = a[i] * b[i]
	}
}

func addLanes(dst, src []complex128) {
	dst = dst[:len(src)]
	for i := range src {
		dst[i] += src[i]
	}
}

func conjLanes(dst, a []complex128) {
	dst = dst[:len(a)]
	for i := range a {
		dst[i] = cmplx.Conj(a[i])
	}
}
