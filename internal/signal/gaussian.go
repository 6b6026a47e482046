// Package signal generates the deterministic synthetic signals fed to the
// CMA benchmark: circularly-symmetric complex Gaussian samples drawn through
// a Box-Muller transform from a seeded uniform stream, and the linear ramp
// used for single-mode runs.
package signal

import (
	"math"
)

// Generator draws complex Gaussian samples from an explicit uniform stream.
// Two generators built from equally seeded streams produce identical output.
type Generator struct {
	src Uniform
}

// NewGenerator returns a Generator drawing from src.
func NewGenerator(src Uniform) *Generator {
	return &Generator{src: src}
}

// NewSeeded returns a Generator over a glibc-compatible stream seeded with seed.
func NewSeeded(seed uint32) *Generator {
	return NewGenerator(NewLibcRand(seed))
}

// GaussianComplex returns one sample whose real and imaginary parts are
// independent normals with standard deviation sigma.
func (g *Generator) GaussianComplex(sigma float64) complex128 {
	u1 := g.src.Float64()
	u2 := g.src.Float64()

	if u1 < minUniform {
		u1 = minUniform
	}

	mag := sigma * math.Sqrt(boxMullerScale*math.Log(u1))
	phase := 2 * math.Pi * u2
	return complex(mag*math.Cos(phase), mag*math.Sin(phase))
}

// Fill writes len(dst) consecutive samples into dst.
func (g *Generator) Fill(dst []complex128, sigma float64) {
	for i := range dst {
		dst[i] = g.GaussianComplex(sigma)
	}
}

// Ramp returns the n-sample single-mode input x[i] = (1+0.02i) + j(0.5-0.01i).
func Ramp(n int) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		fi := float64(i)
		x[i] = complex(rampRealStart+fi*rampRealStep, rampImagStart+fi*rampImagStep)
	}
	return x
}

// MultiModeInputs holds the generated multi-mode buffers.
type MultiModeInputs struct {
	// X is the tap-major input window, X[k*nModes+m].
	X []complex128
	// OutEq is the per-mode equalizer output driving the CMA error.
	OutEq []complex128
	// R is the per-mode target radius.
	R []float64
}

// GenerateMultiMode draws the input window first and then the per-mode
// outputs, and sets every radius to radius. The draw order is fixed.
func GenerateMultiMode(g *Generator, nTaps, nModes int, sigma, radius float64) MultiModeInputs {
	in := MultiModeInputs{
		X:     make([]complex128, nTaps*nModes),
		OutEq: make([]complex128, nModes),
		R:     make([]float64, nModes),
	}
	g.Fill(in.X, sigma)
	g.Fill(in.OutEq, sigma)
	for m := range in.R {
		in.R[m] = radius
	}
	return in
}
