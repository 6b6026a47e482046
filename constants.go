package cmabench

import "github.com/tphakala/go-cma-bench/internal/equalizer"

// Equalizer geometry
const (
	defaultTaps  = 16
	defaultModes = 4
	maxTaps      = 4096               // Upper bound on filter length
	maxModes     = equalizer.MaxModes // Upper bound on modes; the state grows with modes squared
)

// Update parameters
const (
	defaultMu     = 1e-4 // Multi-mode step size
	defaultRadius = 1.0  // CMA target radius, shared by every mode

	// Single-mode increment applied as h += mu * conj(x).
	defaultSingleMuRe = 1.62e-5
	defaultSingleMuIm = 1.8e-6
)

// Signal generation
const (
	defaultSeed  = 42
	defaultSigma = 1.0
)

// Benchmark protocol
const (
	defaultIterations = 10000
	maxIterations     = 100_000_000
	defaultRepeats    = 1
	maxRepeats        = 1000
	defaultWidth      = equalizer.DefaultWidth
	maxWidth          = equalizer.MaxWidth

	// defaultTolerance is the relative tolerance between strategies.
	defaultTolerance = 1e-9
)
