package signal

// glibc TYPE_3 random() parameters
const (
	// RandMax is the largest value returned by the C library rand().
	RandMax = 2147483647

	libcDegree     = 31  // r[i] depends on r[i-31]
	libcSeparation = 3   // ... and r[i-3]
	libcDiscard    = 310 // outputs dropped after seeding (degree * 10)

	// Park-Miller minimal standard used to expand the seed.
	parkMillerA = 16807
	parkMillerQ = 127773 // modulus / A
	parkMillerR = 2836   // modulus % A
)

// Box-Muller constants
const (
	// minUniform keeps log(u1) finite when the uniform stream returns 0.
	minUniform = 1e-12

	boxMullerScale = -2.0
)

// Single-mode ramp input
const (
	rampRealStart = 1.0
	rampRealStep  = 0.02
	rampImagStart = 0.5
	rampImagStep  = -0.01
)
