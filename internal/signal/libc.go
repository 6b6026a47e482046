package signal

// Uniform is a stream of uniform variates in [0, 1].
type Uniform interface {
	Float64() float64
}

// libcRingSize holds the last degree+separation outputs of the recurrence.
const libcRingSize = libcDegree + libcSeparation

// LibcRand reproduces the glibc srand/rand generator (TYPE_3 additive
// feedback, degree 31, separation 3) so a seed yields the same stream as a C
// program calling srand(seed).
//
// A LibcRand is not safe for concurrent use.
type LibcRand struct {
	r   [libcRingSize]uint32
	pos int
}

// NewLibcRand returns a generator seeded like srand(seed). A zero seed is
// treated as 1, matching glibc.
func NewLibcRand(seed uint32) *LibcRand {
	g := &LibcRand{}
	g.Seed(seed)
	return g
}

// Seed resets the generator state.
func (g *LibcRand) Seed(seed uint32) {
	if seed == 0 {
		seed = 1
	}

	word := int32(seed)
	g.r[0] = uint32(word)
	for i := 1; i < libcDegree; i++ {
		hi := int64(word) / parkMillerQ
		lo := int64(word) % parkMillerQ
		w := int32(parkMillerA*lo - parkMillerR*hi)
		if w < 0 {
			w += RandMax
		}
		word = w
		g.r[i] = uint32(word)
	}
	for i := libcDegree; i < libcRingSize; i++ {
		g.r[i] = g.r[i-libcDegree]
	}
	g.pos = 0

	for range libcDiscard {
		g.next()
	}
}

// next advances r[i] = r[i-31] + r[i-3] over the ring. pos is the slot
// holding r[i-34], which is overwritten.
func (g *LibcRand) next() uint32 {
	older := g.r[(g.pos+libcSeparation)%libcRingSize]              // r[i-31]
	newer := g.r[(g.pos+libcRingSize-libcSeparation)%libcRingSize] // r[i-3]
	v := older + newer
	g.r[g.pos] = v
	g.pos = (g.pos + 1) % libcRingSize
	return v
}

// Int31 returns the next value of rand(), in [0, RandMax].
func (g *LibcRand) Int31() int32 {
	return int32(g.next() >> 1)
}

// Float64 returns rand()/RAND_MAX.
// The upper bound 1 is reachable.
func (g *LibcRand) Float64() float64 {
	return float64(g.Int31()) / RandMax
}
