package core

import "math/rand"

// RNG is a thread-local seedable pseudo-random generator. Every hill
// climb worker owns its own RNG instance seeded at the start of its
// task; none are shared across goroutines.
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a fresh generator deterministically from seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{r: rand.New(rand.NewSource(int64(seed)))}
}

// Seed reseeds the generator in place.
func (g *RNG) Seed(seed uint32) {
	g.r = rand.New(rand.NewSource(int64(seed)))
}

// Intn returns a pseudo-random integer in [0, n).
func (g *RNG) Intn(n int) int {
	return g.r.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// IntRange returns a pseudo-random integer in [lo, hi].
func (g *RNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// FloatRange returns a pseudo-random float64 in [lo, hi).
func (g *RNG) FloatRange(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}
