package grid

import "math/rand/v2"

// Rand picks an index in [0, n). It is the only source of randomness the
// engine depends on, so tests can substitute a scripted sequence.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand returns the process-wide random source.
func DefaultRand() Rand {
	return globalRand{}
}

// NewRand returns a deterministic source seeded with seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
