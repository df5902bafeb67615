// Package random provides the seedable random source every stochastic
// choice of the simulation is drawn from.
package random

import "math/rand/v2"

// pcgStream is the fixed PCG stream selector; runs are distinguished by seed only.
const pcgStream = 0x9e3779b97f4a7c15

// Source is satisfied by *rand.Rand.
type Source interface {
	Float64() float64
	IntN(n int) int
	Uint64() uint64
}

func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, pcgStream))
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
