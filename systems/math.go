package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// uniform returns a uniform random value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// unit returns v scaled to unit length. Callers guard against near-zero
// norms before calling.
func unit(v r3.Vec) r3.Vec {
	return r3.Scale(1/r3.Norm(v), v)
}
