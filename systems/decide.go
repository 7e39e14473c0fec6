package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
)

// Decide updates an agent's velocity from its sensed state. The terms apply
// in a fixed order; reordering them changes the result.
//
// RNG draws happen only in the anti-stall branch (two, for x and y), so
// identical sensed state and velocity consume the RNG identically.
func Decide(vel *components.Velocity, sen *components.Senses, p Params, rng *rand.Rand) {
	v := vel.Vel

	// 1. Slope resistance: steeper ground damps speed, floored at 0.2.
	resistance := 1.0
	if p.MaxSlope > 0 {
		resistance = math.Max(0.2, 1-sen.SlopeMag/p.MaxSlope)
	}
	v = r3.Scale(resistance, v)

	// 2. Curvature alignment, four times stronger on near-flat regions.
	if r3.Norm(sen.CurvDir) > 1e-6 {
		alignWeight := p.AlignmentWeight
		if math.Abs(sen.CurvMean) < 0.1 {
			alignWeight *= 4
		}
		v = r3.Add(v, r3.Scale(alignWeight, unit(sen.CurvDir)))
	}

	// 3. Neighbor interaction: a distance-weighted pull toward neighbor
	// directions. Attraction, not avoidance.
	if len(sen.Neighbors) > 0 {
		var pull r3.Vec
		for _, n := range sen.Neighbors {
			if r3.Norm(n.Delta) > 1e-9 {
				pull = r3.Add(pull, r3.Scale(1/math.Max(n.Dist, 1e-6), unit(n.Delta)))
			}
		}
		if r3.Norm(pull) > 1e-9 {
			v = r3.Add(v, r3.Scale(p.SeparationWeight, unit(pull)))
		}
	}

	// 4. Speed clamp.
	if speed := r3.Norm(v); speed > p.MaxSpeed {
		v = r3.Scale(p.MaxSpeed/speed, v)
	}

	// 5. Anti-stall jitter: planar perturbation, z untouched.
	if r3.Norm(v) < 1e-4 {
		v.X += uniform(rng, -p.Jitter, p.Jitter)
		v.Y += uniform(rng, -p.Jitter, p.Jitter)
	}

	vel.Vel = v
}
