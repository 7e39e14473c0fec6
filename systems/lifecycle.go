package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
	"github.com/pthm-cable/substrate/geom"
)

// Lifecycle ages an agent, applies the death rules, and evaluates spawning.
// It reports whether the agent should produce a child this step; a dead
// agent never does. Death compares the sensed slope magnitude, which may be
// stale if this step's projection failed.
func Lifecycle(vit *components.Vitals, sen *components.Senses, p Params, rng *rand.Rand) bool {
	vit.Age++

	if vit.Age > p.MaxAge || sen.SlopeMag > p.SlopeKill {
		vit.Alive = false
		return false
	}

	prob := p.SpawnChance
	if math.Abs(sen.CurvMean) > p.CurvatureSpawnThreshold {
		prob *= 3
	}
	if len(sen.Neighbors) > p.MaxNeighbors {
		prob = 0
	}

	return rng.Float64() < prob
}

// SpawnOffspring computes a child's starting position and velocity near the
// parent: the parent position plus a planar jitter of up to ±offset per
// axis, snapped back onto the surface when projection succeeds, with a small
// random planar velocity.
func SpawnOffspring(parent r3.Vec, offset float64, oracle geom.Oracle, rng *rand.Rand) (pos, vel r3.Vec) {
	pos = r3.Add(parent, r3.Vec{
		X: uniform(rng, -offset, offset),
		Y: uniform(rng, -offset, offset),
	})
	if uv, ok := oracle.ClosestParam(pos); ok {
		if projected, ok := oracle.Evaluate(uv.U, uv.V); ok {
			pos = projected
		}
	}
	vel = r3.Vec{
		X: uniform(rng, -0.05, 0.05),
		Y: uniform(rng, -0.05, 0.05),
	}
	return pos, vel
}
