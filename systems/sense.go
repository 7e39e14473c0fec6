package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
	"github.com/pthm-cable/substrate/geom"
)

// SnapshotEntry is one agent's position as of the start of the step, before
// any agent has moved. Sensing reads only these, never live positions, so an
// agent's decision cannot observe another agent's same-step movement.
type SnapshotEntry struct {
	Agent ecs.Entity
	Pos   r3.Vec
}

// Sense refreshes an agent's cached geometry and neighbor data.
//
// Projection failure is silent: the parametric coordinate is marked absent
// and the curvature and slope fields keep whatever the previous step left in
// them. The neighbor set is rebuilt either way.
func Sense(sen *components.Senses, self ecs.Entity, pos r3.Vec, snapshot []SnapshotEntry, oracle geom.Oracle, visionRadius float64) {
	uv, ok := oracle.ClosestParam(pos)
	sen.UV = uv
	sen.HasUV = ok
	if ok {
		sen.CurvMean, sen.CurvDir = oracle.CurvatureAt(uv.U, uv.V)
		sen.Slope, sen.SlopeMag = oracle.SlopeAt(uv.U, uv.V, geom.DefaultSlopeStep)
	}

	// Exact pairwise scan, quadratic in population size. A spatial index
	// would change nothing observable here and can be slotted in later.
	sen.Neighbors = sen.Neighbors[:0]
	if visionRadius <= 0 {
		return
	}
	for _, other := range snapshot {
		if other.Agent == self {
			continue
		}
		delta := r3.Sub(other.Pos, pos)
		d := r3.Norm(delta)
		if d <= visionRadius {
			sen.Neighbors = append(sen.Neighbors, components.Neighbor{
				Agent: other.Agent,
				Delta: delta,
				Dist:  d,
			})
		}
	}
}
