// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/geom"
)

// Position is an agent's current location.
type Position struct {
	Pos r3.Vec
}

// Velocity is an agent's current heading and speed.
type Velocity struct {
	Vel r3.Vec
}

// Vitals holds agent identity and lifecycle state.
// ID is unique for the lifetime of the simulation and never reused.
// Alive transitions true to false exactly once.
type Vitals struct {
	ID    uint32
	Age   int32
	Alive bool
}

// Neighbor is one nearby agent sensed during a step. Delta is the offset
// from the sensing agent to the neighbor at snapshot time, so later stages
// never dereference a possibly-moved position. The entity handle is
// generation-tagged; a stale reference to a removed agent cannot resolve to
// a different one.
type Neighbor struct {
	Agent ecs.Entity
	Delta r3.Vec
	Dist  float64
}

// Senses holds per-step sensed geometry and neighbor data. All fields are
// recomputed every step and carry no meaning across steps, with one
// exception: when projection fails, UV is marked absent while the curvature
// and slope fields keep their previous values.
type Senses struct {
	UV    geom.UV
	HasUV bool

	CurvMean float64
	CurvDir  r3.Vec
	Slope    r3.Vec
	SlopeMag float64

	// Neighbors is rebuilt every step from the pre-step snapshot and
	// never persisted. It never includes the agent itself.
	Neighbors []Neighbor
}

// Trail is the append-only path history of an agent. It is never empty and
// its last element always equals the agent's position. Growth is unbounded;
// memory is bounded by the caller via max age and total step count.
type Trail struct {
	Points []r3.Vec
}

// Append records a new position at the end of the trail.
func (t *Trail) Append(p r3.Vec) {
	t.Points = append(t.Points, p)
}

// Last returns the most recent trail position.
func (t *Trail) Last() r3.Vec {
	return t.Points[len(t.Points)-1]
}
