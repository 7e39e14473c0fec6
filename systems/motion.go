package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
	"github.com/pthm-cable/substrate/geom"
)

// Move integrates the agent one unit time step and re-projects it onto the
// surface. A failed projection (or a failed evaluation of the projected
// parameter) leaves the agent at the unprojected candidate; neither is an
// error. The resulting position is appended to the trail unconditionally.
func Move(pos *components.Position, trail *components.Trail, vel r3.Vec, oracle geom.Oracle) {
	candidate := r3.Add(pos.Pos, vel)

	next := candidate
	if uv, ok := oracle.ClosestParam(candidate); ok {
		if projected, ok := oracle.Evaluate(uv.U, uv.V); ok {
			next = projected
		}
	}

	pos.Pos = next
	trail.Append(next)
}
