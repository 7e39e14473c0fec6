// Package geom defines the geometry service the simulation consumes:
// a parametric surface oracle plus small vector helpers over gonum's r3.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSlopeStep is the parametric step used for finite-difference slope
// sampling when callers have no reason to override it.
const DefaultSlopeStep = 1e-3

// UV is a parametric surface coordinate.
type UV struct {
	U, V float64
}

// Domain is the parametric sampling domain of a surface.
type Domain struct {
	U0, U1 float64
	V0, V1 float64
}

// Oracle is the surface geometry provider consumed by the simulation.
// Implementations must never panic on degenerate input; every failure mode
// is reported through the boolean/zero-value conventions below and treated
// as a silent fallback by callers.
type Oracle interface {
	// Evaluate returns the 3D point at (u, v). ok is false where the
	// surface is undefined.
	Evaluate(u, v float64) (p r3.Vec, ok bool)

	// ClosestParam projects a point onto the surface and returns its
	// parametric coordinate. ok is false on failed projection.
	ClosestParam(p r3.Vec) (uv UV, ok bool)

	// CurvatureAt returns the mean curvature and principal curvature
	// direction at (u, v). Returns (0, zero vector) where undefined.
	CurvatureAt(u, v float64) (mean float64, dir r3.Vec)

	// SlopeAt returns the finite-difference slope vector and its magnitude
	// at (u, v): the sum of the Evaluate deltas toward (u+step, v) and
	// (u, v+step). Returns zero values if any evaluation fails.
	SlopeAt(u, v, step float64) (slope r3.Vec, mag float64)

	// Domain returns the parametric domain for random sampling.
	Domain() Domain
}

// FiniteDifferenceSlope implements the shared slope rule over any Oracle.
// The two parametric deltas are summed, not averaged.
func FiniteDifferenceSlope(o Oracle, u, v, step float64) (r3.Vec, float64) {
	p0, ok0 := o.Evaluate(u, v)
	pu, okU := o.Evaluate(u+step, v)
	pv, okV := o.Evaluate(u, v+step)
	if !ok0 || !okU || !okV {
		return r3.Vec{}, 0
	}
	slope := r3.Add(r3.Sub(pu, p0), r3.Sub(pv, p0))
	return slope, r3.Norm(slope)
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
