package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/geom"
)

// stubOracle is a scriptable flat surface for stage tests. The default
// behavior maps (u, v) to (u, v, 0) and projects points vertically.
type stubOracle struct {
	failProject bool
	failEval    bool

	curvMean float64
	curvDir  r3.Vec
	slope    r3.Vec
	slopeMag float64
}

func (s *stubOracle) Evaluate(u, v float64) (r3.Vec, bool) {
	if s.failEval {
		return r3.Vec{}, false
	}
	return r3.Vec{X: u, Y: v}, true
}

func (s *stubOracle) ClosestParam(p r3.Vec) (geom.UV, bool) {
	if s.failProject {
		return geom.UV{}, false
	}
	return geom.UV{U: p.X, V: p.Y}, true
}

func (s *stubOracle) CurvatureAt(u, v float64) (float64, r3.Vec) {
	return s.curvMean, s.curvDir
}

func (s *stubOracle) SlopeAt(u, v, step float64) (r3.Vec, float64) {
	return s.slope, s.slopeMag
}

func (s *stubOracle) Domain() geom.Domain {
	return geom.Domain{U0: 0, U1: 1, V0: 0, V1: 1}
}
