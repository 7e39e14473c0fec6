// Package surface provides a noise-deformed heightfield implementing the
// geom.Oracle interface: a flat point grid displaced in Z by fractal
// opensimplex noise, evaluated bilinearly over the unit parameter square.
package surface

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/geom"
)

// domainTol is how far Evaluate accepts parameters outside [0, 1] before
// reporting the surface undefined. Finite-difference probes near the domain
// edge land in this band.
const domainTol = 1e-2

// Params describes heightfield construction.
type Params struct {
	SizeX, SizeY float64 // world footprint
	DivU, DivV   int     // grid divisions (points per axis)
	Amplitude    float64 // height scale after normalization
	Scale        float64 // base noise frequency
	Octaves      int     // fbm octaves
	Lacunarity   float64 // frequency multiplier per octave
	Gain         float64 // amplitude multiplier per octave
}

// Heightfield is a z = h(x, y) surface over a rectangular footprint,
// parameterized by (u, v) in [0, 1]^2.
type Heightfield struct {
	sizeX, sizeY float64
	divU, divV   int
	heights      []float64 // divU * divV, row-major by u index
}

// New builds a heightfield from fbm noise with the given seed.
// Heights are normalized to [-amplitude, amplitude], matching the
// recenter-and-scale step of the point-grid pipeline this surface feeds.
func New(p Params, seed int64) *Heightfield {
	if p.DivU < 2 {
		p.DivU = 2
	}
	if p.DivV < 2 {
		p.DivV = 2
	}
	if p.Scale <= 0 {
		p.Scale = 1
	}

	h := &Heightfield{
		sizeX:   p.SizeX,
		sizeY:   p.SizeY,
		divU:    p.DivU,
		divV:    p.DivV,
		heights: make([]float64, p.DivU*p.DivV),
	}

	noise := opensimplex.New(seed)
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for i := 0; i < p.DivU; i++ {
		for j := 0; j < p.DivV; j++ {
			u := float64(i) / float64(p.DivU-1)
			v := float64(j) / float64(p.DivV-1)
			z := fbm(noise, u*p.Scale, v*p.Scale, p.Octaves, p.Lacunarity, p.Gain)
			h.heights[i*p.DivV+j] = z
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}

	// Recenter to [-1, 1] and apply amplitude. A perfectly flat field
	// stays flat.
	if hi > lo {
		for k, z := range h.heights {
			h.heights[k] = ((z-lo)/(hi-lo)*2 - 1) * p.Amplitude
		}
	} else {
		for k := range h.heights {
			h.heights[k] = 0
		}
	}

	return h
}

// Domain returns the unit parameter square.
func (h *Heightfield) Domain() geom.Domain {
	return geom.Domain{U0: 0, U1: 1, V0: 0, V1: 1}
}

// Evaluate returns the surface point at (u, v) by bilinear interpolation of
// the height grid. Parameters slightly outside [0, 1] are clamped; beyond
// the tolerance band the surface is undefined.
func (h *Heightfield) Evaluate(u, v float64) (r3.Vec, bool) {
	if math.IsNaN(u) || math.IsNaN(v) {
		return r3.Vec{}, false
	}
	if u < -domainTol || u > 1+domainTol || v < -domainTol || v > 1+domainTol {
		return r3.Vec{}, false
	}
	u = clamp01(u)
	v = clamp01(v)

	return r3.Vec{
		X: u * h.sizeX,
		Y: v * h.sizeY,
		Z: h.heightAt(u, v),
	}, true
}

// ClosestParam projects a point vertically onto the footprint and returns
// the clamped parametric coordinate. Fails only for non-finite points.
func (h *Heightfield) ClosestParam(p r3.Vec) (geom.UV, bool) {
	if !geom.Finite(p) {
		return geom.UV{}, false
	}
	return geom.UV{
		U: clamp01(p.X / h.sizeX),
		V: clamp01(p.Y / h.sizeY),
	}, true
}

// SlopeAt implements the shared finite-difference slope rule.
func (h *Heightfield) SlopeAt(u, v, step float64) (r3.Vec, float64) {
	if step <= 0 {
		step = geom.DefaultSlopeStep
	}
	return geom.FiniteDifferenceSlope(h, u, v, step)
}

// CurvatureAt returns the mean curvature of the height graph and the
// principal curvature direction, both from central finite differences at
// grid-cell scale. Returns zero values where the stencil leaves the domain
// or the surface is locally planar.
func (h *Heightfield) CurvatureAt(u, v float64) (float64, r3.Vec) {
	hu := 1 / float64(h.divU-1)
	hv := 1 / float64(h.divV-1)
	if u-hu < 0 || u+hu > 1 || v-hv < 0 || v+hv > 1 {
		return 0, r3.Vec{}
	}

	z00 := h.heightAt(u, v)
	zpu := h.heightAt(u+hu, v)
	zmu := h.heightAt(u-hu, v)
	zpv := h.heightAt(u, v+hv)
	zmv := h.heightAt(u, v-hv)
	zpp := h.heightAt(u+hu, v+hv)
	zpm := h.heightAt(u+hu, v-hv)
	zmp := h.heightAt(u-hu, v+hv)
	zmm := h.heightAt(u-hu, v-hv)

	// Partials of z with respect to world x and y.
	dx := hu * h.sizeX
	dy := hv * h.sizeY
	fx := (zpu - zmu) / (2 * dx)
	fy := (zpv - zmv) / (2 * dy)
	fxx := (zpu - 2*z00 + zmu) / (dx * dx)
	fyy := (zpv - 2*z00 + zmv) / (dy * dy)
	fxy := (zpp - zpm - zmp + zmm) / (4 * dx * dy)

	// Mean curvature of the graph z = f(x, y).
	g := 1 + fx*fx + fy*fy
	mean := ((1+fy*fy)*fxx - 2*fx*fy*fxy + (1+fx*fx)*fyy) / (2 * math.Pow(g, 1.5))

	// Principal direction: dominant eigenvector of the Hessian, lifted to
	// the tangent plane.
	px, py, ok := dominantEigenvector(fxx, fxy, fyy)
	if !ok {
		return mean, r3.Vec{}
	}
	dir := r3.Vec{X: px, Y: py, Z: fx*px + fy*py}
	n := r3.Norm(dir)
	if n < 1e-12 {
		return mean, r3.Vec{}
	}
	return mean, r3.Scale(1/n, dir)
}

// heightAt bilinearly interpolates the height grid at clamped (u, v).
func (h *Heightfield) heightAt(u, v float64) float64 {
	u = clamp01(u)
	v = clamp01(v)

	fu := u * float64(h.divU-1)
	fv := v * float64(h.divV-1)
	i := int(fu)
	j := int(fv)
	if i >= h.divU-1 {
		i = h.divU - 2
	}
	if j >= h.divV-1 {
		j = h.divV - 2
	}
	su := fu - float64(i)
	sv := fv - float64(j)

	z00 := h.heights[i*h.divV+j]
	z10 := h.heights[(i+1)*h.divV+j]
	z01 := h.heights[i*h.divV+j+1]
	z11 := h.heights[(i+1)*h.divV+j+1]

	return lerp(lerp(z00, z10, su), lerp(z01, z11, su), sv)
}

// dominantEigenvector returns the unit eigenvector of the symmetric matrix
// [a b; b c] for the eigenvalue of largest magnitude. ok is false when the
// matrix is numerically isotropic and no direction is preferred.
func dominantEigenvector(a, b, c float64) (x, y float64, ok bool) {
	half := (a - c) / 2
	disc := math.Hypot(half, b)
	if disc < 1e-12 {
		return 0, 0, false
	}
	trace := (a + c) / 2
	lambda := trace + disc
	if math.Abs(trace-disc) > math.Abs(lambda) {
		lambda = trace - disc
	}

	// (b, lambda-a) and (lambda-c, b) are both eigenvectors; pick the
	// better-conditioned one.
	v1x, v1y := b, lambda-a
	v2x, v2y := lambda-c, b
	if v1x*v1x+v1y*v1y >= v2x*v2x+v2y*v2y {
		x, y = v1x, v1y
	} else {
		x, y = v2x, v2y
	}
	n := math.Hypot(x, y)
	if n < 1e-12 {
		return 0, 0, false
	}
	return x / n, y / n, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
