// Package systems implements the per-agent stages of the simulation step:
// sensing, decision, motion, and lifecycle. Stage functions are pure over
// their inputs plus an explicit RNG; they never read global state.
package systems

// Params holds the externally supplied behavior and lifecycle parameters.
// The stages assume nothing beyond what each rule states; validation of
// nonsensical values (e.g. negative MaxSlope) is the caller's concern.
type Params struct {
	// Sensing
	VisionRadius float64 // neighbor distance cutoff; <= 0 means no neighbors

	// Decision
	MaxSpeed         float64 // speed clamp after all velocity terms
	MaxSlope         float64 // slope resistance scale; <= 0 disables resistance
	AlignmentWeight  float64 // pull toward principal curvature direction
	SeparationWeight float64 // neighbor interaction strength
	Jitter           float64 // anti-stall perturbation half-range

	// Lifecycle
	MaxAge                   int32   // death when age exceeds this
	SlopeKill                float64 // death when sensed slope magnitude exceeds this
	CurvatureSpawnThreshold  float64 // |mean curvature| above this triples spawn chance
	SpawnChance              float64 // base per-step spawn probability
	MaxNeighbors             int     // crowding cutoff; more neighbors forces spawn chance to zero
	Offset                   float64 // planar jitter half-range for child placement
}
