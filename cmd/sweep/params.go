package main

import "github.com/pthm-cable/substrate/config"

// ParamSpec defines a single searchable behavior parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of searched parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of searched parameters. Bounds
// bracket the reference defaults generously without leaving the regime
// where the behavioral rules stay meaningful.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "alignment_weight", Min: 0.0, Max: 0.3, Default: 0.05},
			{Name: "separation_weight", Min: 0.0, Max: 0.5, Default: 0.12},
			{Name: "spawn_chance", Min: 0.0, Max: 0.1, Default: 0.02},
			{Name: "vision_radius", Min: 0.2, Max: 4.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the starting values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Clamp bounds each value to its spec range.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := raw[i]
		if v < spec.Min {
			v = spec.Min
		}
		if v > spec.Max {
			v = spec.Max
		}
		clamped[i] = v
	}
	return clamped
}

// ApplyToConfig writes clamped values into a config.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	v := pv.Clamp(raw)
	cfg.Behavior.AlignmentWeight = v[0]
	cfg.Behavior.SeparationWeight = v[1]
	cfg.Lifecycle.SpawnChance = v[2]
	cfg.Behavior.VisionRadius = v[3]
}
