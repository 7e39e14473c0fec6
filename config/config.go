// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/substrate/surface"
	"github.com/pthm-cable/substrate/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Surface    SurfaceConfig    `yaml:"surface"`
	Population PopulationConfig `yaml:"population"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Run        RunConfig        `yaml:"run"`
}

// SurfaceConfig holds heightfield construction parameters.
type SurfaceConfig struct {
	SizeX      float64 `yaml:"size_x"`     // Footprint in X
	SizeY      float64 `yaml:"size_y"`     // Footprint in Y
	DivU       int     `yaml:"div_u"`      // Grid points in U
	DivV       int     `yaml:"div_v"`      // Grid points in V
	Amplitude  float64 `yaml:"amplitude"`  // Height scale
	Scale      float64 `yaml:"scale"`      // Base noise frequency
	Octaves    int     `yaml:"octaves"`    // FBM octaves (detail level)
	Lacunarity float64 `yaml:"lacunarity"` // Frequency multiplier per octave
	Gain       float64 `yaml:"gain"`       // Amplitude multiplier per octave
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"` // Agents sampled at simulation start
}

// BehaviorConfig holds the decision-stage weights and limits.
type BehaviorConfig struct {
	VisionRadius     float64 `yaml:"vision_radius"`     // Neighbor sensing cutoff
	MaxSpeed         float64 `yaml:"max_speed"`         // Speed clamp per step
	MaxSlope         float64 `yaml:"max_slope"`         // Slope resistance scale
	AlignmentWeight  float64 `yaml:"alignment_weight"`  // Curvature alignment strength
	SeparationWeight float64 `yaml:"separation_weight"` // Neighbor interaction strength
	Jitter           float64 `yaml:"jitter"`            // Anti-stall perturbation
}

// LifecycleConfig holds aging, death, and spawn parameters.
type LifecycleConfig struct {
	MaxAge                  int     `yaml:"max_age"`                   // Death when age exceeds this
	SlopeKill               float64 `yaml:"slope_kill"`                // Death threshold on slope magnitude
	CurvatureSpawnThreshold float64 `yaml:"curvature_spawn_threshold"` // Curvature spawn boost threshold
	SpawnChance             float64 `yaml:"spawn_chance"`              // Base per-step spawn probability
	MaxNeighbors            int     `yaml:"max_neighbors"`             // Crowding cutoff for spawning
	Offset                  float64 `yaml:"offset"`                    // Child placement jitter radius
}

// RunConfig holds run-control parameters.
type RunConfig struct {
	Steps    int `yaml:"steps"`     // Simulation steps to drive
	LogEvery int `yaml:"log_every"` // Steps between stats log lines (0 = every step)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Params assembles the stage parameter set consumed by the step pipeline.
func (c *Config) Params() systems.Params {
	return systems.Params{
		VisionRadius:            c.Behavior.VisionRadius,
		MaxSpeed:                c.Behavior.MaxSpeed,
		MaxSlope:                c.Behavior.MaxSlope,
		AlignmentWeight:         c.Behavior.AlignmentWeight,
		SeparationWeight:        c.Behavior.SeparationWeight,
		Jitter:                  c.Behavior.Jitter,
		MaxAge:                  int32(c.Lifecycle.MaxAge),
		SlopeKill:               c.Lifecycle.SlopeKill,
		CurvatureSpawnThreshold: c.Lifecycle.CurvatureSpawnThreshold,
		SpawnChance:             c.Lifecycle.SpawnChance,
		MaxNeighbors:            c.Lifecycle.MaxNeighbors,
		Offset:                  c.Lifecycle.Offset,
	}
}

// SurfaceParams assembles the heightfield construction parameters.
func (c *Config) SurfaceParams() surface.Params {
	return surface.Params{
		SizeX:      c.Surface.SizeX,
		SizeY:      c.Surface.SizeY,
		DivU:       c.Surface.DivU,
		DivV:       c.Surface.DivV,
		Amplitude:  c.Surface.Amplitude,
		Scale:      c.Surface.Scale,
		Octaves:    c.Surface.Octaves,
		Lacunarity: c.Surface.Lacunarity,
		Gain:       c.Surface.Gain,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
