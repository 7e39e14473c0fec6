package main

import (
	"github.com/pthm-cable/substrate/config"
	"github.com/pthm-cable/substrate/sim"
	"github.com/pthm-cable/substrate/surface"
	"github.com/pthm-cable/substrate/telemetry"
)

// FitnessEvaluator scores parameter vectors by running headless simulations.
type FitnessEvaluator struct {
	params  *ParamVector
	steps   int
	seeds   []int64
	baseCfg *config.Config
}

// NewFitnessEvaluator creates an evaluator running steps ticks per seed.
func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		steps:   steps,
		seeds:   seeds,
		baseCfg: baseCfg,
	}
}

// Evaluate runs the simulation for every seed and returns the negated mean
// score, so gonum's minimizer maximizes pattern quality. Score is spatial
// spread scaled by the surviving fraction of the step budget: patterns that
// branch wide and keep a living population score best.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseCfg
	fe.params.ApplyToConfig(&cfg, raw)
	stageParams := cfg.Params()

	var total float64
	for _, seed := range fe.seeds {
		oracle := surface.New(cfg.SurfaceParams(), seed)
		pop := sim.New(oracle, sim.Options{
			Seed:    seed,
			Initial: cfg.Population.Initial,
		})

		survived := 0
		for i := 0; i < fe.steps; i++ {
			pop.Step(oracle, stageParams)
			if pop.Len() == 0 {
				break
			}
			survived++
		}

		stats := telemetry.ComputeStepStats(pop.Tick(), 0, 0, pop.Samples())
		total += stats.Spread * float64(survived) / float64(fe.steps)
	}

	return -total / float64(len(fe.seeds))
}
