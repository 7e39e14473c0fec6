package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// AgentSample is one agent's contribution to a step's statistics.
type AgentSample struct {
	Pos           r3.Vec
	Speed         float64
	NeighborCount int
	SlopeMag      float64
}

// StepStats is one row of the per-step CSV log.
type StepStats struct {
	Step       int32   `csv:"step"`
	Population int     `csv:"population"`
	Births     int     `csv:"births"`
	Deaths     int     `csv:"deaths"`
	MeanSpeed  float64 `csv:"mean_speed"`
	P90Speed   float64 `csv:"p90_speed"`
	MaxSpeed   float64 `csv:"max_speed"`
	MeanNbrs   float64 `csv:"mean_neighbors"`
	MeanSlope  float64 `csv:"mean_slope"`
	Spread     float64 `csv:"spread"`
}

// ComputeStepStats aggregates agent samples into a stats row. Spread is the
// RMS distance of agents from their centroid, a cheap proxy for how far the
// pattern has branched out.
func ComputeStepStats(step int32, births, deaths int, samples []AgentSample) StepStats {
	s := StepStats{
		Step:       step,
		Population: len(samples),
		Births:     births,
		Deaths:     deaths,
	}
	if len(samples) == 0 {
		return s
	}

	speeds := make([]float64, len(samples))
	nbrs := make([]float64, len(samples))
	slopes := make([]float64, len(samples))
	var centroid r3.Vec
	for i, a := range samples {
		speeds[i] = a.Speed
		nbrs[i] = float64(a.NeighborCount)
		slopes[i] = a.SlopeMag
		centroid = r3.Add(centroid, a.Pos)
	}
	centroid = r3.Scale(1/float64(len(samples)), centroid)

	var sumSq float64
	for _, a := range samples {
		d := r3.Norm(r3.Sub(a.Pos, centroid))
		sumSq += d * d
	}

	sort.Float64s(speeds)
	s.MeanSpeed = stat.Mean(speeds, nil)
	s.P90Speed = stat.Quantile(0.9, stat.Empirical, speeds, nil)
	s.MaxSpeed = speeds[len(speeds)-1]
	s.MeanNbrs = stat.Mean(nbrs, nil)
	s.MeanSlope = stat.Mean(slopes, nil)
	s.Spread = math.Sqrt(sumSq / float64(len(samples)))
	return s
}
