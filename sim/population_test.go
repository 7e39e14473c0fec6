package sim

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/geom"
	"github.com/pthm-cable/substrate/systems"
	"github.com/pthm-cable/substrate/telemetry"
)

// planeOracle is the z=0 unit square with configurable uniform slope and
// curvature readings.
type planeOracle struct {
	slopeMag float64
	curvMean float64
}

func (o *planeOracle) Evaluate(u, v float64) (r3.Vec, bool) {
	return r3.Vec{X: u, Y: v}, true
}

func (o *planeOracle) ClosestParam(p r3.Vec) (geom.UV, bool) {
	return geom.UV{U: p.X, V: p.Y}, true
}

func (o *planeOracle) CurvatureAt(u, v float64) (float64, r3.Vec) {
	return o.curvMean, r3.Vec{X: 1}
}

func (o *planeOracle) SlopeAt(u, v, step float64) (r3.Vec, float64) {
	return r3.Vec{X: o.slopeMag}, o.slopeMag
}

func (o *planeOracle) Domain() geom.Domain {
	return geom.Domain{U0: 0, U1: 1, V0: 0, V1: 1}
}

func benignParams() systems.Params {
	return systems.Params{
		VisionRadius: 1.0,
		MaxSpeed:     0.5,
		MaxSlope:     0.8,
		Jitter:       0.01,
		MaxAge:       1 << 20,
		SlopeKill:    1.2,
		SpawnChance:  0,
		MaxNeighbors: 6,
		Offset:       0.2,
	}
}

func TestNewSamplesInitialAgents(t *testing.T) {
	pop := New(&planeOracle{}, Options{Seed: 1, Initial: 10})
	if pop.Len() != 10 {
		t.Fatalf("Len = %d, want 10", pop.Len())
	}

	seen := map[uint32]bool{}
	pop.Each(func(a AgentView) {
		if seen[a.ID] {
			t.Errorf("duplicate agent ID %d", a.ID)
		}
		seen[a.ID] = true
		if len(a.Trail) != 1 || a.Trail[0] != a.Pos {
			t.Errorf("agent %d trail not seeded with its position", a.ID)
		}
		if a.Pos.X < 0 || a.Pos.X > 1 || a.Pos.Y < 0 || a.Pos.Y > 1 {
			t.Errorf("agent %d sampled outside the domain: %+v", a.ID, a.Pos)
		}
	})
}

func TestStepDeterminism(t *testing.T) {
	oracle := &planeOracle{curvMean: 0.2}
	params := benignParams()
	params.SpawnChance = 0.05

	run := func() *telemetry.Snapshot {
		pop := New(oracle, Options{Seed: 42, Initial: 20})
		for i := 0; i < 30; i++ {
			pop.Step(oracle, params)
		}
		return pop.Snapshot()
	}

	a, b := run(), run()
	if a.Steps != b.Steps || len(a.Agents) != len(b.Agents) {
		t.Fatalf("runs diverged: %d agents after %d steps vs %d after %d",
			len(a.Agents), a.Steps, len(b.Agents), b.Steps)
	}
	for i := range a.Agents {
		x, y := a.Agents[i], b.Agents[i]
		if x.ID != y.ID || x.Age != y.Age || x.Position != y.Position || x.Velocity != y.Velocity {
			t.Fatalf("agent %d diverged between identical runs:\n%+v\n%+v", i, x, y)
		}
	}
}

func TestStepGrowsTrails(t *testing.T) {
	oracle := &planeOracle{}
	pop := New(oracle, Options{Seed: 7, Initial: 5})

	for step := 1; step <= 3; step++ {
		pop.Step(oracle, benignParams())
		pop.Each(func(a AgentView) {
			if len(a.Trail) != step+1 {
				t.Fatalf("trail length %d after step %d, want %d", len(a.Trail), step, step+1)
			}
			if a.Trail[len(a.Trail)-1] != a.Pos {
				t.Fatalf("trail tail %+v != position %+v", a.Trail[len(a.Trail)-1], a.Pos)
			}
		})
	}
}

func TestStepCertainSpawnDoubles(t *testing.T) {
	oracle := &planeOracle{}
	collector := telemetry.NewCollector()
	pop := New(oracle, Options{Seed: 3, Initial: 8, Collector: collector})

	params := benignParams()
	params.SpawnChance = 1
	params.VisionRadius = 0 // no crowding suppression
	pop.Step(oracle, params)

	if pop.Len() != 16 {
		t.Fatalf("Len = %d after certain spawning, want 16", pop.Len())
	}
	births, deaths := collector.Totals()
	if births != 8 || deaths != 0 {
		t.Errorf("totals = %d births, %d deaths; want 8, 0", births, deaths)
	}
}

func TestStepMaxAgeExtinction(t *testing.T) {
	oracle := &planeOracle{}
	collector := telemetry.NewCollector()
	pop := New(oracle, Options{Seed: 9, Initial: 6, Collector: collector})

	params := benignParams()
	params.MaxAge = 3

	// Agents die when age exceeds MaxAge: alive through step 3, gone at 4.
	for i := 0; i < 3; i++ {
		pop.Step(oracle, params)
	}
	if pop.Len() != 6 {
		t.Fatalf("Len = %d at the age limit, want 6", pop.Len())
	}
	pop.Step(oracle, params)
	if pop.Len() != 0 {
		t.Fatalf("Len = %d past the age limit, want 0", pop.Len())
	}
	if _, deaths := collector.Totals(); deaths != 6 {
		t.Errorf("deaths = %d, want 6", deaths)
	}
}

func TestStepSlopeKill(t *testing.T) {
	oracle := &planeOracle{slopeMag: 5}
	pop := New(oracle, Options{Seed: 2, Initial: 4})

	pop.Step(oracle, benignParams())
	if pop.Len() != 0 {
		t.Fatalf("Len = %d on lethal slope, want 0", pop.Len())
	}
	if pop.Tick() != 1 {
		t.Errorf("Tick = %d, want 1", pop.Tick())
	}
}

func TestRemoveDeadPreservesOrder(t *testing.T) {
	pop := New(&planeOracle{}, Options{Seed: 5, Initial: 5})

	// Kill the middle agent directly.
	p := pop.vitMap.Get(pop.order[2])
	p.Alive = false
	pop.removeDead()

	if pop.Len() != 4 {
		t.Fatalf("Len = %d, want 4", pop.Len())
	}
	var ids []uint32
	pop.Each(func(a AgentView) { ids = append(ids, a.ID) })
	want := []uint32{0, 1, 3, 4}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("survivor order %v, want %v", ids, want)
		}
	}
}

func TestIDsNeverReused(t *testing.T) {
	oracle := &planeOracle{}
	pop := New(oracle, Options{Seed: 11, Initial: 4})

	params := benignParams()
	params.SpawnChance = 1
	params.VisionRadius = 0
	params.MaxAge = 1 // parents die next step, children keep arriving

	seen := map[uint32]bool{}
	pop.Each(func(a AgentView) { seen[a.ID] = true })
	for i := 0; i < 5; i++ {
		pop.Step(oracle, params)
		pop.Each(func(a AgentView) {
			if a.Age == 0 && seen[a.ID] {
				t.Fatalf("ID %d reused for a newborn", a.ID)
			}
			seen[a.ID] = true
		})
	}
}

func TestSamplesMatchPopulation(t *testing.T) {
	oracle := &planeOracle{slopeMag: 0.3}
	pop := New(oracle, Options{Seed: 6, Initial: 7})
	pop.Step(oracle, benignParams())

	samples := pop.Samples()
	if len(samples) != pop.Len() {
		t.Fatalf("got %d samples for %d agents", len(samples), pop.Len())
	}
	i := 0
	pop.Each(func(a AgentView) {
		s := samples[i]
		if s.Pos != a.Pos || s.SlopeMag != a.SlopeMag || s.NeighborCount != a.Neighbors {
			t.Errorf("sample %d does not match agent view", i)
		}
		i++
	})
}
