package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
)

func lifecycleParams() Params {
	return Params{
		MaxAge:                  200,
		SlopeKill:               1.2,
		CurvatureSpawnThreshold: 0.15,
		SpawnChance:             0.02,
		MaxNeighbors:            6,
		Offset:                  0.2,
	}
}

func TestLifecycleAges(t *testing.T) {
	vit := &components.Vitals{Alive: true}
	sen := &components.Senses{}
	rng := newRNG()

	for i := 0; i < 5; i++ {
		Lifecycle(vit, sen, lifecycleParams(), rng)
	}
	if vit.Age != 5 {
		t.Errorf("age = %d, want 5", vit.Age)
	}
	if !vit.Alive {
		t.Error("agent died under benign conditions")
	}
}

func TestLifecycleOldAgeDeath(t *testing.T) {
	p := lifecycleParams()
	vit := &components.Vitals{Age: p.MaxAge - 1, Alive: true}
	sen := &components.Senses{}
	rng := newRNG()

	// Age becomes MaxAge: still within the allowance.
	Lifecycle(vit, sen, p, rng)
	if !vit.Alive {
		t.Fatalf("agent died at age %d, limit is %d", vit.Age, p.MaxAge)
	}

	// Age crosses MaxAge: dies.
	if spawned := Lifecycle(vit, sen, p, rng); spawned {
		t.Error("dying agent reported a spawn")
	}
	if vit.Alive {
		t.Errorf("agent alive at age %d, limit is %d", vit.Age, p.MaxAge)
	}
}

func TestLifecycleSlopeDeath(t *testing.T) {
	p := lifecycleParams()
	vit := &components.Vitals{Alive: true}
	sen := &components.Senses{SlopeMag: p.SlopeKill + 0.01}
	rng := newRNG()

	if spawned := Lifecycle(vit, sen, p, rng); spawned {
		t.Error("dying agent reported a spawn")
	}
	if vit.Alive {
		t.Error("agent survived slope beyond the kill threshold")
	}

	// Exactly at the threshold is survivable.
	vit = &components.Vitals{Alive: true}
	sen.SlopeMag = p.SlopeKill
	Lifecycle(vit, sen, p, rng)
	if !vit.Alive {
		t.Error("agent died at slope equal to the kill threshold")
	}
}

func TestLifecycleSpawnProbability(t *testing.T) {
	tests := []struct {
		name      string
		chance    float64
		curvMean  float64
		neighbors int
		want      bool
	}{
		{"certain spawn", 1.0, 0, 0, true},
		{"zero chance", 0.0, 0, 0, false},
		// 0.4 * 3 saturates the probability.
		{"curvature boost", 0.4, 0.5, 0, true},
		{"crowding suppresses", 1.0, 0, 7, false},
		{"crowding at limit still spawns", 1.0, 0, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := lifecycleParams()
			p.SpawnChance = tt.chance
			vit := &components.Vitals{Alive: true}
			sen := &components.Senses{
				CurvMean:  tt.curvMean,
				Neighbors: make([]components.Neighbor, tt.neighbors),
			}
			if got := Lifecycle(vit, sen, p, newRNG()); got != tt.want {
				t.Errorf("spawn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpawnOffspringStaysNearParent(t *testing.T) {
	oracle := &stubOracle{failProject: true}
	parent := r3.Vec{X: 3, Y: 4, Z: 1}
	rng := newRNG()

	for i := 0; i < 50; i++ {
		pos, vel := SpawnOffspring(parent, 0.2, oracle, rng)
		if math.Abs(pos.X-parent.X) > 0.2 || math.Abs(pos.Y-parent.Y) > 0.2 {
			t.Fatalf("offspring at %+v strayed beyond offset from %+v", pos, parent)
		}
		if pos.Z != parent.Z {
			t.Fatalf("unprojected offspring changed height: %v", pos.Z)
		}
		if math.Abs(vel.X) > 0.05 || math.Abs(vel.Y) > 0.05 || vel.Z != 0 {
			t.Fatalf("offspring velocity %+v outside planar ±0.05", vel)
		}
	}
}

func TestSpawnOffspringProjected(t *testing.T) {
	// The stub surface is the z=0 plane, so a projected child lands on it.
	oracle := &stubOracle{}
	pos, _ := SpawnOffspring(r3.Vec{X: 1, Y: 1, Z: 5}, 0.2, oracle, newRNG())
	if pos.Z != 0 {
		t.Errorf("offspring z = %v, want 0 after projection", pos.Z)
	}
}
