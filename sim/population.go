// Package sim owns the agent population and drives the simulation step
// pipeline: sense, decide, move, lifecycle.
package sim

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/components"
	"github.com/pthm-cable/substrate/geom"
	"github.com/pthm-cable/substrate/systems"
	"github.com/pthm-cable/substrate/telemetry"
)

// Options configures a new population.
type Options struct {
	Seed      int64
	Initial   int                  // agents sampled at start
	Collector *telemetry.Collector // optional event sink
}

// Population is the ordered collection of living agents. Agent storage
// lives in an ark ECS world, which gives index-stable slots and
// generation-tagged entity handles; the explicit order slice preserves
// insertion order for reproducible iteration, which ark's tables do not
// guarantee across removals.
type Population struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	mapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Vitals,
		components.Senses,
		components.Trail,
	]
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	vitMap   *ecs.Map1[components.Vitals]
	senMap   *ecs.Map1[components.Senses]
	trailMap *ecs.Map1[components.Trail]

	order  []ecs.Entity // live agents, insertion order
	nextID uint32
	tick   int32

	collector *telemetry.Collector

	// Scratch buffer reused across steps.
	snapshot []systems.SnapshotEntry
}

// New creates a population and samples the initial agents on the oracle's
// surface. Sampling failures under-provision the population; they are not
// errors.
func New(oracle geom.Oracle, opts Options) *Population {
	world := ecs.NewWorld()

	p := &Population{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,
		mapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Vitals,
			components.Senses,
			components.Trail,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		velMap:    ecs.NewMap1[components.Velocity](world),
		vitMap:    ecs.NewMap1[components.Vitals](world),
		senMap:    ecs.NewMap1[components.Senses](world),
		trailMap:  ecs.NewMap1[components.Trail](world),
		collector: opts.Collector,
	}

	p.buildAgents(opts.Initial, oracle)
	return p
}

// buildAgents samples count uniform parametric points on the oracle's
// domain and spawns an agent at each point that evaluates, with a small
// random planar starting velocity.
func (p *Population) buildAgents(count int, oracle geom.Oracle) {
	dom := oracle.Domain()
	for i := 0; i < count; i++ {
		u := dom.U0 + p.rng.Float64()*(dom.U1-dom.U0)
		v := dom.V0 + p.rng.Float64()*(dom.V1-dom.V0)
		pos, ok := oracle.Evaluate(u, v)
		if !ok {
			continue
		}
		vel := r3.Vec{
			X: -0.05 + p.rng.Float64()*0.1,
			Y: -0.05 + p.rng.Float64()*0.1,
		}
		p.spawnAgent(pos, vel)
	}

	if len(p.order) < count {
		slog.Warn("initial population under-provisioned",
			"requested", count,
			"sampled", len(p.order),
		)
	}
}

// spawnAgent creates a live agent with a fresh ID. IDs never repeat for the
// lifetime of the simulation.
func (p *Population) spawnAgent(position, velocity r3.Vec) ecs.Entity {
	id := p.nextID
	p.nextID++

	pos := components.Position{Pos: position}
	vel := components.Velocity{Vel: velocity}
	vit := components.Vitals{ID: id, Age: 0, Alive: true}
	sen := components.Senses{}
	trail := components.Trail{Points: []r3.Vec{position}}

	e := p.mapper.NewEntity(&pos, &vel, &vit, &sen, &trail)
	p.order = append(p.order, e)
	return e
}

// Len returns the number of living agents.
func (p *Population) Len() int {
	return len(p.order)
}

// Tick returns the number of completed steps.
func (p *Population) Tick() int32 {
	return p.tick
}

// Seed returns the RNG seed the population was created with.
func (p *Population) Seed() int64 {
	return p.seed
}

// AgentView is a read-only view of one agent for export and inspection.
type AgentView struct {
	Entity    ecs.Entity
	ID        uint32
	Age       int32
	Pos       r3.Vec
	Vel       r3.Vec
	SlopeMag  float64
	Neighbors int
	Trail     []r3.Vec
}

// Each calls fn for every living agent in population order.
func (p *Population) Each(fn func(AgentView)) {
	for _, e := range p.order {
		vit := p.vitMap.Get(e)
		sen := p.senMap.Get(e)
		fn(AgentView{
			Entity:    e,
			ID:        vit.ID,
			Age:       vit.Age,
			Pos:       p.posMap.Get(e).Pos,
			Vel:       p.velMap.Get(e).Vel,
			SlopeMag:  sen.SlopeMag,
			Neighbors: len(sen.Neighbors),
			Trail:     p.trailMap.Get(e).Points,
		})
	}
}

// Samples collects per-agent telemetry samples in population order.
func (p *Population) Samples() []telemetry.AgentSample {
	samples := make([]telemetry.AgentSample, 0, len(p.order))
	p.Each(func(a AgentView) {
		samples = append(samples, telemetry.AgentSample{
			Pos:           a.Pos,
			Speed:         r3.Norm(a.Vel),
			NeighborCount: a.Neighbors,
			SlopeMag:      a.SlopeMag,
		})
	})
	return samples
}

// Snapshot exports the full population state, including paths.
func (p *Population) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: p.seed,
		Steps:   p.tick,
	}
	p.Each(func(a AgentView) {
		snap.Agents = append(snap.Agents, telemetry.AgentState{
			ID:       a.ID,
			Age:      a.Age,
			Position: a.Pos,
			Velocity: a.Vel,
			Path:     a.Trail,
		})
	})
	return snap
}
