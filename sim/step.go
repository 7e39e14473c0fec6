package sim

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/substrate/geom"
	"github.com/pthm-cable/substrate/systems"
)

// Step runs one full sense-decide-move-lifecycle pass over the population,
// then removes the dead and appends any spawned agents.
//
// Sensing for every agent completes against a snapshot of positions taken
// before any agent moves, so no decision observes same-step movement. After
// that, agents advance one at a time in population order; each agent's RNG
// draws happen in a fixed sequence (decision jitter, then spawn), which
// makes runs bit-identical for identical seed, parameters, and step count.
func (p *Population) Step(oracle geom.Oracle, params systems.Params) {
	// Phase 1: snapshot and sense. No RNG is consumed here.
	p.snapshot = p.snapshot[:0]
	for _, e := range p.order {
		p.snapshot = append(p.snapshot, systems.SnapshotEntry{
			Agent: e,
			Pos:   p.posMap.Get(e).Pos,
		})
	}
	for i, e := range p.order {
		systems.Sense(p.senMap.Get(e), e, p.snapshot[i].Pos, p.snapshot, oracle, params.VisionRadius)
	}

	// Phase 2: decide, move, lifecycle per agent in population order.
	// Births are queued and merged after the pass; children never act in
	// the step that created them.
	type birth struct {
		pos, vel r3.Vec
	}
	var births []birth

	for _, e := range p.order {
		vel := p.velMap.Get(e)
		pos := p.posMap.Get(e)
		vit := p.vitMap.Get(e)
		sen := p.senMap.Get(e)
		trail := p.trailMap.Get(e)

		systems.Decide(vel, sen, params, p.rng)
		systems.Move(pos, trail, vel.Vel, oracle)
		if systems.Lifecycle(vit, sen, params, p.rng) {
			childPos, childVel := systems.SpawnOffspring(pos.Pos, params.Offset, oracle, p.rng)
			births = append(births, birth{pos: childPos, vel: childVel})
		}
	}

	p.removeDead()

	for _, b := range births {
		p.spawnAgent(b.pos, b.vel)
		p.collector.RecordBirth()
	}

	p.tick++

	if len(p.order) == 0 {
		slog.Info("population extinct", "step", p.tick)
	}
}

// removeDead drops dead agents from the population, preserving the order of
// survivors. Removed agents are gone from all future sensing and motion;
// their entity handles go stale and cannot be re-resolved.
func (p *Population) removeDead() {
	survivors := p.order[:0]
	for _, e := range p.order {
		if p.vitMap.Get(e).Alive {
			survivors = append(survivors, e)
			continue
		}
		p.mapper.Remove(e)
		p.collector.RecordDeath()
	}
	p.order = survivors
}
