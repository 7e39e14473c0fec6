// Package telemetry collects per-step simulation statistics and writes
// structured run output: a CSV step log and a JSON final-state snapshot.
package telemetry

// Collector accumulates lifecycle events during a simulation step.
// A nil Collector is valid and records nothing.
type Collector struct {
	births int
	deaths int

	totalBirths int
	totalDeaths int
}

// NewCollector creates a step event collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth records one spawned agent.
func (c *Collector) RecordBirth() {
	if c == nil {
		return
	}
	c.births++
	c.totalBirths++
}

// RecordDeath records one removed agent.
func (c *Collector) RecordDeath() {
	if c == nil {
		return
	}
	c.deaths++
	c.totalDeaths++
}

// Flush returns the births and deaths recorded since the last Flush and
// resets the per-step counters.
func (c *Collector) Flush() (births, deaths int) {
	if c == nil {
		return 0, 0
	}
	births, deaths = c.births, c.deaths
	c.births, c.deaths = 0, 0
	return births, deaths
}

// Totals returns the cumulative birth and death counts for the run.
func (c *Collector) Totals() (births, deaths int) {
	if c == nil {
		return 0, 0
	}
	return c.totalBirths, c.totalDeaths
}
