package telemetry

import "testing"

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector()
	c.RecordBirth()
	c.RecordBirth()
	c.RecordDeath()

	births, deaths := c.Flush()
	if births != 2 || deaths != 1 {
		t.Errorf("Flush = %d, %d; want 2, 1", births, deaths)
	}
	births, deaths = c.Flush()
	if births != 0 || deaths != 0 {
		t.Errorf("second Flush = %d, %d; want 0, 0", births, deaths)
	}
}

func TestCollectorTotalsSurviveFlush(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 3; i++ {
		c.RecordBirth()
		c.Flush()
	}
	c.RecordDeath()

	births, deaths := c.Totals()
	if births != 3 || deaths != 1 {
		t.Errorf("Totals = %d, %d; want 3, 1", births, deaths)
	}
}

func TestCollectorNilIsSafe(t *testing.T) {
	var c *Collector
	c.RecordBirth()
	c.RecordDeath()
	if b, d := c.Flush(); b != 0 || d != 0 {
		t.Errorf("nil Flush = %d, %d", b, d)
	}
	if b, d := c.Totals(); b != 0 || d != 0 {
		t.Errorf("nil Totals = %d, %d", b, d)
	}
}
