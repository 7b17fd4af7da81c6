package telemetry

import "testing"

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("should not flush before the window is full")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at window end")
	}

	c.RecordExpiry()
	c.RecordExpiry()
	c.RecordBoundsExit()
	c.RecordPixels(100)
	c.RecordPixels(50)

	s := c.Flush(10, 5, []float64{1, 2, 3}, []float64{0.5})
	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("unexpected window [%d, %d]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.Expiries != 2 || s.BoundsExits != 1 || s.Respawns != 3 {
		t.Errorf("unexpected counts %+v", s)
	}
	if s.PixelsPerTick != 75 {
		t.Errorf("expected 75 pixels per tick, got %v", s.PixelsPerTick)
	}
	if s.Population != 5 || s.SpeedMean != 2 || s.LifeMean != 0.5 {
		t.Errorf("unexpected samples %+v", s)
	}

	// Counters reset and the next window starts at the flush tick
	if c.ShouldFlush(19) {
		t.Error("window should restart at tick 10")
	}
	next := c.Flush(20, 5, nil, nil)
	if next.Respawns != 0 || next.PixelsPerTick != 0 || next.WindowStartTick != 10 {
		t.Errorf("expected reset counters, got %+v", next)
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	c := NewCollector(0)
	if !c.ShouldFlush(1) {
		t.Error("expected a one-tick window")
	}
}
