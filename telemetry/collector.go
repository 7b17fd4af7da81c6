package telemetry

// Collector accumulates particle events within fixed tick windows and produces WindowStats.
type Collector struct {
	windowTicks     uint64
	windowStartTick uint64

	// Event counters for the current window
	expiries      int
	boundsExits   int
	pixelsDrawn   int
	ticksInWindow int
}

// NewCollector creates a stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// RecordExpiry records a particle recycled because it reached its ttl.
func (c *Collector) RecordExpiry() {
	c.expiries++
}

// RecordBoundsExit records a particle recycled because it left the extended bounds.
func (c *Collector) RecordBoundsExit() {
	c.boundsExits++
}

// RecordPixels records the number of pixels rasterized in one tick.
func (c *Collector) RecordPixels(n int) {
	c.pixelsDrawn += n
	c.ticksInWindow++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the counters plus a snapshot of the pool,
// and resets the counters for the next window.
// speeds and lifeRatios are per-particle samples taken at window end; they are sorted in place.
func (c *Collector) Flush(currentTick uint64, population int, speeds, lifeRatios []float64) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Population:      population,
		Respawns:        c.expiries + c.boundsExits,
		Expiries:        c.expiries,
		BoundsExits:     c.boundsExits,
	}
	if c.ticksInWindow > 0 {
		s.PixelsPerTick = float64(c.pixelsDrawn) / float64(c.ticksInWindow)
	}
	s.SpeedMean, s.SpeedStd, s.SpeedP50, s.SpeedP90 = ComputeDistribution(speeds)
	s.LifeMean, _, s.LifeP50, _ = ComputeDistribution(lifeRatios)

	c.windowStartTick = currentTick
	c.expiries = 0
	c.boundsExits = 0
	c.pixelsDrawn = 0
	c.ticksInWindow = 0
	return s
}
