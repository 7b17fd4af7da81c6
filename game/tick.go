package game

import "github.com/pthm-cable/swirl/telemetry"

// Tick advances the animation by one frame: every particle is aged, recycled or
// advected and drawn into a fresh frame, which is then composited onto the
// visible surface. It does nothing unless the Swirl is running and unpaused.
func (s *Swirl) Tick() {
	if s.state != StateRunning || s.paused {
		return
	}

	s.perfCollector.StartTick()
	s.field.Tick++

	s.perfCollector.StartPhase(telemetry.PhaseClear)
	s.frame.Clear()

	s.perfCollector.StartPhase(telemetry.PhaseParticles)
	s.drawn = 0
	s.store.ForEach(s.step)
	s.collector.RecordPixels(s.drawn)

	s.perfCollector.StartPhase(telemetry.PhaseComposite)
	s.compositor.Composite(s.frame)
	s.dirty = true

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick()
	if !s.opts.Headless {
		s.perfCollector.RecordFrame()
	}
}

// stepParticle updates one slot and rasterizes it. The pixel is plotted at the
// position the particle held before this tick's advection.
func (s *Swirl) stepParticle(p []float32, index int) {
	st := s.lifecycle.Update(s.field, p)
	s.store.Set(index, p)

	switch {
	case st.Respawned && st.Expired:
		s.collector.RecordExpiry()
	case st.Respawned:
		s.collector.RecordBoundsExit()
	default:
		if s.frame.PlotParticle(&st) {
			s.drawn++
		}
	}
}
