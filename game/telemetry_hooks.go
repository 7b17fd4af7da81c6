package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/swirl/systems"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (s *Swirl) flushTelemetry() {
	if !s.collector.ShouldFlush(s.field.Tick) {
		return
	}

	s.sampleDistributions()

	stats := s.collector.Flush(s.field.Tick, s.store.Len(), s.speeds, s.lifeRatios)
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteField(stats); err != nil {
			slog.Error("failed to write field stats", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleDistributions collects per-particle speed and age/ttl ratios.
func (s *Swirl) sampleDistributions() {
	s.speeds = s.speeds[:0]
	s.lifeRatios = s.lifeRatios[:0]
	s.store.ForEach(func(p []float32, _ int) {
		vx := float64(p[systems.FieldVX])
		vy := float64(p[systems.FieldVY])
		s.speeds = append(s.speeds, math.Hypot(vx, vy))
		if ttl := float64(p[systems.FieldTTL]); ttl > 0 {
			s.lifeRatios = append(s.lifeRatios, float64(p[systems.FieldAge])/ttl)
		}
	})
}
