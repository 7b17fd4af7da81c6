package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle statistics for a tick window.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	Population    int     `csv:"population"`
	Respawns      int     `csv:"respawns"`
	Expiries      int     `csv:"expiries"`
	BoundsExits   int     `csv:"bounds_exits"`
	PixelsPerTick float64 `csv:"pixels_per_tick"`

	// Speed distribution (pixels per tick, sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Age as a fraction of ttl
	LifeMean float64 `csv:"life_mean"`
	LifeP50  float64 `csv:"life_p50"`
}

// ComputeDistribution returns mean, standard deviation, median and 90th percentile.
// values is sorted in place. Empty input yields zeros.
func ComputeDistribution(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sort.Float64s(values)
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("respawns", s.Respawns),
		slog.Int("expiries", s.Expiries),
		slog.Int("bounds_exits", s.BoundsExits),
		slog.Float64("pixels_per_tick", s.PixelsPerTick),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("life_mean", s.LifeMean),
	)
}

// LogStats logs the window statistics.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
