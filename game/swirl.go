// Package game drives the particle swirl: it owns the particle pool, the field
// state and the render surfaces, and advances them one tick at a time.
package game

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/renderer"
	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/telemetry"
)

// ErrNotUninitialized is returned by Mount on a Swirl that was already mounted.
var ErrNotUninitialized = errors.New("game: swirl already mounted")

// Swirl is one mounted animation. It is not safe for concurrent use; hosts call
// every method from a single goroutine.
type Swirl struct {
	cfg   *config.Config
	opts  Options
	state State

	rng       *rand.Rand
	field     *systems.FieldState
	lifecycle systems.Lifecycle
	store     *systems.ParticleStore

	frame      *renderer.Frame
	compositor *renderer.Compositor
	surface    *image.NRGBA
	dirty      bool // surface snapshot is stale

	paused bool

	// Per-tick particle pass
	step  func(values []float32, index int)
	drawn int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	speeds        []float64
	lifeRatios    []float64
}

// New creates an unmounted Swirl. Nothing is allocated until Mount.
func New(cfg *config.Config, opts Options) *Swirl {
	return &Swirl{cfg: cfg, opts: opts}
}

// Mount allocates the pool and surfaces for a width×height viewport, seeds the
// noise field and spawns every particle.
func (s *Swirl) Mount(width, height int) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("%w (state %s)", ErrNotUninitialized, s.state)
	}

	frame, err := renderer.NewFrame(width, height)
	if err != nil {
		return fmt.Errorf("allocating frame: %w", err)
	}
	comp, err := renderer.NewCompositor(width, height, renderer.ParamsFromConfig(s.cfg.Compositor))
	if err != nil {
		return fmt.Errorf("allocating surface: %w", err)
	}

	s.rng = rand.New(rand.NewSource(s.opts.Seed))
	noise, err := systems.NewNoise(s.cfg.Noise.Backend, s.rng)
	if err != nil {
		return err
	}

	om, err := telemetry.NewOutputManager(s.opts.OutputDir)
	if err != nil {
		return err
	}
	if err := om.WriteConfig(s.cfg); err != nil {
		om.Close()
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	s.frame = frame
	s.compositor = comp
	s.field = systems.NewFieldState(float64(width), float64(height), noise, s.rng, systems.FlowParamsFromConfig(s.cfg))
	s.lifecycle = systems.LifecycleFromConfig(s.cfg)
	s.outputManager = om

	s.store = systems.NewParticleStore(s.cfg.Particles.Count, systems.NumFields)
	var spawn []float32
	s.store.Map(func(int) []float32 {
		spawn = s.lifecycle.Spawn(s.field, spawn)
		return spawn
	})
	s.step = s.stepParticle

	s.collector = telemetry.NewCollector(s.statsTicks())
	s.perfCollector = telemetry.NewPerfCollector(s.cfg.Telemetry.PerfCollectorWindow)
	s.dirty = true
	s.state = StateRunning

	slog.Info("swirl mounted",
		"width", width,
		"height", height,
		"particles", s.store.Len(),
		"noise", s.cfg.Noise.Backend,
		"seed", s.opts.Seed,
		"headless", s.opts.Headless,
	)
	return nil
}

// statsTicks is the stats window length in ticks.
func (s *Swirl) statsTicks() int {
	if s.opts.StatsWindowSec > 0 {
		return max(1, int(s.opts.StatsWindowSec*float64(s.cfg.Screen.TargetFPS)))
	}
	return s.cfg.Derived.StatsTicks
}

// OnResize recomputes the field bounds and reallocates both surfaces.
// Particles keep their positions; those now far outside are recycled naturally.
func (s *Swirl) OnResize(width, height int) error {
	if s.state != StateRunning {
		return nil
	}
	if width == s.frame.Width() && height == s.frame.Height() {
		return nil
	}
	if err := s.frame.Resize(width, height); err != nil {
		return err
	}
	if err := s.compositor.Resize(width, height); err != nil {
		return err
	}
	s.field.Resize(float64(width), float64(height))
	s.dirty = true
	slog.Debug("swirl resized", "width", width, "height", height)
	return nil
}

// OnPointerMove records the pointer position in surface pixels. The last call
// before a tick wins.
func (s *Swirl) OnPointerMove(x, y float64) {
	if s.state != StateRunning {
		return
	}
	s.field.Pointer = systems.Pointer{X: x, Y: y}
}

// Unmount stops the animation and releases output files. Later calls are no-ops.
func (s *Swirl) Unmount() {
	if s.state == StateTornDown {
		return
	}
	wasRunning := s.state == StateRunning
	s.state = StateTornDown
	if !wasRunning {
		return
	}

	if err := s.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("swirl unmounted", "tick", s.Ticks())
}

// Apply swaps in a reloaded config. Palette, flow and compositor settings take
// effect on the next tick; pool size and noise backend need a remount.
func (s *Swirl) Apply(cfg *config.Config) {
	old := s.cfg
	s.cfg = cfg
	if s.state != StateRunning {
		return
	}
	s.lifecycle = systems.LifecycleFromConfig(cfg)
	s.field.Flow = systems.FlowParamsFromConfig(cfg)
	s.compositor.SetParams(renderer.ParamsFromConfig(cfg.Compositor))

	if cfg.Particles.Count != old.Particles.Count || cfg.Noise.Backend != old.Noise.Backend {
		slog.Warn("particle count and noise backend changes apply on next start",
			"count", cfg.Particles.Count,
			"noise", cfg.Noise.Backend,
		)
	}
	slog.Info("config applied")
}

// Render returns the visible surface as straight-alpha pixels. The image is
// reused between calls and is only valid until the next Tick or OnResize.
func (s *Swirl) Render() *image.NRGBA {
	if s.compositor == nil {
		return nil
	}
	if s.dirty {
		s.surface = s.compositor.Snapshot(s.surface)
		s.dirty = false
	}
	return s.surface
}

// Pixels writes the visible surface into dst in row-major order.
func (s *Swirl) Pixels(dst []color.RGBA) []color.RGBA {
	if s.compositor == nil {
		return dst[:0]
	}
	return s.compositor.Pixels(dst)
}

// Compositor exposes the visible surface for hosts that sample it directly.
func (s *Swirl) Compositor() *renderer.Compositor { return s.compositor }

// Params returns the active compositor settings.
func (s *Swirl) Params() renderer.Params {
	if s.compositor == nil {
		return renderer.ParamsFromConfig(s.cfg.Compositor)
	}
	return s.compositor.Params()
}

// SetParams replaces the compositor settings, e.g. from a HUD.
func (s *Swirl) SetParams(p renderer.Params) {
	if s.compositor != nil {
		s.compositor.SetParams(p)
	}
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Swirl) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// State returns the lifecycle state.
func (s *Swirl) State() State { return s.state }

// Ticks returns the number of ticks advanced since Mount.
func (s *Swirl) Ticks() uint64 {
	if s.field == nil {
		return 0
	}
	return s.field.Tick
}

// Paused reports whether ticks are currently skipped.
func (s *Swirl) Paused() bool { return s.paused }

// SetPaused pauses or resumes the animation.
func (s *Swirl) SetPaused(p bool) { s.paused = p }

// Size returns the viewport dimensions.
func (s *Swirl) Size() (width, height int) {
	if s.frame == nil {
		return 0, 0
	}
	return s.frame.Width(), s.frame.Height()
}

// Particles returns the pool. Callers must not retain slots across ticks.
func (s *Swirl) Particles() *systems.ParticleStore { return s.store }

// Field returns the shared field state.
func (s *Swirl) Field() *systems.FieldState { return s.field }

// Perf returns current tick timing statistics.
func (s *Swirl) Perf() telemetry.PerfStats {
	if s.perfCollector == nil {
		return telemetry.PerfStats{}
	}
	return s.perfCollector.Stats()
}
