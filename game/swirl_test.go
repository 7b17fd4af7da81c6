package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/systems"
	"github.com/pthm-cable/swirl/telemetry"
)

func testConfig(t *testing.T, count int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Particles.Count = count
	return cfg
}

func mounted(t *testing.T, count, width, height int, seed int64) *Swirl {
	t.Helper()
	s := New(testConfig(t, count), Options{Seed: seed, Headless: true})
	if err := s.Mount(width, height); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(s.Unmount)
	return s
}

// poolValues copies the whole particle buffer.
func poolValues(s *Swirl) []float32 {
	store := s.Particles()
	out := make([]float32, 0, store.Len()*store.Fields())
	var buf []float32
	for i := 0; i < store.Len(); i++ {
		buf = store.Get(i, buf)
		out = append(out, buf...)
	}
	return out
}

func TestTickBeforeMountIsIgnored(t *testing.T) {
	s := New(testConfig(t, 10), Options{Seed: 1, Headless: true})
	s.Tick()
	s.OnPointerMove(5, 5)
	if err := s.OnResize(10, 10); err != nil {
		t.Fatal(err)
	}

	if s.State() != StateUninitialized {
		t.Errorf("expected uninitialized, got %s", s.State())
	}
	if s.Ticks() != 0 {
		t.Errorf("expected 0 ticks, got %d", s.Ticks())
	}
	if s.Render() != nil {
		t.Error("expected nil surface before mount")
	}
}

func TestMountTwiceFails(t *testing.T) {
	s := mounted(t, 10, 64, 64, 1)
	err := s.Mount(64, 64)
	if !errors.Is(err, ErrNotUninitialized) {
		t.Errorf("expected ErrNotUninitialized, got %v", err)
	}
}

func TestMountRejectsBadSize(t *testing.T) {
	s := New(testConfig(t, 10), Options{Headless: true})
	if err := s.Mount(0, 600); err == nil {
		t.Error("expected error for zero width")
	}
	if s.State() != StateUninitialized {
		t.Errorf("failed mount should leave state uninitialized, got %s", s.State())
	}
}

func TestMountSpawnsWholePool(t *testing.T) {
	s := mounted(t, 50, 800, 600, 3)
	if s.Particles().Len() != 50 {
		t.Fatalf("expected 50 particles, got %d", s.Particles().Len())
	}
	var p []float32
	for i := 0; i < 50; i++ {
		p = s.Particles().Get(i, p)
		if p[systems.FieldTTL] < 150 || p[systems.FieldTTL] >= 450 {
			t.Errorf("particle %d: ttl %v out of range", i, p[systems.FieldTTL])
		}
		if p[systems.FieldAge] != 0 {
			t.Errorf("particle %d: expected age 0, got %v", i, p[systems.FieldAge])
		}
	}
}

func TestLongRunKeepsParticlesAlive(t *testing.T) {
	s := mounted(t, 100, 800, 600, 12345)

	for i := 0; i < 1000; i++ {
		s.Tick()
	}
	if s.Ticks() != 1000 {
		t.Fatalf("expected 1000 ticks, got %d", s.Ticks())
	}

	var p []float32
	for i := 0; i < s.Particles().Len(); i++ {
		p = s.Particles().Get(i, p)
		age, ttl := p[systems.FieldAge], p[systems.FieldTTL]
		if age < 0 || age >= ttl {
			t.Errorf("particle %d: age %v not in [0, %v)", i, age, ttl)
		}
		if p[systems.FieldReserved] != 0 {
			t.Errorf("particle %d: reserved field %v", i, p[systems.FieldReserved])
		}
	}
}

func TestSameSeedIsDeterministic(t *testing.T) {
	a := mounted(t, 200, 320, 240, 99)
	b := mounted(t, 200, 320, 240, 99)
	for i := 0; i < 100; i++ {
		a.OnPointerMove(float64(i), 120)
		b.OnPointerMove(float64(i), 120)
		a.Tick()
		b.Tick()
	}

	pa, pb := poolValues(a), poolValues(b)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("value %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
	ra, rb := a.Render(), b.Render()
	for i := range ra.Pix {
		if ra.Pix[i] != rb.Pix[i] {
			t.Fatalf("surface byte %d differs", i)
		}
	}
}

func TestResizeRecentersField(t *testing.T) {
	s := mounted(t, 100, 800, 600, 5)
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	before := poolValues(s)

	if err := s.OnResize(400, 300); err != nil {
		t.Fatalf("resize: %v", err)
	}

	b := s.Field().Bounds
	if b.CenterX != 200 || b.CenterY != 150 {
		t.Errorf("expected center (200, 150), got (%v, %v)", b.CenterX, b.CenterY)
	}
	w, h := s.Size()
	if w != 400 || h != 300 {
		t.Errorf("expected 400x300, got %dx%d", w, h)
	}
	img := s.Render()
	if img.Rect.Dx() != 400 || img.Rect.Dy() != 300 {
		t.Errorf("unexpected surface bounds %v", img.Rect)
	}

	// Positions are not rescaled
	after := poolValues(s)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle value %d changed on resize", i)
		}
	}

	s.Tick()
	if s.Ticks() != 11 {
		t.Errorf("expected tick 11 after resize, got %d", s.Ticks())
	}
}

func TestPointerLastWriteWins(t *testing.T) {
	s := mounted(t, 10, 100, 100, 1)
	s.OnPointerMove(10, 20)
	s.OnPointerMove(30, 40)
	if p := s.Field().Pointer; p.X != 30 || p.Y != 40 {
		t.Errorf("expected pointer (30, 40), got %+v", p)
	}
}

func TestUnmountStopsTicks(t *testing.T) {
	s := mounted(t, 10, 100, 100, 1)
	s.Tick()
	s.Unmount()
	s.Unmount()

	s.Tick()
	if s.State() != StateTornDown {
		t.Errorf("expected torn down, got %s", s.State())
	}
	if s.Ticks() != 1 {
		t.Errorf("expected tick to stay at 1, got %d", s.Ticks())
	}
}

func TestPauseSkipsTicks(t *testing.T) {
	s := mounted(t, 10, 100, 100, 1)
	s.SetPaused(true)
	s.Tick()
	if s.Ticks() != 0 {
		t.Errorf("paused swirl advanced to %d", s.Ticks())
	}
	s.SetPaused(false)
	s.Tick()
	if s.Ticks() != 1 {
		t.Errorf("expected 1 tick, got %d", s.Ticks())
	}
}

func TestTrailsAppearOnSurface(t *testing.T) {
	s := New(testConfig(t, 2000), Options{Seed: 8, Headless: true, StatsWindowSec: 1})
	if err := s.Mount(200, 150); err != nil {
		t.Fatal(err)
	}
	defer s.Unmount()

	var pixels int
	s.SetStatsCallback(func(ws telemetry.WindowStats) {
		pixels += int(ws.PixelsPerTick)
	})
	for i := 0; i < 300; i++ {
		s.Tick()
	}

	img := s.Render()
	var visible int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			visible++
		}
	}
	if visible == 0 {
		t.Error("expected particle trails on the surface")
	}
	if pixels == 0 {
		t.Error("expected stats to report drawn pixels")
	}
}

func TestStatsWindowsFlush(t *testing.T) {
	cfg := testConfig(t, 40)
	cfg.Screen.TargetFPS = 60
	s := New(cfg, Options{Seed: 2, Headless: true, StatsWindowSec: 1})
	if err := s.Mount(160, 120); err != nil {
		t.Fatal(err)
	}
	defer s.Unmount()

	var windows []telemetry.WindowStats
	s.SetStatsCallback(func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	})
	for i := 0; i < 120; i++ {
		s.Tick()
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].WindowEndTick != 60 || windows[1].WindowEndTick != 120 {
		t.Errorf("unexpected window ends %d, %d", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	for _, w := range windows {
		if w.Population != 40 {
			t.Errorf("expected population 40, got %d", w.Population)
		}
		if w.Respawns != w.Expiries+w.BoundsExits {
			t.Errorf("respawns %d != expiries %d + bounds exits %d", w.Respawns, w.Expiries, w.BoundsExits)
		}
		if w.LifeMean < 0 || w.LifeMean >= 1 {
			t.Errorf("life mean %v out of [0, 1)", w.LifeMean)
		}
	}
}

func TestOutputDirReceivesCSV(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 20)
	cfg.Screen.TargetFPS = 60
	s := New(cfg, Options{
		Seed:           4,
		Headless:       true,
		OutputDir:      dir,
		StatsWindowSec: 0.5,
	})
	if err := s.Mount(100, 100); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		s.Tick()
	}
	s.Unmount()

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "field.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header + 2 rows, got %d lines", len(lines))
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(perf), "window_end,avg_tick_us") {
		t.Errorf("unexpected perf header %q", strings.SplitN(string(perf), "\n", 2)[0])
	}
}

func TestApplySwapsParams(t *testing.T) {
	s := mounted(t, 10, 100, 100, 1)

	cfg := testConfig(t, 10)
	cfg.Flow.Smoothing = 0.5
	cfg.Compositor.Bloom = false
	s.Apply(cfg)

	if s.Field().Flow.Smoothing != 0.5 {
		t.Errorf("expected smoothing 0.5, got %v", s.Field().Flow.Smoothing)
	}
	if s.Params().Bloom {
		t.Error("expected bloom disabled")
	}
}
