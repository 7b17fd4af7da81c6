package renderer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/pthm-cable/swirl/systems"
)

func TestShadeClampsChannels(t *testing.T) {
	st := &systems.Step{
		VX: 20, VY: 0, // speed factor saturates at 1
		Age: 100, TTL: 200,
		Alpha: 255,
		R:     270, G: 10, B: -40,
	}
	c := Shade(st)
	if c.R != 255 {
		t.Errorf("expected red clamped to 255, got %d", c.R)
	}
	if c.B != 0 {
		t.Errorf("expected blue clamped to 0, got %d", c.B)
	}
	if c.A != 255 {
		t.Errorf("expected alpha clamped to 255, got %d", c.A)
	}
}

func TestShadeFormula(t *testing.T) {
	// Newborn at rest: blend 0, extra 0, speed 0
	st := &systems.Step{Age: 0, TTL: 200, Alpha: 100, R: 180, G: 182, B: 190}
	got := Shade(st)
	want := color.NRGBA{R: 180, G: 182, B: 190, A: 110}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Midlife: lifeRatio 0.5, extra 8
	st = &systems.Step{Age: 100, TTL: 200, Alpha: 255, R: 200, G: 200, B: 200}
	got = Shade(st)
	// R = 200*(1+0.3*0.2)+8 = 220, G = 200*(1+0.15*0.2)+8 = 214, B = 200*(1+0.1*0.2) = 204
	want = color.NRGBA{R: 220, G: 214, B: 204, A: 255}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPlotParticle(t *testing.T) {
	f, err := NewFrame(10, 10)
	if err != nil {
		t.Fatal(err)
	}

	st := &systems.Step{X: 3.9, Y: 7.2, Age: 10, TTL: 100, Alpha: 200, R: 100, G: 100, B: 100}
	if !f.PlotParticle(st) {
		t.Fatal("expected pixel to be drawn")
	}
	if f.Image().NRGBAAt(3, 7).A == 0 {
		t.Error("expected pixel at truncated position (3,7)")
	}

	for _, pos := range [][2]float64{{-1.5, 2}, {10, 2}, {2, 10.5}, {2, -3}} {
		st := &systems.Step{X: pos[0], Y: pos[1], Age: 1, TTL: 100, Alpha: 100}
		if f.PlotParticle(st) {
			t.Errorf("expected (%v,%v) to be skipped", pos[0], pos[1])
		}
	}

	if f.PlotParticle(&systems.Step{Respawned: true}) {
		t.Error("respawned particles must not be drawn")
	}

	f.Clear()
	if f.Image().NRGBAAt(3, 7).A != 0 {
		t.Error("expected clear to reset pixels")
	}
}

func TestFrameRejectsInvalidSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-5, 5}, {1 << 20, 1 << 20}} {
		if _, err := NewFrame(sz[0], sz[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("%v: expected ErrInvalidSize, got %v", sz, err)
		}
	}
}
