package systems

import (
	"math"
	"testing"
)

func TestAdvectAtCenterStaysFinite(t *testing.T) {
	fs := newTestField(800, 600, 1)
	fs.Pointer = Pointer{X: 400, Y: 300}

	x, y := fs.Bounds.CenterX, fs.Bounds.CenterY
	vx, vy := 0.0, 0.0
	for i := 0; i < 1000; i++ {
		fs.Tick++
		// Pin the particle to the exact center each step
		_, _, vx, vy = Advect(fs, x, y, vx, vy, 20)
		if math.IsNaN(vx) || math.IsNaN(vy) || math.IsInf(vx, 0) || math.IsInf(vy, 0) {
			t.Fatalf("tick %d: non-finite velocity (%v,%v)", fs.Tick, vx, vy)
		}
		if math.Hypot(vx, vy) > 20 {
			t.Fatalf("tick %d: unbounded velocity (%v,%v)", fs.Tick, vx, vy)
		}
	}
}

func TestAdvectSmoothsTowardTarget(t *testing.T) {
	fs := newTestField(800, 600, 2)
	fs.Flow.TurbulenceScale = 0
	fs.Pointer = Pointer{X: -1000, Y: -1000}

	// At angle 0 and tick 0, radius 100: target = (0.8cos(0.5)+0.08, 0.8sin(0.5))
	x, y := 500.0, 300.0
	nx, ny, vx, vy := Advect(fs, x, y, 0, 0, 10)

	c := 100.0
	p := 0.005 * c
	wantVX := 0.04 * (0.8*math.Cos(p) + 0.0008*c)
	wantVY := 0.04 * (0.8 * math.Sin(p))
	if math.Abs(vx-wantVX) > 1e-12 || math.Abs(vy-wantVY) > 1e-12 {
		t.Errorf("expected velocity (%v,%v), got (%v,%v)", wantVX, wantVY, vx, vy)
	}
	if nx != x+vx || ny != y+vy {
		t.Errorf("position must advance by the new velocity")
	}
}

func TestPointerSwirlIsTangential(t *testing.T) {
	f := DefaultFlowParams()
	ptr := Pointer{X: 300, Y: 300}

	cases := []struct {
		x, y     float64
		strength float64
	}{
		{300, 300, 2},   // on the pointer
		{400, 300, 1},   // halfway
		{300, 150, 0.5}, // three quarters out
		{300, 500, 0},   // boundary
		{600, 600, 0},   // far away
	}
	for _, tc := range cases {
		px, py := PointerSwirl(&f, ptr, tc.x, tc.y)
		mag := math.Hypot(px, py)
		if math.Abs(mag-tc.strength) > 1e-9 {
			t.Errorf("(%v,%v): expected strength %v, got %v", tc.x, tc.y, tc.strength, mag)
		}
		// Push is perpendicular to the particle-pointer line
		sx, sy := ptr.X-tc.x, ptr.Y-tc.y
		if dot := px*sx + py*sy; math.Abs(dot) > 1e-9 {
			t.Errorf("(%v,%v): push not tangential, dot=%v", tc.x, tc.y, dot)
		}
	}
}

func TestAdvectWithoutNoiseIsIdentity(t *testing.T) {
	fs := &FieldState{Bounds: NewBounds(100, 100), Flow: DefaultFlowParams()}
	x, y, vx, vy := Advect(fs, 1, 2, 3, 4, 5)
	if x != 1 || y != 2 || vx != 3 || vy != 4 {
		t.Errorf("expected inputs unchanged, got %v %v %v %v", x, y, vx, vy)
	}
}
