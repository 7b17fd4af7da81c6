package systems

import (
	"math"

	"github.com/pthm-cable/swirl/config"
)

// Spawn edges, in the order they are drawn.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Palette is the two-tone spawn palette. Channels are 0-255.
type Palette struct {
	Primary [3]float64
	Bright  [3]float64
	Jitter  [3]float64
}

// Lifecycle spawns and retires particles.
type Lifecycle struct {
	Palette         Palette
	TTLBase         float64
	TTLRange        float64
	TurbulenceMin   float64
	TurbulenceRange float64
	SpawnMargin     float64
	BoundsMargin    float64
}

// DefaultLifecycle returns the silver palette with stock spawn settings.
func DefaultLifecycle() Lifecycle {
	return Lifecycle{
		Palette: Palette{
			Primary: [3]float64{180, 182, 190},
			Bright:  [3]float64{210, 212, 220},
			Jitter:  [3]float64{20, 18, 22},
		},
		TTLBase:         150,
		TTLRange:        300,
		TurbulenceMin:   3,
		TurbulenceRange: 17,
		SpawnMargin:     50,
		BoundsMargin:    100,
	}
}

// LifecycleFromConfig maps the particles and palette sections of cfg.
func LifecycleFromConfig(cfg *config.Config) Lifecycle {
	p := cfg.Particles
	return Lifecycle{
		Palette: Palette{
			Primary: cfg.Derived.Primary,
			Bright:  cfg.Derived.Bright,
			Jitter:  cfg.Palette.Jitter,
		},
		TTLBase:         p.TTLBase,
		TTLRange:        p.TTLRange,
		TurbulenceMin:   p.TurbulenceMin,
		TurbulenceRange: p.TurbulenceRange,
		SpawnMargin:     p.SpawnMargin,
		BoundsMargin:    p.BoundsMargin,
	}
}

// Spawn writes a fresh particle into dst, just outside a random viewport edge.
// Colors are floored but deliberately not clamped; the rasterizer clamps.
func (l *Lifecycle) Spawn(fs *FieldState, dst []float32) []float32 {
	if cap(dst) < NumFields {
		dst = make([]float32, NumFields)
	}
	dst = dst[:NumFields]

	b := fs.Bounds
	rnd := fs.Rand

	var x, y float64
	switch int(rnd() * 4) {
	case EdgeTop:
		x = rnd() * b.Width
		y = -l.SpawnMargin
	case EdgeRight:
		x = b.Width + l.SpawnMargin
		y = rnd() * b.Height
	case EdgeBottom:
		x = rnd() * b.Width
		y = b.Height + l.SpawnMargin
	default:
		x = -l.SpawnMargin
		y = rnd() * b.Height
	}

	ttl := l.TTLBase + rnd()*l.TTLRange
	turbulence := rnd()*l.TurbulenceRange + l.TurbulenceMin

	dx := x - b.CenterX
	dy := y - b.CenterY
	dist := math.Min(math.Sqrt(dx*dx+dy*dy)/(0.5*math.Hypot(b.Width, b.Height)), 1)

	pal := &l.Palette
	var rgb [3]float64
	for ch := range rgb {
		rgb[ch] = math.Floor(pal.Primary[ch] + (pal.Bright[ch]-pal.Primary[ch])*dist + rnd()*pal.Jitter[ch])
	}

	dst[FieldX] = float32(x)
	dst[FieldY] = float32(y)
	dst[FieldVX] = 0
	dst[FieldVY] = 0
	dst[FieldAge] = 0
	dst[FieldReserved] = 0
	dst[FieldTTL] = float32(ttl)
	dst[FieldTurbulence] = float32(turbulence)
	dst[FieldR] = float32(rgb[0])
	dst[FieldG] = float32(rgb[1])
	dst[FieldB] = float32(rgb[2])
	return dst
}

// TriangleWave ramps linearly from 0 at age 0 to 1 at ttl/2 and back to 0 at ttl.
func TriangleWave(age, ttl float64) float64 {
	half := ttl * 0.5
	return math.Abs(math.Mod(age+half, ttl)-half) / half
}

// OutOfBounds reports whether (x, y) has left the extended viewport.
func (l *Lifecycle) OutOfBounds(fs *FieldState, x, y float64) bool {
	m := l.BoundsMargin
	b := fs.Bounds
	return y < -m || y > b.Height+m || x < -m || x > b.Width+m
}

// Step is the outcome of one particle update, as seen by the rasterizer.
type Step struct {
	X, Y      float64 // Position before advection; the pixel is drawn here
	VX, VY    float64 // Velocity after advection
	Age, TTL  float64
	Alpha     float64 // 0-255 lifecycle opacity
	R, G, B   float64 // Unclamped spawn color
	Respawned bool    // Slot was recycled; nothing to draw
	Expired   bool    // Respawn cause was age, not bounds
}

// Update ages the particle held in p by one tick and either recycles the slot in
// place or advects it. p is modified in place.
func (l *Lifecycle) Update(fs *FieldState, p []float32) Step {
	x := float64(p[FieldX])
	y := float64(p[FieldY])
	age := float64(p[FieldAge]) + 1
	ttl := float64(p[FieldTTL])

	if age >= ttl || l.OutOfBounds(fs, x, y) {
		st := Step{Respawned: true, Expired: age >= ttl}
		l.Spawn(fs, p)
		return st
	}

	turbulence := float64(p[FieldTurbulence])
	nx, ny, nvx, nvy := Advect(fs, x, y, float64(p[FieldVX]), float64(p[FieldVY]), turbulence)

	p[FieldX] = float32(nx)
	p[FieldY] = float32(ny)
	p[FieldVX] = float32(nvx)
	p[FieldVY] = float32(nvy)
	p[FieldAge] = float32(age)
	p[FieldReserved] = 0

	return Step{
		X:     x,
		Y:     y,
		VX:    nvx,
		VY:    nvy,
		Age:   age,
		TTL:   ttl,
		Alpha: 255 * TriangleWave(age, ttl),
		R:     float64(p[FieldR]),
		G:     float64(p[FieldG]),
		B:     float64(p[FieldB]),
	}
}
