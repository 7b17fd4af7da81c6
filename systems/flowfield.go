package systems

import (
	"math"

	"github.com/pthm-cable/swirl/config"
)

// FlowParams holds the advection coefficients.
type FlowParams struct {
	SwirlSpeed      float64 // Magnitude of the rotational target velocity
	SpinRate        float64 // Swirl angle advance per tick
	Twist           float64 // Swirl angle advance per pixel of radius
	Drift           float64 // Outward speed per pixel of radius
	NoiseScale      float64
	NoiseTimeScale  float64
	NoiseAngle      float64 // Radians per unit of noise
	TurbulenceScale float64
	PointerRadius   float64
	PointerStrength float64
	Smoothing       float64
}

// DefaultFlowParams returns the stock swirl.
func DefaultFlowParams() FlowParams {
	return FlowParams{
		SwirlSpeed:      0.8,
		SpinRate:        0.01,
		Twist:           0.005,
		Drift:           8e-4,
		NoiseScale:      0.002,
		NoiseTimeScale:  5e-4,
		NoiseAngle:      2 * math.Pi * 8,
		TurbulenceScale: 0.3,
		PointerRadius:   200,
		PointerStrength: 2,
		Smoothing:       0.04,
	}
}

// FlowParamsFromConfig maps the flow section of cfg.
func FlowParamsFromConfig(cfg *config.Config) FlowParams {
	f := cfg.Flow
	return FlowParams{
		SwirlSpeed:      f.SwirlSpeed,
		SpinRate:        f.SpinRate,
		Twist:           f.Twist,
		Drift:           f.Drift,
		NoiseScale:      f.NoiseScale,
		NoiseTimeScale:  f.NoiseTimeScale,
		NoiseAngle:      cfg.Derived.NoiseRadian,
		TurbulenceScale: f.TurbulenceScale,
		PointerRadius:   f.PointerRadius,
		PointerStrength: f.PointerStrength,
		Smoothing:       f.Smoothing,
	}
}

// Advect moves one particle a single tick through the field.
//
// The desired velocity is the sum of a swirl around the viewport center with an
// outward drift, a noise-steered turbulence vector scaled by the particle's own
// coefficient, and a tangential push around the pointer. The current velocity
// eases toward it and the position follows the eased velocity.
func Advect(fs *FieldState, x, y, vx, vy, turbulence float64) (nx, ny, nvx, nvy float64) {
	if fs.Noise == nil {
		return x, y, vx, vy
	}
	f := &fs.Flow
	t := float64(fs.Tick)

	// Polar offset from the center. atan2(0, 0) is 0, which is fine here.
	dx := x - fs.Bounds.CenterX
	dy := y - fs.Bounds.CenterY
	c := math.Sqrt(dx*dx + dy*dy)
	u := math.Atan2(dy, dx)

	m := f.Drift * c
	p := u + f.SpinRate*t + f.Twist*c
	targetX := f.SwirlSpeed*math.Cos(p) + math.Cos(u)*m
	targetY := f.SwirlSpeed*math.Sin(p) + math.Sin(u)*m

	j := fs.Noise(f.NoiseScale*x, f.NoiseScale*y, f.NoiseTimeScale*t) * f.NoiseAngle
	kx := math.Cos(j) * turbulence * f.TurbulenceScale
	ky := math.Sin(j) * turbulence * f.TurbulenceScale

	px, py := PointerSwirl(f, fs.Pointer, x, y)

	nvx = vx + (targetX+kx+px-vx)*f.Smoothing
	nvy = vy + (targetY+ky+py-vy)*f.Smoothing
	return x + nvx, y + nvy, nvx, nvy
}

// PointerSwirl returns the tangential push around the pointer. It falls off
// linearly from PointerStrength at the pointer to exactly zero at PointerRadius.
func PointerSwirl(f *FlowParams, ptr Pointer, x, y float64) (float64, float64) {
	sx := ptr.X - x
	sy := ptr.Y - y
	r := math.Sqrt(sx*sx + sy*sy)
	if r >= f.PointerRadius {
		return 0, 0
	}
	angle := math.Atan2(sy, sx) + 0.5*math.Pi
	t := (f.PointerRadius - r) / f.PointerRadius * f.PointerStrength
	return math.Cos(angle) * t, math.Sin(angle) * t
}
