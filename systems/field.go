package systems

import "math/rand"

// Bounds describes the viewport in pixels.
type Bounds struct {
	Width, Height    float64
	CenterX, CenterY float64
}

// NewBounds returns bounds centered on the viewport.
func NewBounds(width, height float64) Bounds {
	return Bounds{
		Width:   width,
		Height:  height,
		CenterX: width * 0.5,
		CenterY: height * 0.5,
	}
}

// Pointer is the last known pointer position relative to the surface.
type Pointer struct {
	X, Y float64
}

// FieldState is the mutable state shared by every particle update within a tick.
// It lives for one mounted animation: Tick only grows, Noise is built once.
type FieldState struct {
	Tick    uint64
	Bounds  Bounds
	Pointer Pointer
	Noise   Noise3
	Rand    func() float64
	Flow    FlowParams
}

// NewFieldState builds a field state whose noise and random source are drawn from rng.
func NewFieldState(width, height float64, noise Noise3, rng *rand.Rand, flow FlowParams) *FieldState {
	return &FieldState{
		Bounds: NewBounds(width, height),
		Noise:  noise,
		Rand:   rng.Float64,
		Flow:   flow,
	}
}

// Resize recomputes the bounds. Particle positions are left alone.
func (fs *FieldState) Resize(width, height float64) {
	fs.Bounds = NewBounds(width, height)
}
