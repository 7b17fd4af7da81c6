// Package renderer provides the CPU rasterizer and compositor.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/pthm-cable/swirl/systems"
)

// ErrInvalidSize is returned when a buffer cannot be allocated for the requested size.
var ErrInvalidSize = errors.New("renderer: invalid surface size")

// maxPixels caps a single surface allocation (16384×16384).
const maxPixels = 1 << 28

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > maxPixels/height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// Frame is the off-surface pixel buffer particles are rasterized into.
// Pixels are straight (non-premultiplied) RGBA.
type Frame struct {
	img *image.NRGBA
}

// NewFrame allocates a transparent frame.
func NewFrame(width, height int) (*Frame, error) {
	f := &Frame{}
	if err := f.Resize(width, height); err != nil {
		return nil, err
	}
	return f, nil
}

// Resize reallocates the frame. Contents are discarded.
func (f *Frame) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	f.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// Image exposes the underlying buffer.
func (f *Frame) Image() *image.NRGBA { return f.img }

// Clear resets every pixel to fully transparent.
func (f *Frame) Clear() {
	clear(f.img.Pix)
}

// Set overwrites one pixel. Coordinates outside the frame are ignored.
func (f *Frame) Set(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= f.Width() || y >= f.Height() {
		return
	}
	i := f.img.PixOffset(x, y)
	px := f.img.Pix[i : i+4 : i+4]
	px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
}

// PlotParticle draws the particle described by st and reports whether a pixel
// was written. The pixel sits at the truncated pre-advection position.
func (f *Frame) PlotParticle(st *systems.Step) bool {
	if st.Respawned {
		return false
	}
	ix := int(st.X)
	iy := int(st.Y)
	if ix < 0 || ix >= f.Width() || iy < 0 || iy >= f.Height() {
		return false
	}
	f.Set(ix, iy, Shade(st))
	return true
}

// Shade computes the pixel color of a particle. Brighter and warmer as it ages
// and speeds up; opacity follows the lifecycle triangle wave.
func Shade(st *systems.Step) color.NRGBA {
	lifeRatio := st.Age / st.TTL
	speed := math.Min(0.08*math.Hypot(st.VX, st.VY), 1)
	blend := 0.4*lifeRatio + 0.6*speed
	extra := 8 * math.Sin(lifeRatio*math.Pi)

	return color.NRGBA{
		R: clampByte(math.Floor(st.R*(1+0.3*blend) + extra + 18*speed)),
		G: clampByte(math.Floor(st.G*(1+0.15*blend) + extra + 6*speed)),
		B: clampByte(math.Floor(st.B*(1+0.1*blend) + 3*speed)),
		A: clampByte(math.Floor(st.Alpha * 1.1)),
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
