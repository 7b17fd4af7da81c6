package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/swirl/config"
)

// BlendMode selects how a layer is combined with the surface.
type BlendMode uint8

const (
	// BlendSourceOver paints the layer over the surface.
	BlendSourceOver BlendMode = iota
	// BlendLighter adds the layer to the surface, saturating at full intensity.
	BlendLighter
)

// flushAlpha is the surface alpha below which a pixel is treated as empty.
const flushAlpha = 1.0 / 1024

// Params holds the compositing pass settings.
type Params struct {
	Fade           float64
	Blur           bool
	BlurSigma      float64
	Brightness     float64
	Opacity        float64
	Bloom          bool
	BloomBlurSigma float64
	Saturation     float64
	BloomOpacity   float64
}

// DefaultParams returns the stock trail and bloom settings.
func DefaultParams() Params {
	return Params{
		Fade:           0.16,
		Blur:           true,
		BlurSigma:      0.5,
		Brightness:     1.15,
		Opacity:        0.9,
		Bloom:          true,
		BloomBlurSigma: 0.25,
		Saturation:     1.4,
		BloomOpacity:   0.45,
	}
}

// ParamsFromConfig maps the compositor section.
func ParamsFromConfig(c config.CompositorConfig) Params {
	return Params{
		Fade:           c.Fade,
		Blur:           c.Blur,
		BlurSigma:      c.BlurSigma,
		Brightness:     c.Brightness,
		Opacity:        c.Opacity,
		Bloom:          c.Bloom,
		BloomBlurSigma: c.BloomBlurSigma,
		Saturation:     c.Saturation,
		BloomOpacity:   c.BloomOpacity,
	}
}

// kernel is a normalized 3-tap gaussian.
type kernel struct {
	side, center float32
}

// gaussian3 samples a gaussian of the given sigma at offsets -1, 0, 1.
// A kernel whose side weight is negligible is reported as inactive.
func gaussian3(sigma float64) (kernel, bool) {
	if sigma <= 0 {
		return kernel{center: 1}, false
	}
	w := math.Exp(-1 / (2 * sigma * sigma))
	sum := 1 + 2*w
	k := kernel{side: float32(w / sum), center: float32(1 / sum)}
	return k, k.side >= 1.0/512
}

// Compositor owns the visible surface and blends each new frame onto it.
// The surface holds premultiplied RGBA in [0, 1] so trails fade smoothly.
type Compositor struct {
	width, height int
	surface       []float32
	layer         []float32
	scratch       []float32

	params      Params
	blurK       kernel
	blurOn      bool
	bloomK      kernel
	bloomBlurOn bool
}

// NewCompositor allocates a transparent surface.
func NewCompositor(width, height int, p Params) (*Compositor, error) {
	c := &Compositor{}
	c.SetParams(p)
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize reallocates the surface. Like a canvas resize, contents are cleared.
func (c *Compositor) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	n := width * height * 4
	c.width, c.height = width, height
	c.surface = make([]float32, n)
	c.layer = make([]float32, n)
	c.scratch = make([]float32, n)
	return nil
}

// SetParams replaces the pass settings.
func (c *Compositor) SetParams(p Params) {
	c.params = p
	c.blurK, c.blurOn = gaussian3(p.BlurSigma)
	c.bloomK, c.bloomBlurOn = gaussian3(p.BloomBlurSigma)
}

// Params returns the current pass settings.
func (c *Compositor) Params() Params { return c.params }

// Width returns the surface width in pixels.
func (c *Compositor) Width() int { return c.width }

// Height returns the surface height in pixels.
func (c *Compositor) Height() int { return c.height }

// Composite blends frame onto the surface: fade the previous content, paint the
// softened and brightened frame, then add a saturated copy for bloom.
func (c *Compositor) Composite(f *Frame) {
	p := &c.params

	c.fade(p.Fade)

	c.load(f)
	if p.Blur && c.blurOn {
		c.blur(c.blurK)
	}
	c.brighten(p.Brightness)
	c.draw(BlendSourceOver, p.Opacity)

	if p.Bloom {
		c.load(f)
		c.saturate(p.Saturation)
		if c.bloomBlurOn {
			c.blur(c.bloomK)
		}
		c.draw(BlendLighter, p.BloomOpacity)
	}
}

// Clear makes the whole surface transparent.
func (c *Compositor) Clear() {
	clear(c.surface)
}

// fade erases the surface with a uniform destination-out layer of the given alpha.
func (c *Compositor) fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	keep := float32(1 - alpha)
	s := c.surface
	for i := 0; i < len(s); i += 4 {
		a := s[i+3]
		if a == 0 {
			continue
		}
		a *= keep
		if a < flushAlpha {
			s[i], s[i+1], s[i+2], s[i+3] = 0, 0, 0, 0
			continue
		}
		s[i] *= keep
		s[i+1] *= keep
		s[i+2] *= keep
		s[i+3] = a
	}
}

// load converts the frame into the premultiplied layer buffer.
func (c *Compositor) load(f *Frame) {
	img := f.Image()
	pix := img.Pix
	l := c.layer
	w := min(c.width, f.Width())
	h := min(c.height, f.Height())
	clear(l)
	for y := 0; y < h; y++ {
		src := pix[y*img.Stride:]
		dst := l[y*c.width*4:]
		for x := 0; x < w; x++ {
			si := x * 4
			if src[si+3] == 0 {
				continue
			}
			a := float32(src[si+3]) / 255
			dst[si] = float32(src[si]) / 255 * a
			dst[si+1] = float32(src[si+1]) / 255 * a
			dst[si+2] = float32(src[si+2]) / 255 * a
			dst[si+3] = a
		}
	}
}

// blur runs the kernel horizontally then vertically over the layer.
// Pixels beyond the edge count as transparent.
func (c *Compositor) blur(k kernel) {
	w, h := c.width, c.height
	stride := w * 4
	src, tmp := c.layer, c.scratch

	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			i := row + x*4
			for ch := 0; ch < 4; ch++ {
				v := src[i+ch] * k.center
				if x > 0 {
					v += src[i+ch-4] * k.side
				}
				if x < w-1 {
					v += src[i+ch+4] * k.side
				}
				tmp[i+ch] = v
			}
		}
	}

	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			i := row + x*4
			for ch := 0; ch < 4; ch++ {
				v := tmp[i+ch] * k.center
				if y > 0 {
					v += tmp[i+ch-stride] * k.side
				}
				if y < h-1 {
					v += tmp[i+ch+stride] * k.side
				}
				src[i+ch] = v
			}
		}
	}
}

// brighten scales color channels, keeping them valid premultiplied values.
func (c *Compositor) brighten(amount float64) {
	if amount == 1 {
		return
	}
	m := float32(amount)
	l := c.layer
	for i := 0; i < len(l); i += 4 {
		a := l[i+3]
		if a == 0 {
			continue
		}
		l[i] = min(l[i]*m, a)
		l[i+1] = min(l[i+1]*m, a)
		l[i+2] = min(l[i+2]*m, a)
	}
}

// saturate boosts HSV saturation of every visible layer pixel.
func (c *Compositor) saturate(amount float64) {
	if amount == 1 {
		return
	}
	l := c.layer
	for i := 0; i < len(l); i += 4 {
		a := l[i+3]
		if a == 0 {
			continue
		}
		col := colorful.Color{
			R: float64(l[i] / a),
			G: float64(l[i+1] / a),
			B: float64(l[i+2] / a),
		}
		h, s, v := col.Hsv()
		if s != 0 {
			s = math.Min(1, s*amount)
		}
		col = colorful.Hsv(h, s, v).Clamped()
		l[i] = float32(col.R) * a
		l[i+1] = float32(col.G) * a
		l[i+2] = float32(col.B) * a
	}
}

// draw blends the layer onto the surface at the given opacity.
func (c *Compositor) draw(mode BlendMode, opacity float64) {
	o := float32(opacity)
	s, l := c.surface, c.layer
	for i := 0; i < len(s); i += 4 {
		la := l[i+3] * o
		if la == 0 {
			continue
		}
		switch mode {
		case BlendSourceOver:
			keep := 1 - la
			s[i] = l[i]*o + s[i]*keep
			s[i+1] = l[i+1]*o + s[i+1]*keep
			s[i+2] = l[i+2]*o + s[i+2]*keep
			s[i+3] = la + s[i+3]*keep
		case BlendLighter:
			s[i] = min(1, s[i]+l[i]*o)
			s[i+1] = min(1, s[i+1]+l[i+1]*o)
			s[i+2] = min(1, s[i+2]+l[i+2]*o)
			s[i+3] = min(1, s[i+3]+la)
		}
	}
}

// NRGBAAt returns the straight-alpha color of one surface pixel.
func (c *Compositor) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return color.NRGBA{}
	}
	i := (y*c.width + x) * 4
	return unpremultiply(c.surface[i : i+4 : i+4])
}

// OverBlack returns the surface pixel composited over an opaque black backdrop.
func (c *Compositor) OverBlack(x, y int) (r, g, b uint8) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, 0, 0
	}
	i := (y*c.width + x) * 4
	s := c.surface
	return unit8(s[i]), unit8(s[i+1]), unit8(s[i+2])
}

// Snapshot copies the surface into dst, reallocating it when the size differs.
func (c *Compositor) Snapshot(dst *image.NRGBA) *image.NRGBA {
	if dst == nil || dst.Rect.Dx() != c.width || dst.Rect.Dy() != c.height {
		dst = image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	}
	for y := 0; y < c.height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < c.width; x++ {
			i := (y*c.width + x) * 4
			px := unpremultiply(c.surface[i : i+4 : i+4])
			o := x * 4
			row[o], row[o+1], row[o+2], row[o+3] = px.R, px.G, px.B, px.A
		}
	}
	return dst
}

// Pixels writes the surface as straight-alpha colors, the layout texture uploads expect.
func (c *Compositor) Pixels(dst []color.RGBA) []color.RGBA {
	n := c.width * c.height
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for p := 0; p < n; p++ {
		px := unpremultiply(c.surface[p*4 : p*4+4 : p*4+4])
		dst[p] = color.RGBA{R: px.R, G: px.G, B: px.B, A: px.A}
	}
	return dst
}

func unpremultiply(px []float32) color.NRGBA {
	a := px[3]
	if a <= 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: unit8(px[0] / a),
		G: unit8(px[1] / a),
		B: unit8(px[2] / a),
		A: unit8(a),
	}
}

// unit8 maps [0, 1] to [0, 255] with rounding and clamping.
func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
