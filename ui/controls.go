package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/renderer"
)

// ControlsPanel edits compositor settings with raygui widgets.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the controls at (x, y). It returns the edited settings, whether
// anything changed, and the Y below the panel.
func (c *ControlsPanel) Draw(x, y int32, p renderer.Params) (renderer.Params, bool, int32) {
	r := c.renderer
	y = r.DrawSectionHeader(x, y, "Compositor")
	changed := false

	blur := gui.CheckBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}, "Blur", p.Blur)
	bloom := gui.CheckBox(rl.Rectangle{X: float32(x + c.width/2), Y: float32(y), Width: 14, Height: 14}, "Bloom", p.Bloom)
	if blur != p.Blur || bloom != p.Bloom {
		p.Blur, p.Bloom = blur, bloom
		changed = true
	}
	y += r.Theme.LineHeight + 8

	slider := func(label string, value, lo, hi float64) float64 {
		rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
		v := gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(c.width - 50), Height: 14},
			"", fmt.Sprintf("%.2f", value),
			float32(value), float32(lo), float32(hi),
		)
		y += r.Theme.LineHeight + 6
		if float64(v) != float64(float32(value)) {
			changed = true
			return float64(v)
		}
		return value
	}

	p.Fade = slider("Fade", p.Fade, 0, 0.5)
	p.Opacity = slider("Opacity", p.Opacity, 0, 1)
	p.Brightness = slider("Brightness", p.Brightness, 0.5, 2)
	p.BloomOpacity = slider("Bloom opacity", p.BloomOpacity, 0, 1)
	p.Saturation = slider("Saturation", p.Saturation, 0, 3)

	return p, changed, y
}
