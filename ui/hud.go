package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Particles int
	Tick      uint64
	FPS       int32
	Paused    bool
	Width     int
	Height    int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at (x, y) and returns the Y below it.
func (h *HUD) Draw(x, y int32, data HUDData) int32 {
	t := h.renderer.Theme
	rl.DrawText(data.Title, x, y, 20, t.ValueColor)
	y += 25

	rl.DrawText(
		fmt.Sprintf("Particles: %d | %dx%d", data.Particles, data.Width, data.Height),
		x, y, 16, t.LabelColor,
	)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %d | FPS: %d", data.Tick, data.FPS), x, y, 16, t.LabelColor)
	y += 20

	if data.Paused {
		rl.DrawText("PAUSED", x, y, 16, rl.Yellow)
		y += 20
	}
	return y
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the panel at (x, y) and returns the Y below it.
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats, phases []string) int32 {
	r := p.renderer
	y = r.DrawSectionHeader(x, y, "Tick Performance")
	y = r.DrawLabelValue(x, y, "avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "max", stats.MaxTickDuration.Round(time.Microsecond).String())
	for _, phase := range phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase]/100, p.width)
	}
	return y
}
