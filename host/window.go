package host

import (
	"context"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
	"github.com/pthm-cable/swirl/telemetry"
	"github.com/pthm-cable/swirl/ui"
)

// RunWindow opens a resizable transparent window and animates s until the
// window closes or ctx is cancelled. s is mounted and unmounted here.
func RunWindow(ctx context.Context, s *game.Swirl, cfg *config.Config, opts Options) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowTransparent)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if err := s.Mount(w, h); err != nil {
		return fmt.Errorf("mounting swirl: %w", err)
	}
	defer s.Unmount()

	surface := newSurfaceTexture(w, h)
	defer func() { rl.UnloadTexture(surface) }()

	var pixels []color.RGBA
	hud := newHUD()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		applyUpdates(s, opts.Updates)

		// Window resize propagation
		if rl.IsWindowResized() {
			w, h = rl.GetScreenWidth(), rl.GetScreenHeight()
			if err := s.OnResize(w, h); err != nil {
				return fmt.Errorf("resizing swirl: %w", err)
			}
			rl.UnloadTexture(surface)
			surface = newSurfaceTexture(w, h)
		}

		if rl.IsKeyPressed(rl.KeySpace) {
			s.SetPaused(!s.Paused())
		}
		if rl.IsKeyPressed(rl.KeyH) {
			hud.visible = !hud.visible
		}

		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			m := rl.GetMousePosition()
			s.OnPointerMove(float64(m.X), float64(m.Y))
		}

		s.Tick()

		pixels = s.Pixels(pixels)
		rl.UpdateTexture(surface, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Blank)
		rl.DrawTexture(surface, 0, 0, rl.White)
		hud.draw(s, cfg.Screen.Title)
		rl.EndDrawing()

		if opts.done(s) {
			break
		}
	}
	return nil
}

func newSurfaceTexture(w, h int) rl.Texture2D {
	img := rl.GenImageColor(w, h, rl.Blank)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return tex
}

// hud is the toggleable overlay: status, tick timings and compositor controls.
type hud struct {
	visible  bool
	status   *ui.HUD
	perf     *ui.PerfPanel
	controls *ui.ControlsPanel
	panel    *ui.Renderer
}

const hudWidth = 260

func newHUD() *hud {
	return &hud{
		status:   ui.NewHUD(),
		perf:     ui.NewPerfPanel(hudWidth),
		controls: ui.NewControlsPanel(hudWidth),
		panel:    ui.NewRenderer(),
	}
}

func (h *hud) draw(s *game.Swirl, title string) {
	if !h.visible {
		return
	}

	w, ht := s.Size()
	h.panel.DrawPanel(5, 5, hudWidth+10, 470)

	y := h.status.Draw(10, 10, ui.HUDData{
		Title:     title,
		Particles: s.Particles().Len(),
		Tick:      s.Ticks(),
		FPS:       rl.GetFPS(),
		Paused:    s.Paused(),
		Width:     w,
		Height:    ht,
	})
	y = h.perf.Draw(10, y+6, s.Perf(), telemetry.Phases)

	if p, changed, _ := h.controls.Draw(10, y+6, s.Params()); changed {
		s.SetParams(p)
	}

	h.status.DrawControls(int32(ht), "[Space] pause  [H] hud")
}
