// Noise field preview tool - interactive visualization of the flow angle field.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// NoiseParams holds the sampled noise settings.
type NoiseParams struct {
	Scale     float32 // Noise units per field pixel
	TimeScale float32 // Noise units per tick
	Turns     float32 // Flow angle turns per noise unit
	FieldSize float32 // Field pixels covered by the preview
	Seed      int64
	Backend   string
}

func defaultParams(cfg *config.Config) NoiseParams {
	return NoiseParams{
		Scale:     float32(cfg.Flow.NoiseScale),
		TimeScale: float32(cfg.Flow.NoiseTimeScale),
		Turns:     float32(cfg.Flow.NoiseAngleTurns),
		FieldSize: float32(cfg.Screen.Width),
		Seed:      12345,
		Backend:   cfg.Noise.Backend,
	}
}

func main() {
	config.MustInit("")
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	grid := make([]float64, gridSize*gridSize)
	pixels := make([]color.RGBA, gridSize*gridSize)

	var tick float64
	animating := false
	noise := buildNoise(params)
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			tick++
			needsRegen = true
		}

		if needsRegen {
			sampleField(grid, noise, params, tick)
			updateTexture(texture, grid, pixels, params)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		minVal, maxVal, mean := gridStats(grid)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Tick: %.0f  Backend: %s", tick, params.Backend), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, lo, hi, format string, value, minV, maxV float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				lo, hi,
				value, minV, maxV,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Scale (noise units per pixel)", "0.0005", "0.01", "%.4f", params.Scale, 0.0005, 0.01); v != params.Scale {
			params.Scale = v
			needsRegen = true
		}
		if v := slider("Time scale (noise units per tick)", "0", "0.005", "%.4f", params.TimeScale, 0, 0.005); v != params.TimeScale {
			params.TimeScale = v
			needsRegen = true
		}
		if v := slider("Angle turns per noise unit", "1", "16", "%.1f", params.Turns, 1, 16); v != params.Turns {
			params.Turns = v
			needsRegen = true
		}
		if v := slider("Field size (pixels)", "200", "4000", "%.0f", params.FieldSize, 200, 4000); v != params.FieldSize {
			params.FieldSize = v
			needsRegen = true
		}
		if v := slider("Seed", "0", "99999", "%.0f", float32(params.Seed), 0, 99999); int64(v) != params.Seed {
			params.Seed = int64(v)
			noise = buildNoise(params)
			needsRegen = true
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			tick = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			noise = buildNoise(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Backend == config.NoiseSimplex, "OpenSimplex", "Simplex")) {
			if params.Backend == config.NoiseSimplex {
				params.Backend = config.NoiseOpenSimplex
			} else {
				params.Backend = config.NoiseSimplex
			}
			noise = buildNoise(params)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			noise = buildNoise(params)
			tick = 0
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			var yaml string
			for _, line := range yamlLines(params) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlLines(p NoiseParams) []string {
	return []string{
		"flow:",
		fmt.Sprintf("  noise_scale: %.4f", p.Scale),
		fmt.Sprintf("  noise_time_scale: %.5f", p.TimeScale),
		fmt.Sprintf("  noise_angle_turns: %.1f", p.Turns),
		"noise:",
		fmt.Sprintf("  backend: %s", p.Backend),
	}
}

func buildNoise(p NoiseParams) systems.Noise3 {
	n, err := systems.NewNoise(p.Backend, rand.New(rand.NewSource(p.Seed)))
	if err != nil {
		panic(err)
	}
	return n
}

// sampleField evaluates the noise over the preview area at the given tick,
// using the same coordinates particle advection does.
func sampleField(grid []float64, noise systems.Noise3, p NoiseParams, tick float64) {
	step := float64(p.FieldSize) / gridSize
	z := tick * float64(p.TimeScale)
	for y := 0; y < gridSize; y++ {
		fy := (float64(y) + 0.5) * step * float64(p.Scale)
		for x := 0; x < gridSize; x++ {
			fx := (float64(x) + 0.5) * step * float64(p.Scale)
			grid[y*gridSize+x] = noise(fx, fy, z)
		}
	}
}

func gridStats(grid []float64) (minVal, maxVal, mean float64) {
	minVal, maxVal = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, v := range grid {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
		sum += v
	}
	return minVal, maxVal, sum / float64(len(grid))
}

// updateTexture colors each sample by the flow direction it produces: hue is the
// angle, value is the noise magnitude.
func updateTexture(texture rl.Texture2D, grid []float64, pixels []color.RGBA, p NoiseParams) {
	for i, n := range grid {
		turns := n * float64(p.Turns)
		hue := (turns - math.Floor(turns)) * 360
		c := colorful.Hsv(hue, 0.7, 0.35+0.65*math.Min(1, math.Abs(n))).Clamped()
		r, g, b := c.RGB255()
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
