package telemetry

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSavePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 2, color.NRGBA{R: 200, G: 10, B: 20, A: 255})

	path := filepath.Join(t.TempDir(), "frames", "out.png")
	if err := SavePNG(img, path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	back, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if back.Bounds().Dx() != 4 || back.Bounds().Dy() != 3 {
		t.Errorf("unexpected bounds %v", back.Bounds())
	}
	r, _, _, a := back.At(1, 2).RGBA()
	if r>>8 != 200 || a>>8 != 255 {
		t.Errorf("pixel mismatch r=%d a=%d", r>>8, a>>8)
	}
}
