package host

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
	"github.com/pthm-cable/swirl/renderer"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func newMountedSwirl(t *testing.T, w, h int) *game.Swirl {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Particles.Count = 20
	s := game.New(cfg, game.Options{Seed: 1, Headless: true})
	if err := s.Mount(w, h); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Unmount)
	return s
}

func TestDrawHalfBlocks(t *testing.T) {
	screen := newSimScreen(t, 4, 2)

	c, err := renderer.NewCompositor(4, 4, renderer.Params{Opacity: 1, Brightness: 1})
	if err != nil {
		t.Fatal(err)
	}
	f, err := renderer.NewFrame(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Upper pixel of cell (1, 1) and lower pixel of cell (2, 0)
	f.Image().Pix[f.Image().PixOffset(1, 2)+0] = 255
	f.Image().Pix[f.Image().PixOffset(1, 2)+3] = 255
	f.Image().Pix[f.Image().PixOffset(2, 1)+2] = 255
	f.Image().Pix[f.Image().PixOffset(2, 1)+3] = 255
	c.Composite(f)

	drawHalfBlocks(screen, c)

	mainc, _, style, _ := screen.GetContent(1, 1)
	if mainc != halfBlock {
		t.Errorf("expected half block, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if r, g, b := fg.RGB(); r != 255 || g != 0 || b != 0 {
		t.Errorf("expected red foreground, got %d,%d,%d", r, g, b)
	}
	if r, g, b := bg.RGB(); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black background, got %d,%d,%d", r, g, b)
	}

	_, _, style, _ = screen.GetContent(2, 0)
	fg, bg, _ = style.Decompose()
	if r, g, b := fg.RGB(); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black foreground, got %d,%d,%d", r, g, b)
	}
	if _, _, b := bg.RGB(); b != 255 {
		t.Errorf("expected blue background, got b=%d", b)
	}
}

func TestTerminalMouseMovesPointer(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	s := newMountedSwirl(t, 40, 40)

	keep, err := handleTerminalEvent(s, screen, tcell.NewEventMouse(7, 3, tcell.ButtonNone, tcell.ModNone))
	if err != nil || !keep {
		t.Fatalf("unexpected result keep=%v err=%v", keep, err)
	}
	if p := s.Field().Pointer; p.X != 7 || p.Y != 7 {
		t.Errorf("expected pointer (7, 7), got %+v", p)
	}
}

func TestTerminalResizeDoublesRows(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	s := newMountedSwirl(t, 40, 40)

	if _, err := handleTerminalEvent(s, screen, tcell.NewEventResize(60, 25)); err != nil {
		t.Fatal(err)
	}
	w, h := s.Size()
	if w != 60 || h != 50 {
		t.Errorf("expected 60x50 surface, got %dx%d", w, h)
	}
}
