package host

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
	"github.com/pthm-cable/swirl/renderer"
)

// halfBlock draws the upper pixel as foreground and the lower one as background.
const halfBlock = '▀'

// RunTerminal animates s in the terminal, two pixels per character cell.
// It returns when the user quits or ctx is cancelled.
func RunTerminal(ctx context.Context, s *game.Swirl, cfg *config.Config, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	cols, rows := screen.Size()
	if err := s.Mount(cols, rows*2); err != nil {
		return fmt.Errorf("mounting swirl: %w", err)
	}
	defer s.Unmount()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	quit := make(chan struct{})
	defer close(quit)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	updates := opts.Updates
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			keep, err := handleTerminalEvent(s, screen, ev)
			if err != nil {
				return err
			}
			if !keep {
				return nil
			}

		case next, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.Apply(next)

		case <-ticker.C:
			s.Tick()
			drawHalfBlocks(screen, s.Compositor())
			screen.Show()
			if opts.done(s) {
				return nil
			}
		}
	}
}

// handleTerminalEvent applies one input event. It returns false when the user quits.
func handleTerminalEvent(s *game.Swirl, screen tcell.Screen, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false, nil
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			s.SetPaused(!s.Paused())
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		// Each cell covers two pixel rows; aim at the center of the cell.
		s.OnPointerMove(float64(x), float64(y*2)+1)

	case *tcell.EventResize:
		cols, rows := ev.Size()
		if err := s.OnResize(cols, rows*2); err != nil {
			return false, fmt.Errorf("resizing swirl: %w", err)
		}
		screen.Sync()
	}
	return true, nil
}

// drawHalfBlocks paints the surface over black, one cell per pixel pair.
func drawHalfBlocks(screen tcell.Screen, c *renderer.Compositor) {
	if c == nil {
		return
	}
	cols, rows := screen.Size()
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			tr, tg, tb := c.OverBlack(cx, cy*2)
			br, bg, bb := c.OverBlack(cx, cy*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb))).
				Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))
			screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}
