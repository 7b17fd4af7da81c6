// Package host runs a Swirl against a real display: a raylib window or a
// truecolor terminal. Each host owns the frame loop and calls into the Swirl
// from a single goroutine.
package host

import (
	"log/slog"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
)

// Options controls a host loop.
type Options struct {
	Updates  <-chan *config.Config // Reloaded configs, nil if not watching
	MaxTicks int                   // Stop after N ticks (0 = unlimited)
}

// applyUpdates drains any pending config reload into s.
func applyUpdates(s *game.Swirl, updates <-chan *config.Config) {
	select {
	case cfg, ok := <-updates:
		if ok && cfg != nil {
			s.Apply(cfg)
		}
	default:
	}
}

// done reports whether the tick limit has been reached.
func (o Options) done(s *game.Swirl) bool {
	if o.MaxTicks > 0 && s.Ticks() >= uint64(o.MaxTicks) {
		slog.Info("max ticks reached", "tick", s.Ticks())
		return true
	}
	return false
}
