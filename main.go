package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/swirl/config"
	"github.com/pthm-cable/swirl/game"
	"github.com/pthm-cable/swirl/host"
	"github.com/pthm-cable/swirl/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a display")
	terminal := flag.Bool("terminal", false, "Render in the terminal with truecolor half blocks")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	particles := flag.Int("particles", 0, "Particle count (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	watch := flag.Bool("watch", false, "Reload -config when it changes")
	snapshot := flag.String("snapshot", "", "Write the final surface as PNG to this path (headless only)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	switch {
	case *particles > 0:
		cfg.Particles.Count = *particles
	case *terminal:
		cfg.Particles.Count = cfg.Particles.TerminalCount
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog. The terminal host owns stdout, so logs go to a file there.
	var logOut io.Writer = os.Stdout
	if *terminal {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "swirl.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var updates <-chan *config.Config
	if *watch && *configPath != "" {
		ch, err := config.Watch(ctx, *configPath)
		if err != nil {
			slog.Error("failed to watch config", "error", err)
			os.Exit(1)
		}
		updates = ch
	}

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		OutputDir:      *outputDir,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
	}
	s := game.New(cfg, opts)
	hostOpts := host.Options{Updates: updates, MaxTicks: *maxTicks}

	var err error
	switch {
	case *headless:
		err = runHeadless(ctx, s, cfg, hostOpts, *snapshot)
	case *terminal:
		err = host.RunTerminal(ctx, s, cfg, hostOpts)
	default:
		err = host.RunWindow(ctx, s, cfg, hostOpts)
	}
	if err != nil {
		slog.Error("swirl stopped", "error", err)
		os.Exit(1)
	}
}

// runHeadless ticks as fast as possible with no display attached.
func runHeadless(ctx context.Context, s *game.Swirl, cfg *config.Config, opts host.Options, pngPath string) error {
	if err := s.Mount(cfg.Screen.Width, cfg.Screen.Height); err != nil {
		return err
	}
	defer s.Unmount()

	slog.Info("starting headless run",
		"particles", cfg.Particles.Count,
		"max_ticks", opts.MaxTicks,
	)

	for ctx.Err() == nil {
		select {
		case next, ok := <-opts.Updates:
			if ok {
				s.Apply(next)
			} else {
				opts.Updates = nil
			}
		default:
		}

		s.Tick()

		if opts.MaxTicks > 0 && s.Ticks() >= uint64(opts.MaxTicks) {
			slog.Info("max ticks reached", "tick", s.Ticks())
			break
		}
	}

	if pngPath != "" {
		if err := telemetry.SavePNG(s.Render(), pngPath); err != nil {
			return err
		}
		slog.Info("surface saved", "path", pngPath)
	}
	return nil
}
