package game

// Options configures a Swirl beyond what the config file holds.
type Options struct {
	Seed           int64   // RNG seed for noise and spawns
	Headless       bool    // No display attached; frame timing is not recorded
	OutputDir      string  // CSV and config output directory (empty = disabled)
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Stats window in seconds (0 = use config)
}

// State is the lifecycle state of a Swirl.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}
