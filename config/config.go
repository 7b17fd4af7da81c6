// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Noise backends accepted by NoiseConfig.Backend.
const (
	NoiseSimplex     = "simplex"
	NoiseOpenSimplex = "opensimplex"
)

// Config holds all renderer configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Palette    PaletteConfig    `yaml:"palette"`
	Flow       FlowConfig       `yaml:"flow"`
	Noise      NoiseConfig      `yaml:"noise"`
	Compositor CompositorConfig `yaml:"compositor"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ParticlesConfig holds pool size and spawn parameters.
type ParticlesConfig struct {
	Count           int     `yaml:"count"`
	TerminalCount   int     `yaml:"terminal_count"`   // Pool size used by the terminal host
	TTLBase         float64 `yaml:"ttl_base"`         // Minimum lifetime in ticks
	TTLRange        float64 `yaml:"ttl_range"`        // Random lifetime added on top of ttl_base
	TurbulenceMin   float64 `yaml:"turbulence_min"`   // Lower bound of per-particle turbulence coefficient
	TurbulenceRange float64 `yaml:"turbulence_range"` // Width of the turbulence coefficient range
	SpawnMargin     float64 `yaml:"spawn_margin"`     // Distance outside the edge where particles appear
	BoundsMargin    float64 `yaml:"bounds_margin"`    // Extended bounds before a particle is recycled
}

// PaletteConfig holds the two-tone spawn palette.
type PaletteConfig struct {
	Primary string     `yaml:"primary"` // Hex color near the viewport center
	Bright  string     `yaml:"bright"`  // Hex color at the viewport corners
	Jitter  [3]float64 `yaml:"jitter"`  // Max random additive per channel (r, g, b)
}

// FlowConfig holds advection coefficients.
type FlowConfig struct {
	SwirlSpeed      float64 `yaml:"swirl_speed"`
	SpinRate        float64 `yaml:"spin_rate"`        // Angle added per tick
	Twist           float64 `yaml:"twist"`            // Angle added per pixel of radius
	Drift           float64 `yaml:"drift"`            // Outward speed per pixel of radius
	NoiseScale      float64 `yaml:"noise_scale"`      // Spatial frequency of the turbulence sample
	NoiseTimeScale  float64 `yaml:"noise_time_scale"` // Temporal frequency of the turbulence sample
	NoiseAngleTurns float64 `yaml:"noise_angle_turns"`
	TurbulenceScale float64 `yaml:"turbulence_scale"`
	PointerRadius   float64 `yaml:"pointer_radius"`
	PointerStrength float64 `yaml:"pointer_strength"` // Tangential speed at the pointer itself
	Smoothing       float64 `yaml:"smoothing"`        // Velocity blend factor per tick
}

// NoiseConfig selects the turbulence source.
type NoiseConfig struct {
	Backend string `yaml:"backend"`
}

// CompositorConfig holds the trail and bloom pass settings.
type CompositorConfig struct {
	Fade           float64 `yaml:"fade"` // Opacity of the destination-out pass
	Blur           bool    `yaml:"blur"`
	BlurSigma      float64 `yaml:"blur_sigma"`
	Brightness     float64 `yaml:"brightness"`
	Opacity        float64 `yaml:"opacity"`
	Bloom          bool    `yaml:"bloom"`
	BloomBlurSigma float64 `yaml:"bloom_blur_sigma"`
	Saturation     float64 `yaml:"saturation"`
	BloomOpacity   float64 `yaml:"bloom_opacity"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Primary     [3]float64 // Palette.Primary as 0-255 channels
	Bright      [3]float64 // Palette.Bright as 0-255 channels
	StatsTicks  int        // Telemetry.StatsWindow expressed in ticks
	NoiseRadian float64    // Flow.NoiseAngleTurns as radians per noise unit
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting joined into one error.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS))
	}
	if c.Particles.Count <= 0 {
		errs = append(errs, fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count))
	}
	if c.Particles.TTLBase <= 0 {
		errs = append(errs, fmt.Errorf("particles.ttl_base must be positive, got %g", c.Particles.TTLBase))
	}
	if c.Particles.TTLRange < 0 || c.Particles.TurbulenceRange < 0 {
		errs = append(errs, errors.New("particles ranges must not be negative"))
	}
	switch c.Noise.Backend {
	case NoiseSimplex, NoiseOpenSimplex:
	default:
		errs = append(errs, fmt.Errorf("unknown noise backend %q", c.Noise.Backend))
	}
	if c.Compositor.Fade < 0 || c.Compositor.Fade > 1 {
		errs = append(errs, fmt.Errorf("compositor.fade must be in [0,1], got %g", c.Compositor.Fade))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	primary, err := parseHex(c.Palette.Primary)
	if err != nil {
		return fmt.Errorf("palette.primary: %w", err)
	}
	bright, err := parseHex(c.Palette.Bright)
	if err != nil {
		return fmt.Errorf("palette.bright: %w", err)
	}
	c.Derived.Primary = primary
	c.Derived.Bright = bright

	c.Derived.StatsTicks = int(c.Telemetry.StatsWindow * float64(c.Screen.TargetFPS))
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
	c.Derived.NoiseRadian = 2 * math.Pi * c.Flow.NoiseAngleTurns
	return nil
}

// parseHex converts "#rrggbb" into 0-255 channels.
func parseHex(s string) ([3]float64, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return [3]float64{}, err
	}
	r, g, b := col.RGB255()
	return [3]float64{float64(r), float64(g), float64(b)}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
