// Package config provides configuration loading and access for the wind layer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all overlay configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Weather   WeatherConfig   `yaml:"weather"`
	Field     FieldConfig     `yaml:"field"`
	Particles ParticlesConfig `yaml:"particles"`
	LOD       LODConfig       `yaml:"lod"`
	Waves     WavesConfig     `yaml:"waves"`
	GPU       GPUConfig       `yaml:"gpu"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WeatherConfig holds grid-weather fetch settings.
type WeatherConfig struct {
	BaseURL       string  `yaml:"base_url"`
	TimeoutSec    float64 `yaml:"timeout_sec"`
	DebounceMs    int     `yaml:"debounce_ms"`
	MaxAttempts   int     `yaml:"max_attempts"`
	BackoffMs     int     `yaml:"backoff_ms"`
	MaxBackoffMs  int     `yaml:"max_backoff_ms"`
	BBoxKeyDigits int     `yaml:"bbox_key_digits"`
}

// FieldConfig holds interpolation settings.
type FieldConfig struct {
	DenseWidth  int     `yaml:"dense_width"`
	DenseHeight int     `yaml:"dense_height"`
	IDWPower    float64 `yaml:"idw_power"`
	EpsilonKm   float64 `yaml:"epsilon_km"`
}

// ParticlesConfig holds advection tuning.
type ParticlesConfig struct {
	MaxSpeedPx   float64 `yaml:"max_speed_px"`
	BaseDropRate float64 `yaml:"base_drop_rate"`
	DropRateBump float64 `yaml:"drop_rate_bump"`
	FadeFrames   int     `yaml:"fade_frames"`
	AgeJitter    float64 `yaml:"age_jitter"`
}

// LODTier anchors the LOD curves at one zoom level. Tiers must be
// listed in increasing zoom order; parameters are interpolated between
// neighboring tiers so no zoom boundary produces a visible jump.
type LODTier struct {
	Zoom          float64 `yaml:"zoom"`
	ParticleCount int     `yaml:"particle_count"`
	SpeedScale    float64 `yaml:"speed_scale"`
	TrailFade     float64 `yaml:"trail_fade"`
	MaxAge        int     `yaml:"max_age"`
	LineWidth     float64 `yaml:"line_width"`
}

// LODConfig holds the zoom anchor table.
type LODConfig struct {
	Tiers []LODTier `yaml:"tiers"`
	// Interpolation radius at zoom 0, in km; scales with zoom squared.
	BaseRadiusKm float64 `yaml:"base_radius_km"`
}

// WavesConfig holds wave-ring animation settings.
type WavesConfig struct {
	MinRings      int     `yaml:"min_rings"`
	MaxRings      int     `yaml:"max_rings"`
	MaxRadiusPx   float64 `yaml:"max_radius_px"`
	ArcSpreadDeg  float64 `yaml:"arc_spread_deg"`
	LabelFontSize int     `yaml:"label_font_size"`
}

// GPUConfig holds GPU-path settings.
type GPUConfig struct {
	Enabled          bool   `yaml:"enabled"`
	StateTextureSize int    `yaml:"state_texture_size"`
	ShaderDir        string `yaml:"shader_dir"`
	// Particle scale applied when the GPU probe fails and the CPU path runs.
	FallbackParticleScale float64 `yaml:"fallback_particle_scale"`
}

// TelemetryConfig holds perf logging settings.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"`
	LogIntervalMs int     `yaml:"log_interval_ms"`
}

// DerivedConfig holds values computed from the raw config.
type DerivedConfig struct {
	ScreenW32      float32
	ScreenH32      float32
	FetchTimeout   time.Duration
	Debounce       time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var global *Config

// Init loads configuration and stores it globally.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from embedded defaults, optionally overlaid
// with a user config file.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.LOD.Tiers) < 2 {
		return fmt.Errorf("lod: need at least 2 tiers, got %d", len(c.LOD.Tiers))
	}
	prev := c.LOD.Tiers[0]
	for _, t := range c.LOD.Tiers[1:] {
		if t.Zoom <= prev.Zoom {
			return fmt.Errorf("lod: tier zooms must be strictly increasing (%.1f after %.1f)", t.Zoom, prev.Zoom)
		}
		if t.ParticleCount > prev.ParticleCount {
			return fmt.Errorf("lod: particle count must not increase with zoom (%d after %d)", t.ParticleCount, prev.ParticleCount)
		}
		if t.TrailFade < prev.TrailFade {
			return fmt.Errorf("lod: trail fade must not decrease with zoom (%.3f after %.3f)", t.TrailFade, prev.TrailFade)
		}
		if t.MaxAge < prev.MaxAge {
			return fmt.Errorf("lod: max age must not decrease with zoom (%d after %d)", t.MaxAge, prev.MaxAge)
		}
		prev = t
	}
	if c.LOD.BaseRadiusKm <= 0 {
		return fmt.Errorf("lod: base_radius_km must be positive")
	}
	if c.Weather.MaxAttempts < 1 {
		return fmt.Errorf("weather: max_attempts must be at least 1")
	}
	if c.Field.DenseWidth < 2 || c.Field.DenseHeight < 2 {
		return fmt.Errorf("field: dense grid must be at least 2x2, got %dx%d", c.Field.DenseWidth, c.Field.DenseHeight)
	}
	if c.Waves.MinRings < 1 || c.Waves.MaxRings < c.Waves.MinRings {
		return fmt.Errorf("waves: ring count range [%d,%d] invalid", c.Waves.MinRings, c.Waves.MaxRings)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FetchTimeout = time.Duration(c.Weather.TimeoutSec * float64(time.Second))
	c.Derived.Debounce = time.Duration(c.Weather.DebounceMs) * time.Millisecond
	c.Derived.InitialBackoff = time.Duration(c.Weather.BackoffMs) * time.Millisecond
	c.Derived.MaxBackoff = time.Duration(c.Weather.MaxBackoffMs) * time.Millisecond
}
