package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults failed: %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Errorf("invalid screen size %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if len(cfg.LOD.Tiers) < 2 {
		t.Errorf("defaults carry %d LOD tiers, want at least 2", len(cfg.LOD.Tiers))
	}
	if cfg.Weather.MaxAttempts < 1 {
		t.Errorf("max attempts = %d", cfg.Weather.MaxAttempts)
	}
	if cfg.Derived.Debounce <= 0 {
		t.Errorf("derived debounce = %v", cfg.Derived.Debounce)
	}
	if cfg.Derived.FetchTimeout <= 0 {
		t.Errorf("derived fetch timeout = %v", cfg.Derived.FetchTimeout)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	overlay := `
screen:
  width: 640
weather:
  debounce_ms: 125
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay failed: %v", err)
	}
	if cfg.Screen.Width != 640 {
		t.Errorf("width = %d, want override 640", cfg.Screen.Width)
	}
	if cfg.Derived.Debounce != 125*time.Millisecond {
		t.Errorf("debounce = %v, want 125ms", cfg.Derived.Debounce)
	}
	// Untouched fields keep the embedded defaults.
	if cfg.Screen.Height <= 0 {
		t.Errorf("height lost its default: %d", cfg.Screen.Height)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateLODTable(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"too few tiers",
			func(c *Config) { c.LOD.Tiers = c.LOD.Tiers[:1] },
			"at least 2 tiers",
		},
		{
			"non-increasing zoom",
			func(c *Config) { c.LOD.Tiers[1].Zoom = c.LOD.Tiers[0].Zoom },
			"strictly increasing",
		},
		{
			"particle count rises with zoom",
			func(c *Config) { c.LOD.Tiers[1].ParticleCount = c.LOD.Tiers[0].ParticleCount + 1 },
			"must not increase",
		},
		{
			"trail fade drops with zoom",
			func(c *Config) { c.LOD.Tiers[1].TrailFade = c.LOD.Tiers[0].TrailFade - 0.1 },
			"must not decrease",
		},
		{
			"max age drops with zoom",
			func(c *Config) { c.LOD.Tiers[1].MaxAge = c.LOD.Tiers[0].MaxAge - 1 },
			"must not decrease",
		},
		{
			"zero interp radius",
			func(c *Config) { c.LOD.BaseRadiusKm = 0 },
			"base_radius_km",
		},
		{
			"inverted ring range",
			func(c *Config) { c.Waves.MinRings, c.Waves.MaxRings = 4, 2 },
			"ring count",
		},
		{
			"dense grid too small",
			func(c *Config) { c.Field.DenseWidth = 1 },
			"at least 2x2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
