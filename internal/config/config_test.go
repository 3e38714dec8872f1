package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
nodes: 25
area_width: 100
sampling_freq: 500ms
warmup_time: 2s
scenario: wipe
wipe:
  direction: W
  speed: 2.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nodes != 25 {
		t.Errorf("Nodes = %d, want 25", cfg.Nodes)
	}
	if cfg.AreaWidth != 100 {
		t.Errorf("AreaWidth = %g, want 100", cfg.AreaWidth)
	}
	if cfg.SamplingFreq.Std() != 500*time.Millisecond {
		t.Errorf("SamplingFreq = %s, want 500ms", cfg.SamplingFreq)
	}
	if cfg.Wipe.Direction != "W" || cfg.Wipe.Speed != 2.5 {
		t.Errorf("Wipe = %+v", cfg.Wipe)
	}
	// untouched fields keep defaults
	if cfg.AreaHeight != 50 {
		t.Errorf("AreaHeight = %g, want default 50", cfg.AreaHeight)
	}
	if cfg.PacketSize != 512 {
		t.Errorf("PacketSize = %d, want default 512", cfg.PacketSize)
	}
}

func TestLoadNumericDurationSeconds(t *testing.T) {
	path := writeTempConfig(t, "simulation_time: 42\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SimulationTime.Std() != 42*time.Second {
		t.Errorf("SimulationTime = %s, want 42s", cfg.SimulationTime)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	path := writeTempConfig(t, "nodes: -3\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema error for negative node count")
	}
}

func TestValidateFatalCases(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"spine percent above 100", func(c *Config) { c.SpinePercent = 101 }},
		{"spine percent negative", func(c *Config) { c.SpinePercent = -1 }},
		{"unrecognized channel width", func(c *Config) { c.ChannelWidthMHz = 22 }},
		{"unrecognized wipe direction", func(c *Config) {
			c.Scenario = ScenarioWipe
			c.Wipe.Direction = "Q"
		}},
		{"unrecognized scenario", func(c *Config) { c.Scenario = "meteor" }},
		{"zero nodes", func(c *Config) { c.Nodes = 0 }},
		{"inverted speed bounds", func(c *Config) { c.MinSpeed = 5; c.MaxSpeed = 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(testLogger()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateFallbacks(t *testing.T) {
	cfg := Default()
	cfg.SpineStrategy = "starfish"
	cfg.Environment = "desert"
	if err := cfg.Validate(testLogger()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.SpineStrategy != StrategyHorizontal {
		t.Errorf("SpineStrategy = %q, want fallback %q", cfg.SpineStrategy, StrategyHorizontal)
	}
	if cfg.Environment != EnvironmentNone {
		t.Errorf("Environment = %q, want fallback %q", cfg.Environment, EnvironmentNone)
	}
}

func TestStopTime(t *testing.T) {
	cfg := Default()
	if got := cfg.StopTime(); got != 13*time.Second {
		t.Errorf("StopTime = %s, want 13s", got)
	}
}
