// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Forest describes the optional forest environment: randomly placed trees
// attenuating the radio range.
type Forest struct {
	TreeCount  int     `yaml:"tree_count"`
	TreeSize   float64 `yaml:"tree_size"`   // canopy radius (m)
	TreeHeight float64 `yaml:"tree_height"` // (m)
}

// Wipe describes the progressive-failure scenario: a line sweeping the area
// and taking down every node it crosses.
type Wipe struct {
	Direction string  `yaml:"direction"` // N|E|S|W|R (R = random cardinal)
	Speed     float64 `yaml:"speed"`     // m/s
}

// Config is the full simulation configuration. It is fixed before the run
// starts and never mutated afterwards.
type Config struct {
	Nodes      int     `yaml:"nodes"`
	AreaWidth  float64 `yaml:"area_width"`  // (m)
	AreaHeight float64 `yaml:"area_height"` // (m)
	MinSpeed   float64 `yaml:"min_speed"`   // (m/s)
	MaxSpeed   float64 `yaml:"max_speed"`   // (m/s)

	SpinePercent  float64 `yaml:"spine_percent"`
	SpineStrategy string  `yaml:"spine_strategy"` // horizontal|centroid

	PacketsPerSecond float64 `yaml:"packets_per_second"`
	PacketSize       int     `yaml:"packet_size"`       // bytes
	ChannelWidthMHz  int     `yaml:"channel_width_mhz"` // 20|40|80|160

	SamplingFreq   Duration `yaml:"sampling_freq"`
	SimulationTime Duration `yaml:"simulation_time"`
	WarmupTime     Duration `yaml:"warmup_time"`

	Environment string `yaml:"environment"` // none|forest
	Forest      Forest `yaml:"forest"`

	Scenario string `yaml:"scenario"` // none|wipe
	Wipe     Wipe   `yaml:"wipe"`

	ResultsPath string `yaml:"results_path"`
	Seed        uint64 `yaml:"seed"`
	Run         uint64 `yaml:"run"`
}

// Default returns the configuration used when no file and no flags are given.
// Values mirror the reference scenario: a 50x50 m area, ten walkers, one
// fifth of them promoted to spine.
func Default() Config {
	return Config{
		Nodes:            10,
		AreaWidth:        50,
		AreaHeight:       50,
		MinSpeed:         1,
		MaxSpeed:         5,
		SpinePercent:     20,
		SpineStrategy:    StrategyHorizontal,
		PacketsPerSecond: 1,
		PacketSize:       512,
		ChannelWidthMHz:  20,
		SamplingFreq:     Duration(time.Second),
		SimulationTime:   Duration(10 * time.Second),
		WarmupTime:       Duration(3 * time.Second),
		Environment:      EnvironmentNone,
		Forest:           Forest{TreeCount: 100, TreeSize: 1.5, TreeHeight: 10},
		Scenario:         ScenarioNone,
		Wipe:             Wipe{Direction: "E", Speed: 1},
		ResultsPath:      "./output",
		Seed:             1,
		Run:              1,
	}
}

// Load reads a YAML config and validates it against the embedded CUE schema.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := validateWithCue(data); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
