// CUE schema validation and eager setup-time checks
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource []byte

// Strategy, environment, and scenario tags.
const (
	StrategyHorizontal = "horizontal"
	StrategyCentroid   = "centroid"

	EnvironmentNone   = "none"
	EnvironmentForest = "forest"

	ScenarioNone = "none"
	ScenarioWipe = "wipe"
)

// ChannelWidths lists the recognized radio channel widths in MHz.
var ChannelWidths = []int{20, 40, 80, 160}

// WipeDirections lists the recognized sweep directions. "R" picks one of the
// four cardinal directions at random, once, when the sweep starts.
var WipeDirections = []string{"N", "E", "S", "W", "R"}

// validateWithCue checks raw YAML config bytes against the embedded schema.
func validateWithCue(yamlBytes []byte) error {
	ctx := cuecontext.New()
	file, err := cueyaml.Extract("config.yaml", yamlBytes)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("compile config: %w", configVal.Err())
	}
	schemaVal := ctx.CompileBytes(schemaSource)
	if schemaVal.Err() != nil {
		return fmt.Errorf("compile schema: %w", schemaVal.Err())
	}
	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate checks the assembled configuration before the run starts. Fatal
// misconfigurations return an error. Recoverable ones (unknown spine strategy,
// unknown environment tag) log a warning and fall back to a default, mutating
// the config in place.
func (c *Config) Validate(log *slog.Logger) error {
	if c.Nodes < 1 {
		return fmt.Errorf("nodes must be at least 1, got %d", c.Nodes)
	}
	if c.AreaWidth <= 0 || c.AreaHeight <= 0 {
		return fmt.Errorf("area must be positive, got %gx%g", c.AreaWidth, c.AreaHeight)
	}
	if c.MinSpeed < 0 || c.MaxSpeed < c.MinSpeed {
		return fmt.Errorf("invalid speed bounds [%g, %g]", c.MinSpeed, c.MaxSpeed)
	}
	if c.SpinePercent < 0 || c.SpinePercent > 100 {
		return fmt.Errorf("spine percent must be within [0, 100], got %g", c.SpinePercent)
	}
	if c.SamplingFreq <= 0 {
		return fmt.Errorf("sampling frequency must be positive, got %s", c.SamplingFreq)
	}
	if c.SimulationTime <= 0 || c.WarmupTime < 0 {
		return fmt.Errorf("invalid durations: simulation %s, warmup %s", c.SimulationTime, c.WarmupTime)
	}
	if !contains(ChannelWidths, c.ChannelWidthMHz) {
		return fmt.Errorf("unrecognized channel width %d MHz (valid: %v)", c.ChannelWidthMHz, ChannelWidths)
	}

	switch c.SpineStrategy {
	case StrategyHorizontal, StrategyCentroid:
	default:
		log.Warn("unknown spine strategy, falling back to horizontal", "strategy", c.SpineStrategy)
		c.SpineStrategy = StrategyHorizontal
	}

	switch c.Environment {
	case EnvironmentNone, EnvironmentForest:
	default:
		log.Warn("unknown environment tag, disabling environmental modeling", "environment", c.Environment)
		c.Environment = EnvironmentNone
	}

	switch c.Scenario {
	case ScenarioNone:
	case ScenarioWipe:
		if !containsString(WipeDirections, c.Wipe.Direction) {
			return fmt.Errorf("unrecognized wipe direction %q (valid: %v)", c.Wipe.Direction, WipeDirections)
		}
		if c.Wipe.Speed <= 0 {
			return fmt.Errorf("wipe speed must be positive, got %g", c.Wipe.Speed)
		}
	default:
		return fmt.Errorf("unrecognized scenario %q", c.Scenario)
	}

	return nil
}

// StopTime returns the virtual time at which the engine stops.
func (c *Config) StopTime() time.Duration {
	return c.WarmupTime.Std() + c.SimulationTime.Std()
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
