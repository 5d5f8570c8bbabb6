// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for out-of-range parameters.
var ErrInvalid = errors.New("invalid simulation config")

// Pathloss holds the tunable parts of the urban pathloss model.
type Pathloss struct {
	FrequencyHz      float64 `yaml:"frequency_hz"`
	StreetWidthM     float64 `yaml:"street_width_m"`
	WallDistanceM    float64 `yaml:"wall_distance_m"`
	BreakpointM      float64 `yaml:"breakpoint_m"`
	Suburban         bool    `yaml:"suburban"`
	ShadowingSigmaDB float64 `yaml:"shadowing_sigma_db"`
}

// SimulationConfig is the root configuration of a grid run.
type SimulationConfig struct {
	StreetDensity     float64  `yaml:"street_density"`  // streets per metre
	VehicleDensity    float64  `yaml:"vehicle_density"` // vehicles per metre of street
	RoadLength        float64  `yaml:"road_length"`     // side of the square area, metres
	PathlossThreshold float64  `yaml:"pathloss_threshold"`
	Seed              uint64   `yaml:"seed"` // 0 draws a random seed
	MaxRetries        int      `yaml:"max_retries"`
	UnreachableMargin float64  `yaml:"unreachable_margin"`
	LogLevel          string   `yaml:"log_level"`
	Pathloss          Pathloss `yaml:"pathloss"`
}

// Default returns the configuration used when no file sets a value.
func Default() SimulationConfig {
	return SimulationConfig{
		StreetDensity:     1e-3,
		VehicleDensity:    1e-2,
		RoadLength:        1e4,
		PathlossThreshold: -110,
		MaxRetries:        1000,
		UnreachableMargin: 50,
		LogLevel:          "info",
		Pathloss: Pathloss{
			FrequencyHz:   5.9e9,
			StreetWidthM:  10,
			WallDistanceM: 5,
			BreakpointM:   44.25,
		},
	}
}

// Load loads YAML config and validates it against a CUE schema. An empty
// schema path skips the CUE step.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimulationConfig) applyEnv() error {
	if env := os.Getenv("SIM_SEED"); env != "" {
		seed, err := strconv.ParseUint(env, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SIM_SEED: %w", err)
		}
		c.Seed = seed
	}
	return nil
}

// Validate checks that the core parameters are positive.
func (c *SimulationConfig) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"street_density", c.StreetDensity},
		{"vehicle_density", c.VehicleDensity},
		{"road_length", c.RoadLength},
		{"pathloss.frequency_hz", c.Pathloss.FrequencyHz},
		{"pathloss.street_width_m", c.Pathloss.StreetWidthM},
		{"pathloss.wall_distance_m", c.Pathloss.WallDistanceM},
		{"pathloss.breakpoint_m", c.Pathloss.BreakpointM},
	}
	for _, ch := range checks {
		if !(ch.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, ch.name, ch.v)
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalid)
	}
	if !(c.UnreachableMargin > 0) {
		return fmt.Errorf("%w: unreachable_margin must be positive", ErrInvalid)
	}
	if c.Pathloss.ShadowingSigmaDB < 0 {
		return fmt.Errorf("%w: pathloss.shadowing_sigma_db must not be negative", ErrInvalid)
	}
	return nil
}
