// Package sweep runs the grid pipeline over a range of densities.
package sweep

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPlan is returned for plans that cannot be executed.
var ErrInvalidPlan = errors.New("invalid sweep plan")

// Range is an evenly spaced sequence of Num values from Start to Stop inclusive.
type Range struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Num   int     `yaml:"num"`
}

// Expand returns the values of r.
func (r Range) Expand() ([]float64, error) {
	switch {
	case r.Num < 1:
		return nil, fmt.Errorf("%w: range needs num >= 1, got %d", ErrInvalidPlan, r.Num)
	case r.Num == 1:
		return []float64{r.Start}, nil
	}
	return floats.Span(make([]float64, r.Num), r.Start, r.Stop), nil
}

// Axis is a list of density values. In YAML each item is either a number or
// a Range mapping; a bare number is a one-item axis.
type Axis []float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Axis) UnmarshalYAML(n *yaml.Node) error {
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}
	var out []float64
	for _, item := range items {
		switch item.Kind {
		case yaml.ScalarNode:
			var v float64
			if err := item.Decode(&v); err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			out = append(out, v)
		case yaml.MappingNode:
			var r Range
			if err := item.Decode(&r); err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			vals, err := r.Expand()
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			out = append(out, vals...)
		default:
			return fmt.Errorf("%w: line %d: expected number or range", ErrInvalidPlan, item.Line)
		}
	}
	*a = out
	return nil
}

// Plan describes a density sweep.
type Plan struct {
	StreetDensities  Axis    `yaml:"street_densities"`
	VehicleDensities Axis    `yaml:"vehicle_densities"`
	Runs             int     `yaml:"runs"`
	Seed             uint64  `yaml:"seed"`
	Confidence       float64 `yaml:"confidence"`
}

// Point is one density combination of a plan.
type Point struct {
	StreetDensity  float64
	VehicleDensity float64
}

// Load reads a YAML sweep plan from disk.
func Load(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p := Plan{Runs: 10, Confidence: 0.95}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the plan describes at least one point with enough
// runs for an interval.
func (p *Plan) Validate() error {
	if len(p.StreetDensities) == 0 || len(p.VehicleDensities) == 0 {
		return fmt.Errorf("%w: both density axes need values", ErrInvalidPlan)
	}
	for _, v := range append(append([]float64{}, p.StreetDensities...), p.VehicleDensities...) {
		if !(v > 0) {
			return fmt.Errorf("%w: density %v is not positive", ErrInvalidPlan, v)
		}
	}
	if p.Runs < 2 {
		return fmt.Errorf("%w: runs must be at least 2, got %d", ErrInvalidPlan, p.Runs)
	}
	if !(p.Confidence > 0 && p.Confidence < 1) {
		return fmt.Errorf("%w: confidence %v outside (0, 1)", ErrInvalidPlan, p.Confidence)
	}
	return nil
}

// Points returns the cartesian product of the axes, street density major.
func (p *Plan) Points() []Point {
	pts := make([]Point, 0, len(p.StreetDensities)*len(p.VehicleDensities))
	for _, s := range p.StreetDensities {
		for _, v := range p.VehicleDensities {
			pts = append(pts, Point{StreetDensity: s, VehicleDensity: v})
		}
	}
	return pts
}
