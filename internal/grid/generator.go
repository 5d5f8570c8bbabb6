package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLength is returned for a non-positive or non-finite region length.
var ErrInvalidLength = errors.New("region length must be positive and finite")

// Params controls one grid generation pass.
type Params struct {
	StreetDensity  float64 // streets per unit length
	VehicleDensity float64 // vehicles per unit length per street
	Length         float64 // side length of the square region
}

// Generate places streets of one orientation and vehicles along them.
// Both the street count and every per-street vehicle count are truncated
// Poisson draws, so the result is never empty and no street is empty.
// Expected counts close to zero make the rejection loop slow; keeping them
// well above zero is up to the caller.
func Generate(s *Sampler, streetDensity, vehicleDensity, length float64) ([]Street, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	count, err := s.TruncatedPoisson(streetDensity * length)
	if err != nil {
		return nil, fmt.Errorf("street count: %w", err)
	}
	streets := make([]Street, count)
	for i := range streets {
		streets[i].Identity = s.Uniform(length)
	}
	for i := range streets {
		n, err := s.TruncatedPoisson(vehicleDensity * length)
		if err != nil {
			return nil, fmt.Errorf("vehicle count on street %d: %w", i, err)
		}
		pos := make([]float64, n)
		for j := range pos {
			pos[j] = s.Uniform(length)
		}
		streets[i].Positions = pos
	}
	return streets, nil
}

// Assemble merges horizontal and vertical streets into one vehicle set.
// Horizontal vehicles come first. Vertical streets have their (along, identity)
// pair swapped so the identity coordinate sits at index 0. Crossing streets
// are never merged.
func Assemble(horizontal, vertical []Street) []Vehicle {
	var vehicles []Vehicle
	vehicles = appendStreets(vehicles, horizontal, Horizontal)
	vehicles = appendStreets(vehicles, vertical, Vertical)
	return vehicles
}

func appendStreets(dst []Vehicle, streets []Street, dir Orientation) []Vehicle {
	for _, st := range streets {
		for _, p := range st.Positions {
			var v Vehicle
			v.Dir = dir
			v.Coords[dir.IdentityAxis()] = st.Identity
			v.Coords[dir.AlongAxis()] = p
			dst = append(dst, v)
		}
	}
	return dst
}

// Build runs the generator for both orientations and assembles the population.
func Build(s *Sampler, p Params) (*Grid, error) {
	horizontal, err := Generate(s, p.StreetDensity, p.VehicleDensity, p.Length)
	if err != nil {
		return nil, fmt.Errorf("horizontal streets: %w", err)
	}
	vertical, err := Generate(s, p.StreetDensity, p.VehicleDensity, p.Length)
	if err != nil {
		return nil, fmt.Errorf("vertical streets: %w", err)
	}
	return &Grid{
		Length:     p.Length,
		Horizontal: horizontal,
		Vertical:   vertical,
		Vehicles:   Assemble(horizontal, vertical),
	}, nil
}
