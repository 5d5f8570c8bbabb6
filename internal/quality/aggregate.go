// Package quality turns visibility classes into per-vehicle channel quality.
package quality

import (
	"errors"
	"fmt"
	"math"

	"manhattan-sim/internal/grid"
	"manhattan-sim/internal/pathloss"
	"manhattan-sim/internal/visibility"
)

// DefaultUnreachableMargin is the pathloss added on top of the worst computed
// value for vehicles without a propagation path.
const DefaultUnreachableMargin = 50.0

var (
	// ErrModel wraps failures of the pathloss model.
	ErrModel = errors.New("pathloss model failed")
	// ErrNoReference is returned when unreachable vehicles exist but no value
	// was computed to place the sentinel above.
	ErrNoReference = errors.New("no computed pathloss to anchor unreachable sentinel")
)

// Config controls aggregation.
type Config struct {
	Threshold         float64 // quality above which a vehicle is in range
	UnreachableMargin float64 // zero selects DefaultUnreachableMargin
}

// Result holds one value per vehicle, in population order.
type Result struct {
	Pathloss []float64 // dB attenuation, larger is worse
	Quality  []float64 // negated pathloss, larger is better
	InRange  []bool
	// Sentinel is the pathloss assigned to unreachable vehicles, NaN if none.
	Sentinel float64
}

// InRangeIndices returns the ascending indices of vehicles in range.
func (r *Result) InRangeIndices() []int { return r.filter(true) }

// OutOfRangeIndices returns the ascending indices of vehicles out of range.
func (r *Result) OutOfRangeIndices() []int { return r.filter(false) }

func (r *Result) filter(in bool) []int {
	var idx []int
	for i, v := range r.InRange {
		if v == in {
			idx = append(idx, i)
		}
	}
	return idx
}

// Aggregate computes pathloss and quality for every vehicle of a classified
// population. LOS and OLOS use the Euclidean distance to the observer; NLOS
// uses the two legs through the corner. Unreachable vehicles get the worst
// computed pathloss plus the margin.
func Aggregate(vehicles []grid.Vehicle, observer grid.Vehicle, c visibility.Classification, m pathloss.Model, cfg Config) (*Result, error) {
	if c.Len() != len(vehicles) {
		return nil, fmt.Errorf("classification covers %d vehicles, population has %d", c.Len(), len(vehicles))
	}
	margin := cfg.UnreachableMargin
	if margin == 0 {
		margin = DefaultUnreachableMargin
	}

	res := &Result{
		Pathloss: make([]float64, len(vehicles)),
		Quality:  make([]float64, len(vehicles)),
		InRange:  make([]bool, len(vehicles)),
		Sentinel: math.NaN(),
	}

	los := c.Indices(visibility.LOS)
	if err := scatter(res, los, m.LOS, euclidean(vehicles, observer, los), visibility.LOS); err != nil {
		return nil, err
	}
	olos := c.Indices(visibility.OLOS)
	if err := scatter(res, olos, m.OLOS, euclidean(vehicles, observer, olos), visibility.OLOS); err != nil {
		return nil, err
	}

	nlos := c.Indices(visibility.NLOS)
	rx, tx := cornerLegs(vehicles, observer, nlos)
	nlosFn := func(rx []float64) ([]float64, error) { return m.NLOS(rx, tx) }
	if err := scatter(res, nlos, nlosFn, rx, visibility.NLOS); err != nil {
		return nil, err
	}

	unreachable := c.Indices(visibility.Unreachable)
	if len(unreachable) > 0 {
		computed := len(los) + len(olos) + len(nlos)
		if computed == 0 {
			return nil, ErrNoReference
		}
		worst := math.Inf(-1)
		for i, cl := range c.Classes {
			if cl != visibility.Unreachable && res.Pathloss[i] > worst {
				worst = res.Pathloss[i]
			}
		}
		res.Sentinel = worst + margin
		for _, i := range unreachable {
			res.Pathloss[i] = res.Sentinel
			res.Quality[i] = -res.Sentinel
		}
	}

	for i, q := range res.Quality {
		res.InRange[i] = q > cfg.Threshold
	}
	return res, nil
}

func scatter(res *Result, idx []int, fn func([]float64) ([]float64, error), dist []float64, cl visibility.Class) error {
	if len(idx) == 0 {
		return nil
	}
	pl, err := fn(dist)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrModel, cl, err)
	}
	if len(pl) != len(idx) {
		return fmt.Errorf("%w: %s returned %d values for %d vehicles", ErrModel, cl, len(pl), len(idx))
	}
	for k, i := range idx {
		if math.IsNaN(pl[k]) || math.IsInf(pl[k], 0) {
			return fmt.Errorf("%w: %s returned non-finite value for vehicle %d", ErrModel, cl, i)
		}
		res.Pathloss[i] = pl[k]
		res.Quality[i] = -pl[k]
	}
	return nil
}

func euclidean(vehicles []grid.Vehicle, observer grid.Vehicle, idx []int) []float64 {
	d := make([]float64, len(idx))
	for k, i := range idx {
		v := vehicles[i]
		d[k] = math.Hypot(v.X()-observer.X(), v.Y()-observer.Y())
	}
	return d
}

// cornerLegs splits the path to a crossing-street vehicle into the leg along
// the observer's street (rx) and the leg along the vehicle's street (tx).
func cornerLegs(vehicles []grid.Vehicle, observer grid.Vehicle, idx []int) (rx, tx []float64) {
	along, ident := observer.Dir.AlongAxis(), observer.Dir.IdentityAxis()
	rx = make([]float64, len(idx))
	tx = make([]float64, len(idx))
	for k, i := range idx {
		v := vehicles[i]
		rx[k] = math.Abs(v.Coords[along] - observer.Coords[along])
		tx[k] = math.Abs(v.Coords[ident] - observer.Coords[ident])
	}
	return rx, tx
}
