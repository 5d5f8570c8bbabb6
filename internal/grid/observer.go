package grid

import (
	"errors"
	"math"
)

// ErrEmptyPopulation is returned when there is no vehicle to observe from.
var ErrEmptyPopulation = errors.New("population is empty")

// SelectObserver picks the vehicle closest to the centre of the region.
// Ties resolve to the first minimal index. The returned slice is a copy of
// vehicles without the observer; the input is left untouched.
func SelectObserver(vehicles []Vehicle, length float64) (Vehicle, []Vehicle, int, error) {
	if len(vehicles) == 0 {
		return Vehicle{}, nil, -1, ErrEmptyPopulation
	}
	cx, cy := length/2, length/2
	best := 0
	bestDist := math.Inf(1)
	for i, v := range vehicles {
		d := math.Hypot(v.X()-cx, v.Y()-cy)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	rest := make([]Vehicle, 0, len(vehicles)-1)
	rest = append(rest, vehicles[:best]...)
	rest = append(rest, vehicles[best+1:]...)
	return vehicles[best], rest, best, nil
}
