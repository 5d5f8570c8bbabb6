// Package pathloss provides vehicle-to-vehicle pathloss models for street grids.
//
// Every model operation returns pathloss in dB as a positive attenuation:
// a larger value is a worse channel. Callers that want "larger is better"
// negate all three operations alike.
package pathloss

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const speedOfLight = 299792458.0

var (
	// ErrInvalidDistance is returned for a zero, negative or non-finite distance.
	ErrInvalidDistance = errors.New("distance must be positive and finite")
	// ErrLengthMismatch is returned when the NLOS legs differ in length.
	ErrLengthMismatch = errors.New("distance vectors differ in length")
)

// Model computes pathloss for the three propagation classes.
type Model interface {
	LOS(dist []float64) ([]float64, error)
	OLOS(dist []float64) ([]float64, error)
	NLOS(distRx, distTx []float64) ([]float64, error)
}

// LogDistance is a single-slope model PL(d) = RefLossDB + 10*Exponent*log10(d/RefDistanceM).
type LogDistance struct {
	RefLossDB    float64 `yaml:"ref_loss_db"`
	Exponent     float64 `yaml:"exponent"`
	RefDistanceM float64 `yaml:"ref_distance_m"`
}

func (l LogDistance) at(d float64) float64 {
	return l.RefLossDB + 10*l.Exponent*math.Log10(d/l.RefDistanceM)
}

// Params configures the Urban model.
type Params struct {
	FrequencyHz float64
	LOS         LogDistance
	OLOS        LogDistance

	// Corner diffraction around an intersection.
	StreetWidthM  float64 // width of the receiver street
	WallDistanceM float64 // transmitter distance to the building wall
	BreakpointM   float64
	ExponentNLOS  float64
	ExponentTx    float64
	Suburban      bool

	// ShadowingSigmaDB > 0 adds zero-mean log-normal shadowing to every value.
	ShadowingSigmaDB float64
}

// DefaultParams returns urban 5.9 GHz parameters.
func DefaultParams() Params {
	return Params{
		FrequencyHz:   5.9e9,
		LOS:           LogDistance{RefLossDB: 63.9, Exponent: 1.81, RefDistanceM: 10},
		OLOS:          LogDistance{RefLossDB: 72.3, Exponent: 1.93, RefDistanceM: 10},
		StreetWidthM:  10,
		WallDistanceM: 5,
		BreakpointM:   44.25,
		ExponentNLOS:  2.69,
		ExponentTx:    0.81,
	}
}

// Urban implements Model with log-distance LOS/OLOS and a two-leg corner
// diffraction NLOS model.
type Urban struct {
	params    Params
	shadowing *distuv.Normal
}

// NewUrban returns an Urban model. src seeds the shadowing draws and may be
// nil when ShadowingSigmaDB is zero.
func NewUrban(p Params, src rand.Source) *Urban {
	u := &Urban{params: p}
	if p.ShadowingSigmaDB > 0 {
		u.shadowing = &distuv.Normal{Mu: 0, Sigma: p.ShadowingSigmaDB, Src: src}
	}
	return u
}

// Params returns the model parameters.
func (u *Urban) Params() Params { return u.params }

// LOS returns line-of-sight pathloss for each distance.
func (u *Urban) LOS(dist []float64) ([]float64, error) {
	return u.logDistance(u.params.LOS, dist)
}

// OLOS returns obstructed line-of-sight pathloss for each distance.
func (u *Urban) OLOS(dist []float64) ([]float64, error) {
	return u.logDistance(u.params.OLOS, dist)
}

func (u *Urban) logDistance(l LogDistance, dist []float64) ([]float64, error) {
	out := make([]float64, len(dist))
	for i, d := range dist {
		if err := checkDistance(d); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = l.at(d) + u.shadow()
	}
	return out, nil
}

// NLOS returns pathloss for a receiver-side leg distRx and a
// transmitter-side leg distTx meeting at the street corner. Below the
// breakpoint the receiver leg contributes linearly, beyond it quadratically.
func (u *Urban) NLOS(distRx, distTx []float64) ([]float64, error) {
	if len(distRx) != len(distTx) {
		return nil, fmt.Errorf("%w: rx %d, tx %d", ErrLengthMismatch, len(distRx), len(distTx))
	}
	p := u.params
	lambda := speedOfLight / p.FrequencyHz
	free := 20 * math.Log10(4*math.Pi/lambda)
	offset := 3.75
	if p.Suburban {
		offset += 2.94
	}
	wall := math.Pow(p.WallDistanceM*p.StreetWidthM, p.ExponentTx)

	out := make([]float64, len(distRx))
	for i := range distRx {
		dr, dt := distRx[i], distTx[i]
		if err := checkDistance(dr); err != nil {
			return nil, fmt.Errorf("rx index %d: %w", i, err)
		}
		if err := checkDistance(dt); err != nil {
			return nil, fmt.Errorf("tx index %d: %w", i, err)
		}
		var ratio float64
		if dr <= p.BreakpointM {
			ratio = math.Pow(dt, p.ExponentTx) * dr / wall
		} else {
			ratio = math.Pow(dt, p.ExponentTx) * dr * dr / (wall * p.BreakpointM)
		}
		out[i] = offset + 10*p.ExponentNLOS*math.Log10(ratio) + free + u.shadow()
	}
	return out, nil
}

func (u *Urban) shadow() float64 {
	if u.shadowing == nil {
		return 0
	}
	return u.shadowing.Rand()
}

func checkDistance(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, d)
	}
	return nil
}
