package grid

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaxRetries bounds the rejection loop of TruncatedPoisson.
const DefaultMaxRetries = 1000

var (
	// ErrDegenerateDraw is returned when every Poisson draw within the retry budget was zero.
	ErrDegenerateDraw = errors.New("poisson draw stayed zero after max retries")
	// ErrInvalidMean is returned for a non-positive or non-finite Poisson mean.
	ErrInvalidMean = errors.New("poisson mean must be positive and finite")
)

// Sampler owns the pseudorandom state used by the generator.
type Sampler struct {
	src        rand.Source
	maxRetries int
}

// NewSampler returns a sampler seeded with seed. A maxRetries <= 0 selects
// DefaultMaxRetries.
func NewSampler(seed uint64, maxRetries int) *Sampler {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Sampler{src: src, maxRetries: maxRetries}
}

// Source exposes the underlying source so other models can share the stream.
func (s *Sampler) Source() rand.Source { return s.src }

// TruncatedPoisson draws from Poisson(mean) conditioned on a non-zero result
// by rejecting zero draws.
func (s *Sampler) TruncatedPoisson(mean float64) (int, error) {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMean, mean)
	}
	p := distuv.Poisson{Lambda: mean, Src: s.src}
	for i := 0; i < s.maxRetries; i++ {
		if n := int(p.Rand()); n > 0 {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w (mean %v, %d retries)", ErrDegenerateDraw, mean, s.maxRetries)
}

// Uniform draws from [0, length).
func (s *Sampler) Uniform(length float64) float64 {
	u := distuv.Uniform{Min: 0, Max: length, Src: s.src}
	return u.Rand()
}
