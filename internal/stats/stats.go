// Package stats summarizes repeated simulation runs.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTooFewSamples is returned when fewer than two samples are given.
	ErrTooFewSamples = errors.New("at least two samples required")
	// ErrInvalidConfidence is returned for a confidence level outside (0, 1).
	ErrInvalidConfidence = errors.New("confidence must be in (0, 1)")
)

// MeanCI returns the sample mean and the two-sided Student-t confidence
// interval around it.
func MeanCI(samples []float64, confidence float64) (mean, lo, hi float64, err error) {
	n := len(samples)
	if n < 2 {
		return 0, 0, 0, fmt.Errorf("%w: got %d", ErrTooFewSamples, n)
	}
	if !(confidence > 0 && confidence < 1) {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidConfidence, confidence)
	}
	mean, std := stat.MeanStdDev(samples, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - (1-confidence)/2)
	half := t * std / math.Sqrt(float64(n))
	return mean, mean - half, mean + half, nil
}
