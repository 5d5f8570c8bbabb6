package stats

import (
	"errors"
	"math"
	"testing"
)

func TestMeanCIKnownSamples(t *testing.T) {
	mean, lo, hi, err := MeanCI([]float64{1, 2, 3, 4, 5}, 0.95)
	if err != nil {
		t.Fatalf("MeanCI: %v", err)
	}
	if mean != 3 {
		t.Fatalf("mean = %v, want 3", mean)
	}
	// t(0.975, 4) = 2.7764, s = sqrt(2.5)
	half := 2.776445 * math.Sqrt(2.5) / math.Sqrt(5)
	if math.Abs(lo-(3-half)) > 1e-3 || math.Abs(hi-(3+half)) > 1e-3 {
		t.Fatalf("interval [%v, %v], want [%v, %v]", lo, hi, 3-half, 3+half)
	}
}

func TestMeanCIConstant(t *testing.T) {
	mean, lo, hi, err := MeanCI([]float64{0.5, 0.5, 0.5}, 0.9)
	if err != nil {
		t.Fatalf("MeanCI: %v", err)
	}
	if mean != 0.5 || lo != 0.5 || hi != 0.5 {
		t.Fatalf("got %v [%v, %v], want zero-width interval at 0.5", mean, lo, hi)
	}
}

func TestMeanCIErrors(t *testing.T) {
	if _, _, _, err := MeanCI([]float64{1}, 0.95); !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("expected ErrTooFewSamples, got %v", err)
	}
	for _, c := range []float64{0, 1, -0.5, math.NaN()} {
		if _, _, _, err := MeanCI([]float64{1, 2}, c); !errors.Is(err, ErrInvalidConfidence) {
			t.Fatalf("confidence %v: expected ErrInvalidConfidence, got %v", c, err)
		}
	}
}

func TestMeanCIWiderAtHigherConfidence(t *testing.T) {
	s := []float64{0.1, 0.3, 0.2, 0.5, 0.4}
	_, lo90, hi90, _ := MeanCI(s, 0.90)
	_, lo99, hi99, _ := MeanCI(s, 0.99)
	if !(hi99-lo99 > hi90-lo90) {
		t.Fatalf("99%% interval not wider than 90%%")
	}
}
