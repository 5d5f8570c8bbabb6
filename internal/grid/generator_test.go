package grid

import (
	"errors"
	"testing"
)

func TestTruncatedPoissonNeverZero(t *testing.T) {
	s := NewSampler(7, 0)
	for i := 0; i < 500; i++ {
		n, err := s.TruncatedPoisson(0.5)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if n < 1 {
			t.Fatalf("draw %d returned %d", i, n)
		}
	}
}

func TestTruncatedPoissonRetryBudget(t *testing.T) {
	// With mean 1e-12 a non-zero draw is practically impossible.
	s := NewSampler(1, 5)
	_, err := s.TruncatedPoisson(1e-12)
	if !errors.Is(err, ErrDegenerateDraw) {
		t.Fatalf("expected ErrDegenerateDraw, got %v", err)
	}
}

func TestTruncatedPoissonInvalidMean(t *testing.T) {
	s := NewSampler(1, 0)
	for _, mean := range []float64{0, -3} {
		if _, err := s.TruncatedPoisson(mean); !errors.Is(err, ErrInvalidMean) {
			t.Errorf("mean %v: expected ErrInvalidMean, got %v", mean, err)
		}
	}
}

func TestGenerateNonDegenerate(t *testing.T) {
	const length = 1e4
	for seed := uint64(0); seed < 50; seed++ {
		s := NewSampler(seed, 0)
		streets, err := Generate(s, 2e-4, 1e-4, length)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(streets) < 1 {
			t.Fatalf("seed %d: no streets", seed)
		}
		for i, st := range streets {
			if len(st.Positions) < 1 {
				t.Fatalf("seed %d: street %d is empty", seed, i)
			}
			if st.Identity < 0 || st.Identity >= length {
				t.Fatalf("seed %d: identity %v out of range", seed, st.Identity)
			}
			for _, p := range st.Positions {
				if p < 0 || p >= length {
					t.Fatalf("seed %d: position %v out of range", seed, p)
				}
			}
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	s := NewSampler(1, 0)
	if _, err := Generate(s, 1, 1, 0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestGenerateSeeded(t *testing.T) {
	a, err := Generate(NewSampler(42, 0), 2e-3, 2e-3, 1e4)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(NewSampler(42, 0), 2e-3, 2e-3, 1e4)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("street count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Identity != b[i].Identity || len(a[i].Positions) != len(b[i].Positions) {
			t.Fatalf("street %d differs", i)
		}
	}
}

func TestAssembleOrientation(t *testing.T) {
	horizontal := []Street{{Identity: 100, Positions: []float64{1, 2}}}
	vertical := []Street{{Identity: 300, Positions: []float64{5}}}
	got := Assemble(horizontal, vertical)
	want := []Vehicle{
		{Coords: [2]float64{1, 100}, Dir: Horizontal},
		{Coords: [2]float64{2, 100}, Dir: Horizontal},
		{Coords: [2]float64{300, 5}, Dir: Vertical},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d vehicles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vehicle %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if got[0].Identity() != 100 || got[0].Along() != 1 {
		t.Errorf("horizontal accessors wrong: %+v", got[0])
	}
	if got[2].Identity() != 300 || got[2].Along() != 5 {
		t.Errorf("vertical accessors wrong: %+v", got[2])
	}
}

func TestBuild(t *testing.T) {
	g, err := Build(NewSampler(3, 0), Params{StreetDensity: 2e-3, VehicleDensity: 2e-3, Length: 1e4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(g.Horizontal) < 1 || len(g.Vertical) < 1 {
		t.Fatalf("expected streets in both orientations")
	}
	total := 0
	for _, st := range append(append([]Street{}, g.Horizontal...), g.Vertical...) {
		total += len(st.Positions)
	}
	if len(g.Vehicles) != total {
		t.Fatalf("expected %d vehicles, got %d", total, len(g.Vehicles))
	}
	if g.StreetCount() != len(g.Horizontal)+len(g.Vertical) {
		t.Fatalf("street count mismatch")
	}
}
