package locus

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fraclocus/internal/khps2"
)

var testG = khps2.Params{1.0, 0.5, 1.2, 0.1, 0.05, 0.3}

func TestRangeValues(t *testing.T) {
	r := Range{Min: -1, Max: 1, Samples: 5}
	got := r.Values()
	want := []float64{-1, -0.5, 0, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("value[%d] = %g, want %g", i, got[i], want[i])
		}
	}
	if got[0] != -1 || got[4] != 1 {
		t.Error("endpoints must be exact")
	}
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		ok   bool
	}{
		{"ok", Range{-1, 1, 10}, true},
		{"one sample", Range{-1, 1, 1}, false},
		{"inverted", Range{1, -1, 10}, false},
		{"degenerate", Range{0, 0, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrRange) {
				t.Errorf("expected ErrRange, got %v", err)
			}
		})
	}
}

func TestBuildSurfaceMaskingLaw(t *testing.T) {
	sp := Spec{
		EtaRange:       Range{Min: -3, Max: 3, Samples: 41},
		InvariantRange: Range{Min: -1, Max: 1, Samples: 21},
		Epsilon:        khps2.DefaultEpsilon,
	}
	grid, err := BuildSurface(testG, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Rows() != 21 || grid.Cols() != 41 {
		t.Fatalf("grid shape %dx%d, want 21x41", grid.Rows(), grid.Cols())
	}

	sawMasked, sawOpen := false, false
	for i := 0; i < grid.Rows(); i++ {
		for j := 0; j < grid.Cols(); j++ {
			eta, invar := grid.Eta[i][j], grid.Invariant[i][j]
			cutoff := khps2.CutoffTriaxiality(testG, invar)
			if grid.Cutoff[i][j] != cutoff {
				t.Fatalf("cutoff cell [%d][%d] = %g, want %g", i, j, grid.Cutoff[i][j], cutoff)
			}
			if eta < cutoff {
				sawMasked = true
				if !grid.Masked[i][j] || !math.IsNaN(grid.Strain[i][j]) {
					t.Fatalf("cell [%d][%d] below cutoff must be masked NaN", i, j)
				}
			} else {
				sawOpen = true
				want := khps2.FractureStrain(testG, eta, invar, sp.Epsilon)
				if grid.Masked[i][j] || grid.Strain[i][j] != want {
					t.Fatalf("cell [%d][%d] = %g masked=%v, want %g unmasked",
						i, j, grid.Strain[i][j], grid.Masked[i][j], want)
				}
			}
		}
	}
	if !sawMasked || !sawOpen {
		t.Error("test grid should straddle the cut-off boundary")
	}
}

func TestBuildSurfaceStrainClip(t *testing.T) {
	sp := Spec{
		EtaRange:       Range{Min: -1, Max: 1, Samples: 21},
		InvariantRange: Range{Min: -1, Max: 1, Samples: 11},
		Epsilon:        khps2.DefaultEpsilon,
		ClipStrain:     true,
		MinStrain:      0,
		MaxStrain:      1.2,
	}
	grid, err := BuildSurface(testG, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < grid.Rows(); i++ {
		for j := 0; j < grid.Cols(); j++ {
			if grid.Masked[i][j] {
				continue
			}
			if s := grid.Strain[i][j]; s < 0 || s > 1.2 {
				t.Fatalf("unmasked strain %g outside clip limits", s)
			}
		}
	}
}

func TestBuildSurfaceBadRange(t *testing.T) {
	sp := DefaultSpec()
	sp.EtaRange.Samples = 1
	if _, err := BuildSurface(testG, sp); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestPlaneStressCurve(t *testing.T) {
	curve, err := BuildPlaneStressCurve(testG, Range{Min: -3, Max: 3, Samples: 61}, khps2.DefaultEpsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(curve) != 61 {
		t.Fatalf("len = %d, want 61", len(curve))
	}

	cutoff := khps2.CutoffTriaxiality(testG, 0)
	for _, p := range curve {
		if p.Invariant != 0 {
			t.Fatalf("plane stress curve must hold invariant=0, got %g", p.Invariant)
		}
		if p.Eta < cutoff {
			if !p.Masked || !math.IsNaN(p.Strain) {
				t.Fatalf("point at eta=%g below cutoff %g must be masked", p.Eta, cutoff)
			}
			continue
		}
		want := khps2.FractureStrain(testG, p.Eta, 0, khps2.DefaultEpsilon)
		if p.Masked || p.Strain != want {
			t.Fatalf("point at eta=%g: strain %g, want %g", p.Eta, p.Strain, want)
		}
	}
}

func TestPlaneStressStateCurve(t *testing.T) {
	curve, err := BuildPlaneStressStateCurve(testG, 33, khps2.DefaultEpsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(curve) != 33 {
		t.Fatalf("len = %d, want 33", len(curve))
	}

	first, last := curve[0], curve[len(curve)-1]
	if math.Abs(first.Eta+2.0/3.0) > 1e-12 || math.Abs(last.Eta-2.0/3.0) > 1e-12 {
		t.Errorf("eta endpoints = %g, %g, want -2/3, 2/3", first.Eta, last.Eta)
	}

	for _, p := range curve {
		wantInvar := -13.5 * p.Eta * (p.Eta*p.Eta - 1.0/3.0)
		if math.Abs(p.Invariant-wantInvar) > 1e-12 {
			t.Fatalf("invariant at eta=%g is %g, want %g", p.Eta, p.Invariant, wantInvar)
		}
	}

	mid := curve[len(curve)/2]
	if math.Abs(mid.Eta) > 1e-12 || math.Abs(mid.Invariant) > 1e-12 {
		t.Errorf("midpoint should be pure shear (0,0), got (%g,%g)", mid.Eta, mid.Invariant)
	}
}
