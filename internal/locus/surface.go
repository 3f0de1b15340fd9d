// Package locus samples the calibrated KHPS2 criterion into plotting-ready
// grids and curves, masking the region behind the cut-off plane.
package locus

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fraclocus/internal/khps2"
)

var (
	// ErrRange indicates a sampling range with bad limits or sample count.
	ErrRange = errors.New("locus: invalid sampling range")
)

// Range describes a 1D sampling grid.
type Range struct {
	Min     float64
	Max     float64
	Samples int
}

func (r Range) Validate() error {
	if r.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrRange, r.Samples)
	}
	if !(r.Max > r.Min) {
		return fmt.Errorf("%w: min %g, max %g", ErrRange, r.Min, r.Max)
	}
	return nil
}

// Values returns the Samples evenly spaced values from Min to Max inclusive.
func (r Range) Values() []float64 {
	vals := make([]float64, r.Samples)
	step := (r.Max - r.Min) / float64(r.Samples-1)
	for i := range vals {
		vals[i] = r.Min + float64(i)*step
	}
	vals[r.Samples-1] = r.Max
	return vals
}

// Spec configures a surface build. When ClipStrain is set, strain values
// outside [MinStrain, MaxStrain] are masked along with the cut-off region.
type Spec struct {
	EtaRange       Range
	InvariantRange Range
	Epsilon        float64
	ClipStrain     bool
	MinStrain      float64
	MaxStrain      float64
}

// DefaultSpec samples the ranges the criterion is normally reported over.
func DefaultSpec() Spec {
	return Spec{
		EtaRange:       Range{Min: -3, Max: 3, Samples: 999},
		InvariantRange: Range{Min: -1, Max: 1, Samples: 999},
		Epsilon:        khps2.DefaultEpsilon,
	}
}

// Grid holds parallel 2D arrays over the (eta, invariant) mesh. Rows follow
// the invariant samples, columns the eta samples. Strain is NaN wherever
// Masked is true; Masked is the authoritative flag. Cutoff carries the
// cut-off triaxiality per cell so the cut-off plane itself can be drawn.
type Grid struct {
	Eta       [][]float64
	Invariant [][]float64
	Strain    [][]float64
	Cutoff    [][]float64
	Masked    [][]bool
}

func (g *Grid) Rows() int {
	return len(g.Eta)
}

func (g *Grid) Cols() int {
	if len(g.Eta) == 0 {
		return 0
	}
	return len(g.Eta[0])
}

// CurvePoint is one sample of a locus curve. Strain is NaN when Masked.
type CurvePoint struct {
	Eta       float64
	Invariant float64
	Strain    float64
	Masked    bool
}

type Curve []CurvePoint

// BuildSurface evaluates the locus over the mesh and masks every cell whose
// triaxiality lies below the cut-off at that cell's invariant.
func BuildSurface(g khps2.Params, sp Spec) (*Grid, error) {
	if err := sp.EtaRange.Validate(); err != nil {
		return nil, err
	}
	if err := sp.InvariantRange.Validate(); err != nil {
		return nil, err
	}

	etaVals := sp.EtaRange.Values()
	invarVals := sp.InvariantRange.Values()
	rows, cols := len(invarVals), len(etaVals)

	grid := &Grid{
		Eta:       make([][]float64, rows),
		Invariant: make([][]float64, rows),
		Strain:    make([][]float64, rows),
		Cutoff:    make([][]float64, rows),
		Masked:    make([][]bool, rows),
	}

	for i := 0; i < rows; i++ {
		grid.Eta[i] = make([]float64, cols)
		grid.Invariant[i] = make([]float64, cols)
		grid.Strain[i] = make([]float64, cols)
		grid.Cutoff[i] = make([]float64, cols)
		grid.Masked[i] = make([]bool, cols)

		invar := invarVals[i]
		cutoff := khps2.CutoffTriaxiality(g, invar)

		for j := 0; j < cols; j++ {
			eta := etaVals[j]
			grid.Eta[i][j] = eta
			grid.Invariant[i][j] = invar
			grid.Cutoff[i][j] = cutoff

			strain := khps2.FractureStrain(g, eta, invar, sp.Epsilon)
			if eta < cutoff || sp.clipped(strain) {
				grid.Strain[i][j] = math.NaN()
				grid.Masked[i][j] = true
			} else {
				grid.Strain[i][j] = strain
			}
		}
	}
	return grid, nil
}

func (sp Spec) clipped(strain float64) bool {
	return sp.ClipStrain && (strain < sp.MinStrain || strain > sp.MaxStrain)
}

// BuildPlaneStressCurve evaluates the locus along invariant = 0 over the eta
// range, with the same cut-off masking rule as the surface.
func BuildPlaneStressCurve(g khps2.Params, etaRange Range, eps float64) (Curve, error) {
	if err := etaRange.Validate(); err != nil {
		return nil, err
	}

	cutoff := khps2.CutoffTriaxiality(g, 0)
	curve := make(Curve, etaRange.Samples)
	for i, eta := range etaRange.Values() {
		p := CurvePoint{Eta: eta, Invariant: 0}
		strain := khps2.FractureStrain(g, eta, 0, eps)
		if eta < cutoff {
			p.Strain = math.NaN()
			p.Masked = true
		} else {
			p.Strain = strain
		}
		curve[i] = p
	}
	return curve, nil
}

// BuildPlaneStressStateCurve follows the plane-stress loading path, where the
// invariant is tied to the triaxiality by invar = -27/2*eta*(eta^2 - 1/3)
// over eta in [-2/3, 2/3]. Masking matches the surface rule.
func BuildPlaneStressStateCurve(g khps2.Params, samples int, eps float64) (Curve, error) {
	r := Range{Min: -2.0 / 3.0, Max: 2.0 / 3.0, Samples: samples}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	curve := make(Curve, samples)
	for i, eta := range r.Values() {
		invar := -13.5 * eta * (eta*eta - 1.0/3.0)
		p := CurvePoint{Eta: eta, Invariant: invar}
		strain := khps2.FractureStrain(g, eta, invar, eps)
		if eta < khps2.CutoffTriaxiality(g, invar) {
			p.Strain = math.NaN()
			p.Masked = true
		} else {
			p.Strain = strain
		}
		curve[i] = p
	}
	return curve, nil
}
