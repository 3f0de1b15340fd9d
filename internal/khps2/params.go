package khps2

import (
	"fmt"
	"math"
)

// NumParams is the number of material parameters in the KHPS2 criterion.
const NumParams = 6

// Params holds the material parameters G1..G6. It is a value type: a
// calibrated result handed to a caller cannot be mutated through it.
type Params [NumParams]float64

func (p Params) Slice() []float64 {
	s := make([]float64, NumParams)
	copy(s, p[:])
	return s
}

// FromSlice converts a 6-element slice into Params.
func FromSlice(s []float64) (Params, error) {
	var p Params
	if len(s) != NumParams {
		return p, fmt.Errorf("khps2: expected %d parameters, got %d", NumParams, len(s))
	}
	copy(p[:], s)
	return p, nil
}

func (p Params) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (p Params) String() string {
	return fmt.Sprintf("[G1=%g G2=%g G3=%g G4=%g G5=%g G6=%g]",
		p[0], p[1], p[2], p[3], p[4], p[5])
}

// Bounds are componentwise box constraints on Params.
type Bounds struct {
	Lower Params
	Upper Params
}

// WideBounds places no effective constraint on any parameter.
func WideBounds() Bounds {
	var b Bounds
	for i := 0; i < NumParams; i++ {
		b.Lower[i] = math.Inf(-1)
		b.Upper[i] = math.Inf(1)
	}
	return b
}

func (b Bounds) Validate() error {
	for i := 0; i < NumParams; i++ {
		if math.IsNaN(b.Lower[i]) || math.IsNaN(b.Upper[i]) {
			return fmt.Errorf("%w: G%d bound is NaN", ErrNonFinite, i+1)
		}
		if b.Lower[i] > b.Upper[i] {
			return fmt.Errorf("%w: G%d lower %g > upper %g",
				ErrBoundsOrder, i+1, b.Lower[i], b.Upper[i])
		}
	}
	return nil
}

// Check verifies p lies inside the bounds, wrapping ErrOutOfBounds with the
// offending component.
func (b Bounds) Check(p Params) error {
	for i := 0; i < NumParams; i++ {
		if p[i] < b.Lower[i] || p[i] > b.Upper[i] {
			return fmt.Errorf("%w: G%d = %g, bounds [%g, %g]",
				ErrOutOfBounds, i+1, p[i], b.Lower[i], b.Upper[i])
		}
	}
	return nil
}

func (b Bounds) Contains(p Params) bool {
	return b.Check(p) == nil
}

// Clamp projects p componentwise into the bounds.
func (b Bounds) Clamp(p Params) Params {
	for i := 0; i < NumParams; i++ {
		if p[i] < b.Lower[i] {
			p[i] = b.Lower[i]
		} else if p[i] > b.Upper[i] {
			p[i] = b.Upper[i]
		}
	}
	return p
}
