package khps2

import "errors"

// Domain errors for parameter handling.
var (
	// ErrBoundsOrder indicates a lower bound above its upper bound.
	ErrBoundsOrder = errors.New("khps2: lower bound above upper bound")

	// ErrOutOfBounds indicates a parameter value outside its bounds.
	ErrOutOfBounds = errors.New("khps2: parameter outside bounds")

	// ErrNonFinite indicates a NaN parameter or bound.
	ErrNonFinite = errors.New("khps2: non-finite parameter value")
)
