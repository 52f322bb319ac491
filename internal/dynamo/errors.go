package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for rejected simulation input.
var (
	// ErrNonFinite indicates a NaN or Inf value reached the core.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf) rejected")

	// ErrInvalidDelta indicates a frame delta that is not positive and finite.
	ErrInvalidDelta = errors.New("dynamo: frame delta must be positive and finite")

	// ErrOutOfRange indicates a parameter outside its valid bounds.
	ErrOutOfRange = errors.New("dynamo: parameter out of valid range")
)

// InputError wraps a rejected input with the frame it arrived on.
type InputError struct {
	Tick    uint64
	Time    float64
	Field   string
	Wrapped error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) %s: %v", e.Tick, e.Time, e.Field, e.Wrapped)
}

func (e *InputError) Unwrap() error {
	return e.Wrapped
}
