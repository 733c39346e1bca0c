package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDivisionByZero is returned by Vec2.Divide for an exact zero scalar.
	ErrDivisionByZero = errors.New("dynamo: division by zero")

	// ErrInvalidState indicates a particle position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownName indicates a lookup of an unregistered layout or stepper.
	ErrUnknownName = errors.New("dynamo: unknown name")
)

// SimError records a failure observed at a specific frame of a run.
type SimError struct {
	Frame   int
	Time    float64
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}

func boundsError(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrParameterBounds, field, fmt.Sprintf(format, args...))
}
