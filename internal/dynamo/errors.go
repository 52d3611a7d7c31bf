package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig     = errors.New("dynamo: invalid run configuration")
	ErrInvalidState      = errors.New("dynamo: state is NaN or Inf")
	ErrStepRejected      = errors.New("dynamo: adaptive step rejected")
	ErrStepTooSmall      = errors.New("dynamo: adaptive step below minimum")
	ErrDimensionMismatch = errors.New("dynamo: state and system dimensions differ")
)

// SimulationError records where a run stopped. The state is the last
// accepted one.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("dynamo: step %d at t=%.6g: %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }
