package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a sample containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidStep indicates a step size that is zero, negative, NaN or Inf.
	ErrInvalidStep = errors.New("dynamo: step size must be positive and finite")

	// ErrInvalidSpan indicates a time span whose end precedes its start, or
	// one too far from zero for the step to advance the clock.
	ErrInvalidSpan = errors.New("dynamo: invalid time span")

	// ErrZeroEnergy indicates an initial condition with zero energy, for
	// which relative drift is undefined.
	ErrZeroEnergy = errors.New("dynamo: initial energy is zero")

	// ErrUnknownScheme indicates a scheme name or value outside the known set.
	ErrUnknownScheme = errors.New("dynamo: unknown integration scheme")

	// ErrEmptyTrajectory indicates a trajectory with no samples.
	ErrEmptyTrajectory = errors.New("dynamo: empty trajectory")
)

// RunError wraps an error with the run it came from.
type RunError struct {
	Scheme   Scheme
	StepSize float64
	Wrapped  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s (h=%g): %v", e.Scheme, e.StepSize, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
