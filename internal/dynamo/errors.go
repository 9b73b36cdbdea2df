package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a model or integration parameter outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrDimensionMismatch indicates mismatched state and system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvariantViolated indicates a conserved quantity drifted beyond tolerance.
	ErrInvariantViolated = errors.New("dynamo: conserved quantity drifted beyond tolerance")

	// ErrUnknownParameter indicates a SetParam call with a name the system does not expose.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")
)

// ParameterError reports which parameter failed validation.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// InvariantError wraps an invariant violation with the sample that exposed it.
type InvariantError struct {
	Index    int
	Time     float64
	Got      float64
	Expected float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sample %d (t=%.4f): invariant %g, expected %g", e.Index, e.Time, e.Got, e.Expected)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolated
}
