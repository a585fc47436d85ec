package hier

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every ConstructionError.
	ErrInvalidParameter = errors.New("hier: invalid parameter")

	// ErrDepthOutOfRange is returned when a depth has no representable index space.
	ErrDepthOutOfRange = errors.New("hier: depth out of range")

	// ErrLengthMismatch is returned when parallel input slices differ in length.
	ErrLengthMismatch = errors.New("hier: length mismatch")
)

// ConstructionError reports a degenerate hierarchy parameter.
//
// The underlying error can be accessed via errors.Unwrap and always matches
// ErrInvalidParameter.
type ConstructionError struct {
	Param string
	Value any
	cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("hier: invalid %s: %v", e.Param, e.Value)
}

func (e *ConstructionError) Unwrap() error { return e.cause }

func invalid(param string, value any) error {
	return &ConstructionError{Param: param, Value: value, cause: ErrInvalidParameter}
}
