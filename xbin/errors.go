package xbin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every ConstructionError.
	ErrInvalidParameter = errors.New("xbin: invalid parameter")

	// ErrOutOfBounds is returned when a translation component exceeds MaxCart.
	ErrOutOfBounds = errors.New("xbin: translation out of bounds")

	// ErrNonFinite is returned for transforms with NaN or infinite entries.
	ErrNonFinite = errors.New("xbin: non-finite transform")

	// ErrIndexOutOfRange is returned when a pair refers past the end of its
	// transform slice.
	ErrIndexOutOfRange = errors.New("xbin: pair index out of range")

	// ErrInvalidTag is returned for tags above 3.
	ErrInvalidTag = errors.New("xbin: tag exceeds 2 bits")

	// ErrInvalidKey is returned by Center for keys outside the layout.
	ErrInvalidKey = errors.New("xbin: invalid key")

	// ErrLengthMismatch is returned when parallel input slices differ in length.
	ErrLengthMismatch = errors.New("xbin: length mismatch")

	// ErrInvalidData is returned when decoding malformed binary data.
	ErrInvalidData = errors.New("xbin: invalid data")

	// ErrUnsupportedVersion is returned when decoding an unknown format version.
	ErrUnsupportedVersion = errors.New("xbin: unsupported version")

	// ErrChecksumMismatch is returned when the binary trailer does not match.
	ErrChecksumMismatch = errors.New("xbin: checksum mismatch")
)

// ConstructionError reports a hash parameter that cannot be realized.
type ConstructionError struct {
	Param string
	Value any
	cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("xbin: invalid %s: %v", e.Param, e.Value)
}

func (e *ConstructionError) Unwrap() error { return e.cause }

func invalid(param string, value any) error {
	return &ConstructionError{Param: param, Value: value, cause: ErrInvalidParameter}
}

// DomainError reports the batch element that could not be hashed.
//
// Batched calls return the error of the lowest failing element.
type DomainError struct {
	Index int
	Err   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("xbin: element %d: %v", e.Index, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }
