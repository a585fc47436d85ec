package posehash

import (
	"errors"
	"fmt"

	"github.com/hupe1980/posehash/codec"
	"github.com/hupe1980/posehash/xbin"
)

var (
	// ErrClosed is returned by operations on a closed table.
	ErrClosed = errors.New("posehash: table closed")

	// ErrUnknownCodec is returned when a manifest names a codec that is not
	// built in.
	ErrUnknownCodec = codec.ErrUnknownCodec

	// ErrCorruptManifest is returned when a manifest cannot be decoded.
	ErrCorruptManifest = errors.New("posehash: corrupt manifest")

	// ErrInvalidName is returned for an empty table name.
	ErrInvalidName = errors.New("posehash: invalid table name")
)

// ErrParamsMismatch indicates that an existing table was opened with hash
// parameters that differ from the stored ones.
type ErrParamsMismatch struct {
	Stored    xbin.Params
	Requested xbin.Params
}

func (e *ErrParamsMismatch) Error() string {
	return fmt.Sprintf("hash parameters mismatch: stored %+v, requested %+v", e.Stored, e.Requested)
}

// ErrBlob indicates a failed read or write of one of the table's blobs.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrBlob struct {
	Name  string
	Op    string
	cause error
}

func (e *ErrBlob) Error() string {
	return fmt.Sprintf("%s blob %q: %v", e.Op, e.Name, e.cause)
}

func (e *ErrBlob) Unwrap() error { return e.cause }

func blobError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &ErrBlob{Name: name, Op: op, cause: err}
}
