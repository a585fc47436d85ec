// Package codec encodes table manifests.
//
// A manifest is stored as an envelope: the codec name, a newline, then the
// encoded body. Decode picks the codec from the envelope, so a table written
// with one built-in codec opens with any other configured.
package codec

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrUnknownCodec is returned by Decode for an envelope naming a codec
	// that is not built in.
	ErrUnknownCodec = errors.New("codec: unknown codec")

	// ErrMissingHeader is returned by Decode for data without a codec name.
	ErrMissingHeader = errors.New("codec: missing header")
)

// Codec encodes and decodes manifest values. Implementations must be safe
// for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns the built-in codec registered under name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Encode marshals v with c and wraps it in an envelope. A nil c selects
// Default.
func Encode(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	body, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	out := make([]byte, 0, len(c.Name())+1+len(body))
	out = append(out, c.Name()...)
	out = append(out, '\n')
	return append(out, body...), nil
}

// Decode unmarshals the envelope data into v with the codec it names and
// returns that codec.
func Decode(data []byte, v any) (Codec, error) {
	name, body, ok := bytes.Cut(data, []byte{'\n'})
	if !ok || len(name) == 0 {
		return nil, ErrMissingHeader
	}
	c, ok := ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	if err := c.Unmarshal(body, v); err != nil {
		return c, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return c, nil
}
