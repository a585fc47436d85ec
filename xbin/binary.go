package xbin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/conv"
	"github.com/hupe1980/posehash/internal/hash"
)

const (
	binaryMagic   = 0x31584850 // "PHX1"
	binaryVersion = 1
	binarySize    = 36
)

// MarshalBinary encodes the parameters of h.
//
// Format (little endian):
//
//	Magic    (4 bytes)
//	Version  (4 bytes)
//	CartResl (8 bytes) - float64 bits
//	MaxCart  (8 bytes) - float64 bits
//	OriNside (4 bytes)
//	KeyBits  (4 bytes)
//	Checksum (4 bytes) - CRC32C of the preceding bytes
func (h *Hash[F]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, binarySize)
	buf = binary.LittleEndian.AppendUint32(buf, binaryMagic)
	buf = binary.LittleEndian.AppendUint32(buf, binaryVersion)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(h.cartResl))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(h.maxCart))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.nside))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.keyBits))
	return hash.AppendTrailer(buf), nil
}

// UnmarshalBinary replaces h with the hash encoded in data.
func (h *Hash[F]) UnmarshalBinary(data []byte) error {
	if len(data) != binarySize {
		return fmt.Errorf("%w: length %d", ErrInvalidData, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != binaryMagic {
		return fmt.Errorf("%w: magic %x", ErrInvalidData, magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != binaryVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if _, ok := hash.CheckTrailer(data); !ok {
		return ErrChecksumMismatch
	}

	cartResl := math.Float64frombits(binary.LittleEndian.Uint64(data[8:16]))
	maxCart := math.Float64frombits(binary.LittleEndian.Uint64(data[16:24]))
	nside := binary.LittleEndian.Uint32(data[24:28])
	keyBits := binary.LittleEndian.Uint32(data[28:32])
	n, err := conv.Uint32ToInt(nside)
	if err != nil || n > MaxOriNside {
		return fmt.Errorf("%w: orientation side count %d", ErrInvalidData, nside)
	}

	decoded, err := NewWithNside[F](cartResl, n, maxCart)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if uint32(decoded.keyBits) != keyBits {
		return fmt.Errorf("%w: key width %d, want %d", ErrInvalidData, keyBits, decoded.keyBits)
	}

	*h = *decoded
	return nil
}

// Decode returns the hash encoded by MarshalBinary.
func Decode[F geom.Float](data []byte) (*Hash[F], error) {
	h := new(Hash[F])
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return h, nil
}
