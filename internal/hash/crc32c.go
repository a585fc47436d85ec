package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash"
	"hash/crc32"
)

// TrailerSize is the length of the checksum appended by AppendTrailer.
const TrailerSize = 4

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming Castagnoli hash, for formats written block by
// block such as key map snapshots.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}

// AppendTrailer appends the little-endian checksum of buf to buf.
func AppendTrailer(buf []byte) []byte {
	return binary.LittleEndian.AppendUint32(buf, CRC32C(buf))
}

// CheckTrailer splits data into payload and trailer and reports whether the
// trailer matches the payload.
func CheckTrailer(data []byte) ([]byte, bool) {
	if len(data) < TrailerSize {
		return nil, false
	}
	payload := data[:len(data)-TrailerSize]
	return payload, binary.LittleEndian.Uint32(data[len(payload):]) == CRC32C(payload)
}

// Base64 returns the checksum of data as S3 expects it in
// x-amz-checksum-crc32c: big-endian, base64 encoded.
func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(binary.BigEndian.AppendUint32(nil, CRC32C(data)))
}
