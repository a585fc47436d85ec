// Package keymap provides a concurrent uint64 -> float64 map for scores
// keyed by transform hash keys.
//
// Keys are spread over a power-of-two number of shards, each guarded by its
// own RWMutex, so batched lookups from many goroutines rarely contend. Get
// never inserts: a missing key yields the caller's default.
//
// # Snapshots
//
// A Map serializes to a compact, checksummed stream via WriteTo and restores
// via ReadFrom. Entries are written in key order, in blocks compressed with
// LZ4 or ZSTD:
//
//	m := keymap.New(keymap.WithCompression(keymap.CompressionZSTD))
//	_ = m.Set(keys, scores)
//	_, err := m.WriteTo(f)
//
// The stream format is:
//
//	Magic       (4 bytes) "PHKM"
//	Version     (4 bytes)
//	Compression (1 byte)
//	Reserved    (3 bytes)
//	Count       (8 bytes)
//	Blocks...   [Uncompressed uint32][Compressed uint32][Data...]
//	Checksum    (4 bytes) - CRC32C of the uncompressed entries
//
// Each entry is [Key uint64][Value float64 bits], little endian.
package keymap
