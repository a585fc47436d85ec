package keymap

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/hupe1980/posehash/internal/conv"
	"github.com/hupe1980/posehash/internal/hash"
)

const (
	snapshotMagic   = 0x4d4b4850 // "PHKM"
	snapshotVersion = 1

	headerSize  = 20
	entrySize   = 16
	blockLength = 16 * 1024 // entries per block
)

type entry struct {
	key   uint64
	value float64
}

// WriteTo writes a snapshot of m to w. Concurrent writers may or may not be
// reflected; each shard is captured atomically.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	entries := make([]entry, 0, m.Len())
	m.Range(func(k uint64, v float64) bool {
		entries = append(entries, entry{k, v})
		return true
	})
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	header := make([]byte, 0, headerSize)
	header = binary.LittleEndian.AppendUint32(header, snapshotMagic)
	header = binary.LittleEndian.AppendUint32(header, snapshotVersion)
	header = append(header, byte(m.compression), 0, 0, 0)
	header = binary.LittleEndian.AppendUint64(header, uint64(len(entries)))

	var written int64
	n, err := w.Write(header)
	written += int64(n)
	if err != nil {
		return written, err
	}

	crc := hash.NewCRC32C()
	raw := make([]byte, 0, blockLength*entrySize)
	var block []byte
	for lo := 0; lo < len(entries); lo += blockLength {
		raw = raw[:0]
		for _, e := range entries[lo:min(lo+blockLength, len(entries))] {
			raw = binary.LittleEndian.AppendUint64(raw, e.key)
			raw = binary.LittleEndian.AppendUint64(raw, math.Float64bits(e.value))
		}
		_, _ = crc.Write(raw)

		block, err = appendBlock(block[:0], raw, m.compression)
		if err != nil {
			return written, err
		}
		n, err = w.Write(block)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	n, err = w.Write(binary.LittleEndian.AppendUint32(nil, crc.Sum32()))
	written += int64(n)
	if err != nil {
		return written, err
	}

	m.logger.Debug("keymap snapshot written",
		"entries", len(entries),
		"bytes", written,
		"compression", m.compression.String(),
	)
	return written, nil
}

// ReadFrom replaces the contents of m with the snapshot read from r.
func (m *Map) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(cr, header); err != nil {
		return cr.n, corrupt("header: %v", err)
	}
	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != snapshotMagic {
		return cr.n, corrupt("magic %x", magic)
	}
	if version := binary.LittleEndian.Uint32(header[4:8]); version != snapshotVersion {
		return cr.n, corrupt("version %d", version)
	}
	compression := Compression(header[8])
	count := binary.LittleEndian.Uint64(header[12:20])
	n, err := conv.Uint64ToInt(count)
	if err != nil {
		return cr.n, corrupt("entry count: %v", err)
	}

	entries := make([]entry, 0, min(n, blockLength))
	crc := hash.NewCRC32C()
	blockHeader := make([]byte, blockHeaderSize)
	for len(entries) < n {
		if _, err := io.ReadFull(cr, blockHeader); err != nil {
			return cr.n, corrupt("block header: %v", err)
		}
		rawSize := binary.LittleEndian.Uint32(blockHeader[0:4])
		packedSize := binary.LittleEndian.Uint32(blockHeader[4:8])
		if rawSize == 0 || rawSize%entrySize != 0 || rawSize > blockLength*entrySize {
			return cr.n, corrupt("block size %d", rawSize)
		}
		// Blocks that do not compress are stored raw.
		if packedSize > rawSize {
			return cr.n, corrupt("packed block size %d, raw %d", packedSize, rawSize)
		}

		bodySize := packedSize
		if packedSize == 0 {
			bodySize = rawSize
		}
		body := make([]byte, bodySize)
		if _, err := io.ReadFull(cr, body); err != nil {
			return cr.n, corrupt("block: %v", err)
		}

		raw := body
		if packedSize != 0 {
			if raw, err = decodeBlock(body, rawSize, compression); err != nil {
				return cr.n, corrupt("block: %v", err)
			}
		}
		_, _ = crc.Write(raw)

		for off := 0; off < len(raw); off += entrySize {
			entries = append(entries, entry{
				key:   binary.LittleEndian.Uint64(raw[off:]),
				value: math.Float64frombits(binary.LittleEndian.Uint64(raw[off+8:])),
			})
		}
	}
	if len(entries) != n {
		return cr.n, corrupt("%d entries, want %d", len(entries), n)
	}

	trailer := make([]byte, 4)
	if _, err := io.ReadFull(cr, trailer); err != nil {
		return cr.n, corrupt("checksum: %v", err)
	}
	if binary.LittleEndian.Uint32(trailer) != crc.Sum32() {
		return cr.n, corrupt("checksum mismatch")
	}

	m.Clear()
	for _, e := range entries {
		m.Store(e.key, e.value)
	}

	m.logger.Debug("keymap snapshot read",
		"entries", len(entries),
		"bytes", cr.n,
		"compression", compression.String(),
	)
	return cr.n, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
