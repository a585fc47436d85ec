package keymap

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"math/bits"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sys/cpu"

	"github.com/hupe1980/posehash/internal/parallel"
)

// DefaultShards is the shard count of a Map created without WithShards.
const DefaultShards = 64

var (
	// ErrLengthMismatch is returned by Set when keys and values differ in length.
	ErrLengthMismatch = errors.New("keymap: length mismatch")

	// ErrCorruptSnapshot is wrapped by every snapshot decoding failure.
	ErrCorruptSnapshot = errors.New("keymap: corrupt snapshot")
)

type shard struct {
	mu sync.RWMutex
	m  map[uint64]float64
	_  cpu.CacheLinePad
}

// Map is a sharded concurrent uint64 -> float64 map.
type Map struct {
	shards      []shard
	mask        uint64
	compression Compression
	logger      *slog.Logger
}

type options struct {
	shards      int
	compression Compression
	logger      *slog.Logger
}

// Option configures a Map.
type Option func(*options)

// WithShards sets the shard count, rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithCompression sets the block codec used by WriteTo. Default: LZ4.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the logger for snapshot events. nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an empty map.
func New(opts ...Option) *Map {
	o := options{
		shards:      DefaultShards,
		compression: CompressionLZ4,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	n := 1
	if o.shards > 1 {
		n = 1 << bits.Len(uint(o.shards-1))
	}

	m := &Map{
		shards:      make([]shard, n),
		mask:        uint64(n - 1),
		compression: o.compression,
		logger:      o.logger,
	}
	for i := range m.shards {
		m.shards[i].m = make(map[uint64]float64)
	}
	return m
}

// shard picks the shard of key from the upper half of its xxh3 hash.
func (m *Map) shard(key uint64) *shard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return &m.shards[(xxh3.Hash(buf[:])>>32)&m.mask]
}

// Load returns the value stored for key.
func (m *Map) Load(key uint64) (float64, bool) {
	s := m.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Store sets the value for key.
func (m *Map) Store(key uint64, value float64) {
	s := m.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key uint64) bool {
	s := m.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	delete(s.m, key)
	return ok
}

// Get returns the value of every key, or def for missing keys. It never
// modifies the map.
func (m *Map) Get(keys []uint64, def float64) []float64 {
	out := make([]float64, len(keys))
	_ = parallel.For(len(keys), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			v, ok := m.Load(keys[i])
			if !ok {
				v = def
			}
			out[i] = v
		}
		return nil
	})
	return out
}

// Set stores values[i] under keys[i] in order, so the last of duplicate keys
// wins.
func (m *Map) Set(keys []uint64, values []float64) error {
	if len(keys) != len(values) {
		return ErrLengthMismatch
	}
	for i, k := range keys {
		m.Store(k, values[i])
	}
	return nil
}

// Len returns the number of entries.
func (m *Map) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Range calls fn for every entry until fn returns false. Each shard is
// read-locked while it is visited, so fn must not write to the map.
func (m *Map) Range(fn func(key uint64, value float64) bool) {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for k, v := range s.m {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Clear removes all entries.
func (m *Map) Clear() {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		clear(s.m)
		s.mu.Unlock()
	}
}
