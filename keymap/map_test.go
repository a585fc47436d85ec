package keymap

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/posehash/testutil"
)

func TestMapBasic(t *testing.T) {
	m := New()

	_, ok := m.Load(42)
	assert.False(t, ok)

	m.Store(42, 1.5)
	v, ok := m.Load(42)
	require.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.Delete(42))
	assert.False(t, m.Delete(42))
	assert.Zero(t, m.Len())
}

func TestMapGetDefault(t *testing.T) {
	m := New()
	require.NoError(t, m.Set([]uint64{1, 2, 3}, []float64{10, 20, 30}))

	got := m.Get([]uint64{3, 4, 1, 5}, -7)
	assert.Equal(t, []float64{30, -7, 10, -7}, got)

	// Misses do not insert.
	assert.Equal(t, 3, m.Len())
}

func TestMapSetLastWins(t *testing.T) {
	m := New()
	require.NoError(t, m.Set([]uint64{9, 9, 9}, []float64{1, 2, 3}))
	v, _ := m.Load(9)
	assert.Equal(t, 3.0, v)

	assert.ErrorIs(t, m.Set([]uint64{1}, nil), ErrLengthMismatch)
}

func TestMapShards(t *testing.T) {
	assert.Len(t, New().shards, DefaultShards)
	assert.Len(t, New(WithShards(5)).shards, 8)
	assert.Len(t, New(WithShards(1)).shards, 1)
	assert.Len(t, New(WithShards(0)).shards, 1)
}

func TestMapRangeAndClear(t *testing.T) {
	m := New(WithShards(4))
	for i := uint64(0); i < 100; i++ {
		m.Store(i, float64(i))
	}

	sum := 0.0
	m.Range(func(k uint64, v float64) bool {
		assert.Equal(t, float64(k), v)
		sum += v
		return true
	})
	assert.Equal(t, 4950.0, sum)

	visited := 0
	m.Range(func(uint64, float64) bool {
		visited++
		return visited < 10
	})
	assert.Equal(t, 10, visited)

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestMapConcurrent(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := uint64(w*1000 + i)
				m.Store(k, float64(k))
				_ = m.Get([]uint64{k, k + 1}, 0)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8000, m.Len())
}

func TestSnapshotRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(12)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			m := New(WithCompression(c))
			// Enough entries for several blocks; small keys compress well.
			keys := make([]uint64, 40000)
			values := make([]float64, len(keys))
			for i := range keys {
				keys[i] = uint64(i) * 3
				values[i] = float64(rng.Intn(8))
			}
			require.NoError(t, m.Set(keys, values))

			var buf bytes.Buffer
			n, err := m.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			restored := New()
			restored.Store(1, 99)
			rn, err := restored.ReadFrom(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, n, rn)

			assert.Equal(t, m.Len(), restored.Len())
			assert.Equal(t, values, restored.Get(keys, -1))
			_, ok := restored.Load(1)
			assert.False(t, ok)
		})
	}
}

func TestSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := New().WriteTo(&buf)
	require.NoError(t, err)

	m := New()
	_, err = m.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

func TestSnapshotDeterministic(t *testing.T) {
	a := New(WithShards(2))
	b := New(WithShards(32))
	for i := uint64(0); i < 500; i++ {
		a.Store(i*7, float64(i))
		b.Store(i*7, float64(i))
	}

	var ba, bb bytes.Buffer
	_, err := a.WriteTo(&ba)
	require.NoError(t, err)
	_, err = b.WriteTo(&bb)
	require.NoError(t, err)
	assert.Equal(t, ba.Bytes(), bb.Bytes())
}

func TestSnapshotCorrupt(t *testing.T) {
	m := New(WithCompression(CompressionNone))
	for i := uint64(0); i < 100; i++ {
		m.Store(i, float64(i))
	}
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	data := buf.Bytes()

	cases := map[string][]byte{
		"empty":     nil,
		"truncated": data[:len(data)-10],
		"magic":     flip(data, 0),
		"version":   flip(data, 4),
		"payload":   flip(data, headerSize+blockHeaderSize+3),
		"checksum":  flip(data, len(data)-1),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			target := New()
			target.Store(5, 5)
			_, err := target.ReadFrom(bytes.NewReader(b))
			assert.ErrorIs(t, err, ErrCorruptSnapshot)

			// A failed read leaves the map untouched.
			v, ok := target.Load(5)
			assert.True(t, ok)
			assert.Equal(t, 5.0, v)
		})
	}
}

func flip(data []byte, i int) []byte {
	out := bytes.Clone(data)
	out[i] ^= 0xff
	return out
}

func TestSnapshotOversizedBlockHeader(t *testing.T) {
	header := func(count uint64, rawSize, packedSize uint32) []byte {
		b := binary.LittleEndian.AppendUint32(nil, snapshotMagic)
		b = binary.LittleEndian.AppendUint32(b, snapshotVersion)
		b = append(b, byte(CompressionLZ4), 0, 0, 0)
		b = binary.LittleEndian.AppendUint64(b, count)
		b = binary.LittleEndian.AppendUint32(b, rawSize)
		return binary.LittleEndian.AppendUint32(b, packedSize)
	}

	cases := map[string][]byte{
		"packed size":     header(1, 16, 1<<30),
		"packed over raw": header(1, 16, 17),
		"entry count":     header(1<<40, 16, 0),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			m := New()
			_, err := m.ReadFrom(bytes.NewReader(data))

			runtime.ReadMemStats(&after)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
		})
	}
}
