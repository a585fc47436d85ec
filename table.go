package posehash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/posehash/blobstore"
	"github.com/hupe1980/posehash/codec"
	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/resource"
	"github.com/hupe1980/posehash/keymap"
	"github.com/hupe1980/posehash/xbin"
)

const (
	manifestBlob = "MANIFEST"
	hashBlob     = "hash.bin"
)

var (
	_ xbin.Getter = (*keymap.Map)(nil)
	_ xbin.Setter = (*keymap.Map)(nil)
)

// manifest is the root record of a committed table. It is written last, so
// a table is always opened at its latest complete commit.
type manifest struct {
	Version     uint64      `json:"version"`
	Params      xbin.Params `json:"params"`
	KeyBits     int         `json:"key_bits"`
	Snapshot    string      `json:"snapshot"`
	Entries     int         `json:"entries"`
	Compression string      `json:"compression"`
	CommittedAt time.Time   `json:"committed_at"`
}

// Table is a persistent score table keyed by relative pose. Each entry maps
// the hash key of inverse(x1)*x2 to a float64.
//
// Lookups and inserts are safe for concurrent use. Commit writes a
// consistent snapshot and may run concurrently with both.
type Table struct {
	name  string
	store blobstore.Store
	hash  *xbin.Hash[float64]
	keys  *keymap.Map
	ctrl  *resource.Controller
	opts  options
	log   *Logger

	mu       sync.Mutex // serializes commits
	version  uint64
	snapshot string

	dirty  atomic.Bool
	closed atomic.Bool
}

// Open opens the table name in store, creating an empty one if no commit
// exists yet.
func Open(ctx context.Context, store blobstore.Store, name string, opts ...Option) (*Table, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{
		name:  name,
		store: store,
		keys: keymap.New(
			keymap.WithShards(o.shards),
			keymap.WithCompression(o.compression),
			keymap.WithLogger(o.logger.Logger),
		),
		ctrl: resource.NewController(resource.Config{IOLimitBytesPerSec: o.ioLimit}),
		opts: o,
		log:  o.logger.WithTable(name),
	}

	err := t.load(ctx, o.params)
	t.log.LogOpen(ctx, t.version, t.keys.Len(), err)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) load(ctx context.Context, requested *xbin.Params) error {
	data, err := t.get(ctx, manifestBlob)
	if errors.Is(err, blobstore.ErrNotFound) {
		p := xbin.DefaultParams
		if requested != nil {
			p = *requested
		}
		h, err := xbin.NewFromParams[float64](p)
		if err != nil {
			return err
		}
		t.hash = h
		return nil
	}
	if err != nil {
		return err
	}

	m, err := decodeManifest(data)
	if err != nil {
		return err
	}

	data, err = t.get(ctx, hashBlob)
	if err != nil {
		return err
	}
	h, err := xbin.Decode[float64](data)
	if err != nil {
		return blobError("decode", hashBlob, err)
	}
	if h.KeyBits() != m.KeyBits {
		return fmt.Errorf("%w: key width %d, hash %d", ErrCorruptManifest, m.KeyBits, h.KeyBits())
	}
	if requested != nil {
		want, err := xbin.NewFromParams[float64](*requested)
		if err != nil {
			return err
		}
		if !sameBins(want, h) {
			return &ErrParamsMismatch{Stored: h.Params(), Requested: *requested}
		}
	}

	data, err = t.get(ctx, m.Snapshot)
	if err != nil {
		return err
	}
	if _, err := t.keys.ReadFrom(bytes.NewReader(data)); err != nil {
		return blobError("decode", m.Snapshot, err)
	}

	t.hash = h
	t.version = m.Version
	t.snapshot = m.Snapshot
	return nil
}

// sameBins reports whether a and b assign identical keys.
func sameBins(a, b *xbin.Hash[float64]) bool {
	return a.CartResl() == b.CartResl() &&
		a.OriNside() == b.OriNside() &&
		a.MaxCart() == b.MaxCart()
}

func (t *Table) path(blob string) string {
	return path.Join(t.name, blob)
}

func (t *Table) get(ctx context.Context, blob string) ([]byte, error) {
	data, err := t.store.Get(ctx, t.path(blob))
	if err != nil {
		return nil, blobError("read", blob, err)
	}
	if err := t.ctrl.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (t *Table) put(ctx context.Context, blob string, data []byte) error {
	return blobError("write", blob, t.store.Put(ctx, t.path(blob), data))
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Hash returns the transform hash that keys the table.
func (t *Table) Hash() *xbin.Hash[float64] { return t.hash }

// Len returns the number of entries.
func (t *Table) Len() int { return t.keys.Len() }

// Version returns the version of the last commit (0 before the first).
func (t *Table) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Lookup returns, for each pair (i, j), the value stored under the relative
// pose inverse(xs1[i])*xs2[j], or def.
func (t *Table) Lookup(ctx context.Context, pairs [][2]int, xs1, xs2 []geom.Xform[float64], def float64) ([]float64, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	vals, err := t.hash.MapOfPairs(t.keys, pairs, xs1, xs2, def)
	t.recordLookup(ctx, len(pairs), vals, def, start, err)
	return vals, err
}

// LookupTagged is Lookup with tags1[i] and tags2[j] packed into the keys.
func (t *Table) LookupTagged(ctx context.Context, pairs [][2]int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[float64], def float64) ([]float64, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	vals, err := t.hash.TaggedMapOfPairs(t.keys, pairs, tags1, tags2, xs1, xs2, def)
	t.recordLookup(ctx, len(pairs), vals, def, start, err)
	return vals, err
}

func (t *Table) recordLookup(ctx context.Context, pairs int, vals []float64, def float64, start time.Time, err error) {
	hits := 0
	for _, v := range vals {
		if v != def && !(math.IsNaN(v) && math.IsNaN(def)) {
			hits++
		}
	}
	t.opts.metricsCollector.RecordLookup(pairs, hits, time.Since(start), err)
	t.log.LogLookup(ctx, pairs, hits, err)
}

// Insert stores values[k] under the relative pose of pairs[k]. Pairs that
// share a key keep the last value.
func (t *Table) Insert(ctx context.Context, pairs [][2]int, xs1, xs2 []geom.Xform[float64], values []float64) error {
	if t.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	keys, err := t.hash.KeysOfPairs(pairs, xs1, xs2)
	if err == nil {
		err = t.set(keys, values)
	}
	t.opts.metricsCollector.RecordInsert(len(pairs), time.Since(start), err)
	t.log.LogInsert(ctx, len(pairs), err)
	return err
}

// InsertTagged is Insert with tags1[i] and tags2[j] packed into the keys.
func (t *Table) InsertTagged(ctx context.Context, pairs [][2]int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[float64], values []float64) error {
	if t.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	keys, err := t.hash.TaggedKeysOfPairs(pairs, tags1, tags2, xs1, xs2)
	if err == nil {
		err = t.set(keys, values)
	}
	t.opts.metricsCollector.RecordInsert(len(pairs), time.Since(start), err)
	t.log.LogInsert(ctx, len(pairs), err)
	return err
}

func (t *Table) set(keys []uint64, values []float64) error {
	if err := t.keys.Set(keys, values); err != nil {
		return err
	}
	t.dirty.Store(true)
	return nil
}

// Commit persists the table: a new key map snapshot, then the manifest that
// points at it. A commit without changes since the previous one is a no-op.
func (t *Table) Commit(ctx context.Context) error {
	if t.closed.Load() {
		return ErrClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	n, err := t.commit(ctx)
	t.opts.metricsCollector.RecordCommit(n, time.Since(start), err)
	t.log.LogCommit(ctx, t.version, t.keys.Len(), n, err)
	return err
}

func (t *Table) commit(ctx context.Context) (int, error) {
	if t.version > 0 && !t.dirty.Load() {
		return 0, nil
	}
	t.dirty.Store(false)

	written, err := t.writeCommit(ctx)
	if err != nil {
		t.dirty.Store(true)
		return 0, err
	}
	return written, nil
}

func (t *Table) writeCommit(ctx context.Context) (int, error) {
	written := 0
	if t.version == 0 {
		data, err := t.hash.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if err := t.ctrl.AcquireIO(ctx, len(data)); err != nil {
			return 0, err
		}
		if err := t.put(ctx, hashBlob, data); err != nil {
			return 0, err
		}
		written += len(data)
	}

	next := t.version + 1
	snapshot := fmt.Sprintf("keymap-%020d.bin", next)

	var buf bytes.Buffer
	if _, err := t.keys.WriteTo(resource.NewRateLimitedWriter(ctx, &buf, t.ctrl)); err != nil {
		return 0, err
	}
	if err := t.put(ctx, snapshot, buf.Bytes()); err != nil {
		return 0, err
	}
	written += buf.Len()

	n, err := t.writeManifest(ctx, next, snapshot)
	if err != nil {
		// Not referenced by any manifest. A retry writes the same name.
		t.deleteBlob(context.WithoutCancel(ctx), snapshot)
		return 0, err
	}
	written += n

	if t.snapshot != "" {
		t.deleteBlob(ctx, t.snapshot)
	}
	t.version = next
	t.snapshot = snapshot
	return written, nil
}

func (t *Table) writeManifest(ctx context.Context, version uint64, snapshot string) (int, error) {
	data, err := codec.Encode(t.opts.codec, manifest{
		Version:     version,
		Params:      t.hash.Params(),
		KeyBits:     t.hash.KeyBits(),
		Snapshot:    snapshot,
		Entries:     t.keys.Len(),
		Compression: t.opts.compression.String(),
		CommittedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	if err := t.ctrl.AcquireIO(ctx, len(data)); err != nil {
		return 0, err
	}
	if err := t.put(ctx, manifestBlob, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// deleteBlob removes a snapshot no manifest points at. Failures only leave
// garbage behind and are logged.
func (t *Table) deleteBlob(ctx context.Context, blob string) {
	if err := t.store.Delete(ctx, t.path(blob)); err != nil {
		t.log.WarnContext(ctx, "stale snapshot not deleted",
			"snapshot", blob,
			"error", err,
		)
	}
}

// Close releases the table. Uncommitted changes are discarded.
func (t *Table) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if t.dirty.Load() {
		t.log.Warn("closing table with uncommitted changes",
			"entries", t.keys.Len(),
		)
	}
	t.keys.Clear()
	return nil
}

func decodeManifest(data []byte) (manifest, error) {
	var m manifest
	_, err := codec.Decode(data, &m)
	if errors.Is(err, codec.ErrUnknownCodec) {
		return m, err
	}
	if err != nil {
		return m, fmt.Errorf("%w: %w", ErrCorruptManifest, err)
	}
	if m.Version == 0 || m.Snapshot == "" {
		return m, fmt.Errorf("%w: version %d, snapshot %q", ErrCorruptManifest, m.Version, m.Snapshot)
	}
	return m, nil
}
