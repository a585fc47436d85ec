package posehash

import (
	"log/slog"

	"github.com/hupe1980/posehash/codec"
	"github.com/hupe1980/posehash/keymap"
	"github.com/hupe1980/posehash/xbin"
)

type options struct {
	codec            codec.Codec
	params           *xbin.Params
	compression      keymap.Compression
	shards           int
	ioLimit          int64
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		compression:      keymap.CompressionLZ4,
		shards:           keymap.DefaultShards,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures Open.
type Option func(*options)

// WithCodec configures the codec used for newly written manifests.
// Existing manifests are decoded with the codec named in their header.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithParams sets the hash parameters of a new table. Opening an existing
// table with different parameters fails with *ErrParamsMismatch.
//
// Default: xbin.DefaultParams.
func WithParams(p xbin.Params) Option {
	return func(o *options) {
		o.params = &p
	}
}

// WithCompression sets the block codec of key map snapshots.
func WithCompression(c keymap.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithShards sets the shard count of the in-memory key map.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithIOLimit limits blob reads and writes to bytesPerSec.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
//	metrics := &posehash.BasicMetricsCollector{}
//	t, _ := posehash.Open(ctx, store, "contacts", posehash.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
