package search

import (
	"log/slog"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/posehash/internal/resource"
)

const (
	// DefaultBeam is the number of cells refined per depth.
	DefaultBeam = 1000

	// DefaultMaxDepth is the deepest level scored.
	DefaultMaxDepth = 3

	// DefaultBatchSize is the number of transforms per scoring call.
	DefaultBatchSize = 4096
)

type options struct {
	beam      int
	maxDepth  int
	batchSize int
	null      float64
	exclude   map[int]*roaring64.Bitmap
	radius    float64
	lever     float64
	ctrl      *resource.Controller
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		beam:      DefaultBeam,
		maxDepth:  DefaultMaxDepth,
		batchSize: DefaultBatchSize,
		lever:     1,
	}
}

// Option configures Run.
type Option func(*options)

// WithBeam sets how many cells are refined per depth.
func WithBeam(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.beam = n
		}
	}
}

// WithMaxDepth sets the deepest level scored. It is clamped to the
// hierarchy's MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth >= 0 {
			o.maxDepth = depth
		}
	}
}

// WithBatchSize sets the number of transforms handed to one scoring call.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithNullScore sets the score that marks a cell as rejected. Rejected
// cells are never refined and never returned. Default: 0.
func WithNullScore(v float64) Option {
	return func(o *options) {
		o.null = v
	}
}

// WithExclude skips the cells in bm at depth. Excluded cells are neither
// scored nor refined.
func WithExclude(depth int, bm *roaring64.Bitmap) Option {
	return func(o *options) {
		if bm == nil {
			return
		}
		if o.exclude == nil {
			o.exclude = make(map[int]*roaring64.Bitmap)
		}
		o.exclude[depth] = bm
	}
}

// WithClusterRadius thins the final hits with cluster.CookieCutterXforms.
// lever converts rotation difference (Frobenius norm) to length.
func WithClusterRadius(radius, lever float64) Option {
	return func(o *options) {
		o.radius = radius
		o.lever = lever
	}
}

// WithConcurrency limits concurrent scoring calls to n.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.ctrl = resource.NewController(resource.Config{MaxWorkers: int64(n)})
		}
	}
}

// WithController shares a resource controller between runs. Its worker
// slots bound scoring calls and its memory limit bounds the candidate
// buffers of a depth.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.ctrl = c
	}
}

// WithLogger sets the logger for per-depth progress. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) finish() {
	if o.ctrl == nil {
		o.ctrl = resource.NewController(resource.Config{MaxWorkers: int64(runtime.GOMAXPROCS(0))})
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
}
