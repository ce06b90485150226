package geojsonvt

import (
	"log/slog"
	"math"

	"github.com/cockroachdb/errors"
)

// MaxZoomLimit is the deepest zoom that can be simplified and indexed.
const MaxZoomLimit = 24

var ErrInvalidOptions = errors.New("geojsonvt: invalid options")

type Options struct {
	// MaxZoom is the deepest zoom with its own simplification pass. Deeper
	// tiles reuse its geometry without further simplification.
	MaxZoom uint32
	// IndexMaxZoom is the deepest zoom built when the index is created.
	IndexMaxZoom uint32
	// IndexMaxPoints stops splitting a tile during index creation once it
	// holds no more than this many points.
	IndexMaxPoints int
	// Tolerance is the simplification tolerance in pixels.
	Tolerance float64
	// Extent is the tile resolution, Buffer the number of pixels kept
	// beyond every tile edge.
	Extent uint32
	Buffer uint32

	LineMetrics bool
	GenerateID  bool

	// Concurrency is the number of goroutines splitting tiles while the
	// index is created.
	Concurrency int
	// Debug enables per-tile logging (1) and turns internal faults into
	// panics (2).
	Debug int
}

func DefaultOptions() Options {
	return Options{
		MaxZoom:        14,
		IndexMaxZoom:   5,
		IndexMaxPoints: 100000,
		Tolerance:      3,
		Extent:         4096,
		Buffer:         64,
		Concurrency:    1,
	}
}

func (o Options) validate() error {
	switch {
	case o.MaxZoom > MaxZoomLimit:
		return errors.Wrapf(ErrInvalidOptions, "max zoom %d is out of range [0, %d]", o.MaxZoom, MaxZoomLimit)
	case o.IndexMaxZoom > o.MaxZoom:
		return errors.Wrapf(ErrInvalidOptions, "index max zoom %d is above max zoom %d", o.IndexMaxZoom, o.MaxZoom)
	case o.Extent == 0:
		return errors.Wrap(ErrInvalidOptions, "extent must be positive")
	case uint64(o.Extent)+uint64(o.Buffer) > math.MaxInt32:
		// tile coordinates are int32
		return errors.Wrapf(ErrInvalidOptions, "extent %d plus buffer %d overflows tile coordinates", o.Extent, o.Buffer)
	case o.Tolerance < 0 || math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0):
		return errors.Wrapf(ErrInvalidOptions, "tolerance %v must be a non-negative number", o.Tolerance)
	case o.IndexMaxPoints < 0:
		return errors.Wrapf(ErrInvalidOptions, "index max points %d is negative", o.IndexMaxPoints)
	case o.Concurrency < 1:
		return errors.Wrapf(ErrInvalidOptions, "concurrency %d must be at least 1", o.Concurrency)
	}
	return nil
}

type config struct {
	Options
	Logger *slog.Logger
}

type Option func(*config)

func WithOptions(options Options) Option {
	return func(c *config) { c.Options = options }
}

func WithMaxZoom(zoom uint32) Option {
	return func(c *config) { c.MaxZoom = zoom }
}

func WithIndexMaxZoom(zoom uint32) Option {
	return func(c *config) { c.IndexMaxZoom = zoom }
}

func WithIndexMaxPoints(points int) Option {
	return func(c *config) { c.IndexMaxPoints = points }
}

func WithTolerance(tolerance float64) Option {
	return func(c *config) { c.Tolerance = tolerance }
}

func WithExtent(extent uint32) Option {
	return func(c *config) { c.Extent = extent }
}

func WithBuffer(buffer uint32) Option {
	return func(c *config) { c.Buffer = buffer }
}

func WithLineMetrics(enabled bool) Option {
	return func(c *config) { c.LineMetrics = enabled }
}

func WithGenerateID(enabled bool) Option {
	return func(c *config) { c.GenerateID = enabled }
}

func WithConcurrency(n int) Option {
	return func(c *config) { c.Concurrency = n }
}

func WithDebug(level int) Option {
	return func(c *config) { c.Debug = level }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}
