// Package geojsonvt slices GeoJSON into vector tiles on the fly.
//
// An Index is created once from a feature collection. It splits the data
// into tiles down to Options.IndexMaxZoom up front and materializes deeper
// tiles on demand in GetTile. The index is safe for concurrent use.
package geojsonvt

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/clip"
	"github.com/eak1mov/go-geojsonvt/geometry"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/eak1mov/go-geojsonvt/vtile"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidTileID = errors.New("geojsonvt: invalid tile id")

// Stats describes the tiles materialized so far.
type Stats struct {
	Total   int
	PerZoom map[uint32]int
	// Skipped counts input features and geometry collection members without
	// usable geometry, Faults the
	// tiles that could not be built because of an internal error.
	Skipped int
	Faults  int
}

type Index struct {
	options Options
	logger  *slog.Logger

	numFeatures int
	skipped     int
	faults      atomic.Int64

	tiles sync.Map // tile.ID -> *node
	group singleflight.Group

	mu      sync.Mutex
	order   []tile.ID
	perZoom map[uint32]int
}

// node is a materialized tile. source holds the features the tile was
// built from while the tile can still be split on demand; it is nil once
// all four children have been created.
type node struct {
	tile   *vtile.Tile
	source []*geometry.Feature
	bounds geometry.BBox
}

// New converts fc and builds the index. Features without usable geometry
// are skipped and logged; they never make New fail.
func New(fc *geojson.FeatureCollection, opts ...Option) (*Index, error) {
	config := config{
		Options: DefaultOptions(),
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Options.validate(); err != nil {
		return nil, err
	}
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}

	i := &Index{
		options: config.Options,
		logger:  config.Logger,
		perZoom: make(map[uint32]int),
	}

	start := time.Now()
	tolerance := i.options.Tolerance / (float64(uint64(1)<<i.options.MaxZoom) * float64(i.options.Extent))
	features := geometry.Convert(fc, geometry.ConvertOptions{
		SqTolerance: tolerance * tolerance,
		GenerateID:  i.options.GenerateID,
		LineMetrics: i.options.LineMetrics,
		OnSkip: func(index int, err error) {
			i.skipped++
			i.logger.Warn("geojsonvt: skipping feature", "index", index, "error", err)
		},
	})
	features = clip.Wrap(features, float64(i.options.Buffer)/float64(i.options.Extent), i.options.LineMetrics)
	i.numFeatures = len(features)
	i.logger.Debug("geojsonvt: features prepared",
		"features", len(features),
		"points", geometry.CountPoints(features),
		"skipped", i.skipped,
		"elapsed", time.Since(start))

	var g *errgroup.Group
	if i.options.Concurrency > 1 {
		g = new(errgroup.Group)
		g.SetLimit(i.options.Concurrency - 1)
	}
	i.split(g, features, tile.ID{})
	if g != nil {
		_ = g.Wait()
	}

	i.logger.Info("geojsonvt: index created",
		"features", i.numFeatures,
		"tiles", len(i.order),
		"elapsed", time.Since(start))
	return i, nil
}

// split builds the tile id from features and keeps splitting it into
// quadrants until one of the stop conditions holds. Children are split on
// g when it has a free slot, inline otherwise.
func (i *Index) split(g *errgroup.Group, features []*geometry.Feature, id tile.ID) {
	numPoints := geometry.CountPoints(features)
	stop := id.Z >= i.options.IndexMaxZoom ||
		numPoints <= i.options.IndexMaxPoints ||
		id.Z >= i.options.MaxZoom

	n, ok := i.newNode(features, id, stop)
	if !ok || stop || len(features) == 0 {
		return
	}

	for _, child := range i.quadrants(features, n.bounds, id) {
		fn := func() error {
			i.split(g, child.features, child.id)
			return nil
		}
		if g == nil || !g.TryGo(fn) {
			_ = fn()
		}
	}
}

// newNode builds and caches the tile id. The source features are retained
// when keepSource is set. It reports false if the tile could not be built.
func (i *Index) newNode(features []*geometry.Feature, id tile.ID, keepSource bool) (*node, bool) {
	t, ok := i.build(features, id, i.tolerance(id.Z))
	if !ok {
		return nil, false
	}
	t.Leaf = id.Z >= i.options.MaxZoom || len(features) == 0

	n := &node{tile: t, bounds: geometry.Bounds(features)}
	if keepSource {
		n.source = features
		if n.source == nil {
			n.source = []*geometry.Feature{}
		}
	}
	i.tiles.Store(id, n)

	i.mu.Lock()
	i.order = append(i.order, id)
	i.perZoom[id.Z]++
	i.mu.Unlock()

	if i.options.Debug > 0 {
		i.logger.Debug("geojsonvt: tile created",
			"tile", id,
			"features", len(t.Features),
			"points", t.NumPoints,
			"simplified", t.NumSimplified)
	}
	return n, true
}

// build recovers from assertion failures raised by the tile builder: the
// fault is logged and counted and the caller gets no tile. Any other panic,
// or any panic in debug mode, is propagated.
func (i *Index) build(features []*geometry.Feature, id tile.ID, tolerance float64) (t *vtile.Tile, ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err, isErr := r.(error)
		if !isErr || !errors.HasAssertionFailure(err) || i.options.Debug >= 2 {
			panic(r)
		}
		i.faults.Add(1)
		i.logger.Error("geojsonvt: failed to build tile", "tile", id, "error", err)
		t, ok = nil, false
	}()

	params := vtile.Params{
		Extent:      i.options.Extent,
		Buffer:      i.options.Buffer,
		Tolerance:   tolerance,
		LineMetrics: i.options.LineMetrics,
	}
	return vtile.Build(features, id, params), true
}

// tolerance returns the simplification tolerance for zoom z in projected
// units. Tiles at MaxZoom and beyond are not simplified.
func (i *Index) tolerance(z uint32) float64 {
	if z >= i.options.MaxZoom {
		return 0
	}
	return i.options.Tolerance / (float64(uint64(1)<<z) * float64(i.options.Extent))
}

// GetTile returns the tile z/x/y, materializing it if needed. Addresses
// outside the tile grid fail with ErrInvalidTileID; addresses without data
// yield an empty tile.
func (i *Index) GetTile(z, x, y uint32) (*vtile.Tile, error) {
	if z > tile.MaxZoom {
		return nil, errors.Wrapf(ErrInvalidTileID, "zoom %d is out of range [0, %d]", z, tile.MaxZoom)
	}
	size := uint64(1) << z
	if uint64(x) >= size {
		return nil, errors.Wrapf(ErrInvalidTileID, "x %d is out of range [0, %d) at zoom %d", x, size, z)
	}
	if uint64(y) >= size {
		return nil, errors.Wrapf(ErrInvalidTileID, "y %d is out of range [0, %d) at zoom %d", y, size, z)
	}
	id := tile.ID{X: x, Y: y, Z: z}

	if z > i.options.MaxZoom {
		return i.overzoom(id), nil
	}
	if n := i.node(id); n != nil {
		return n.tile, nil
	}
	return vtile.Empty(id), nil
}

// node returns the materialized tile id, splitting it off the nearest
// ancestor that retained its source. It returns nil when the address has no
// data. Concurrent calls for the same address build the tile once.
func (i *Index) node(id tile.ID) *node {
	if v, ok := i.tiles.Load(id); ok {
		return v.(*node)
	}
	if id.Z == 0 {
		return nil
	}

	v, _, _ := i.group.Do(id.String(), func() (any, error) {
		if v, ok := i.tiles.Load(id); ok {
			return v.(*node), nil
		}
		parent := i.node(id.Parent())
		if parent == nil || len(parent.source) == 0 {
			return (*node)(nil), nil
		}

		features := i.quadrant(parent.source, parent.bounds, id)
		n, ok := i.newNode(features, id, true)
		if !ok {
			return (*node)(nil), nil
		}
		return n, nil
	})
	return v.(*node)
}

// overzoom clips the source of the MaxZoom ancestor straight to the
// buffered box of id. The result is not simplified and not cached.
func (i *Index) overzoom(id tile.ID) *vtile.Tile {
	ancestor := i.node(id.Ancestor(i.options.MaxZoom))
	if ancestor == nil || len(ancestor.source) == 0 {
		return vtile.Empty(id)
	}

	scale := float64(uint64(1) << id.Z)
	k := float64(i.options.Buffer) / float64(i.options.Extent)
	bounds := ancestor.bounds
	features := clip.Clip(ancestor.source, geometry.AxisX,
		(float64(id.X)-k)/scale, (float64(id.X)+1+k)/scale,
		bounds.MinX, bounds.MaxX, i.options.LineMetrics)
	features = clip.Clip(features, geometry.AxisY,
		(float64(id.Y)-k)/scale, (float64(id.Y)+1+k)/scale,
		bounds.MinY, bounds.MaxY, i.options.LineMetrics)

	t, ok := i.build(features, id, 0)
	if !ok {
		return vtile.Empty(id)
	}
	t.Leaf = true
	return t
}

type quadrant struct {
	id       tile.ID
	features []*geometry.Feature
}

// quadrants clips features of tile id into its four children.
func (i *Index) quadrants(features []*geometry.Feature, bounds geometry.BBox, id tile.ID) [4]quadrant {
	left := i.clipHalf(features, bounds, id, geometry.AxisX, false)
	right := i.clipHalf(features, bounds, id, geometry.AxisX, true)

	children := id.Children()
	return [4]quadrant{
		{children[0], i.clipHalf(left, bounds, id, geometry.AxisY, false)},
		{children[1], i.clipHalf(left, bounds, id, geometry.AxisY, true)},
		{children[2], i.clipHalf(right, bounds, id, geometry.AxisY, false)},
		{children[3], i.clipHalf(right, bounds, id, geometry.AxisY, true)},
	}
}

// quadrant clips parentFeatures down to the single child id.
func (i *Index) quadrant(parentFeatures []*geometry.Feature, bounds geometry.BBox, id tile.ID) []*geometry.Feature {
	parent := id.Parent()
	features := i.clipHalf(parentFeatures, bounds, parent, geometry.AxisX, id.X&1 == 1)
	return i.clipHalf(features, bounds, parent, geometry.AxisY, id.Y&1 == 1)
}

// clipHalf keeps the lower or upper half of tile id along axis, widened by
// the buffer.
func (i *Index) clipHalf(features []*geometry.Feature, bounds geometry.BBox, id tile.ID, axis geometry.Axis, upper bool) []*geometry.Feature {
	if len(features) == 0 {
		return nil
	}
	k1 := 0.5 * float64(i.options.Buffer) / float64(i.options.Extent)
	scale := float64(uint64(1) << id.Z)
	origin := float64(id.X)
	if axis == geometry.AxisY {
		origin = float64(id.Y)
	}

	lo, hi := origin-k1, origin+0.5+k1
	if upper {
		lo, hi = origin+0.5-k1, origin+1+k1
	}
	minAll, maxAll := bounds.Range(axis)
	return clip.Clip(features, axis, lo/scale, hi/scale, minAll, maxAll, i.options.LineMetrics)
}

// Options returns the options the index was created with.
func (i *Index) Options() Options {
	return i.options
}

// NumFeatures returns the number of features indexed after conversion and
// antimeridian wrapping.
func (i *Index) NumFeatures() int {
	return i.numFeatures
}

// TileIDs returns the addresses of all materialized tiles in creation
// order. The order is deterministic when the index is built with a single
// goroutine and no tiles were requested concurrently.
func (i *Index) TileIDs() []tile.ID {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.order)
}

func (i *Index) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()

	return Stats{
		Total:   len(i.order),
		PerZoom: maps.Clone(i.perZoom),
		Skipped: i.skipped,
		Faults:  int(i.faults.Load()),
	}
}
