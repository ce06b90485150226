package geometry

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/mercator"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrDegenerate  = errors.New("geometry: degenerate geometry")
	ErrUnsupported = errors.New("geometry: unsupported geometry type")
)

type ConvertOptions struct {
	// SqTolerance is the squared simplification tolerance in projected units,
	// i.e. (tolerance / ((1 << maxZoom) * extent))^2.
	SqTolerance float64
	GenerateID  bool
	LineMetrics bool
	// OnSkip is called for every input feature that produced no geometry and
	// for every dropped member of a geometry collection.
	OnSkip func(index int, err error)
}

// Convert projects and flattens a feature collection. Features that cannot
// be converted are reported to opts.OnSkip and left out; the conversion of
// the remaining features is not affected.
func Convert(fc *geojson.FeatureCollection, opts ConvertOptions) []*Feature {
	features := make([]*Feature, 0, len(fc.Features))
	var nextID uint64
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		id := f.ID
		if opts.GenerateID {
			if id == nil {
				id = nextID
			}
			nextID++
		}

		c := converter{
			opts:       opts,
			index:      i,
			id:         id,
			properties: f.Properties,
		}
		if err := c.convert(f.Geometry); err != nil {
			c.skip(err)
			continue
		}
		features = append(features, c.out...)
	}
	return features
}

// converter accumulates the features produced by one input feature.
type converter struct {
	opts       ConvertOptions
	index      int
	id         any
	properties geojson.Properties
	out        []*Feature
}

func (c *converter) skip(err error) {
	if c.opts.OnSkip != nil {
		c.opts.OnSkip(c.index, err)
	}
}

func (c *converter) emit(kind Kind, rings []Ring) {
	c.out = append(c.out, NewFeature(c.id, kind, rings, c.properties))
}

func (c *converter) convert(g orb.Geometry) error {
	switch g := g.(type) {
	case orb.Point:
		p, ok := projectPoint(g)
		if !ok {
			return errors.Wrap(ErrDegenerate, "point has non-finite coordinates")
		}
		c.emit(KindPoint, []Ring{{Points: []Point{p}}})

	case orb.MultiPoint:
		points := make([]Point, 0, len(g))
		for _, pt := range g {
			if p, ok := projectPoint(pt); ok {
				points = append(points, p)
			}
		}
		if len(points) == 0 {
			return errors.Wrap(ErrDegenerate, "empty multipoint")
		}
		c.emit(KindMultiPoint, []Ring{{Points: points}})

	case orb.LineString:
		ring, ok := c.convertLine(g)
		if !ok {
			return errors.Wrapf(ErrDegenerate, "linestring with %d points", len(g))
		}
		c.emit(KindLineString, []Ring{ring})

	case orb.MultiLineString:
		var rings []Ring
		for _, line := range g {
			if ring, ok := c.convertLine(line); ok {
				rings = append(rings, ring)
			}
		}
		if len(rings) == 0 {
			return errors.Wrap(ErrDegenerate, "empty multilinestring")
		}
		if c.opts.LineMetrics {
			// every line gets its own feature so that clip fractions stay per line
			for _, ring := range rings {
				c.emit(KindLineString, []Ring{ring})
			}
			return nil
		}
		c.emit(KindMultiLineString, rings)

	case orb.Polygon:
		rings := c.convertPolygon(g)
		if len(rings) == 0 {
			return errors.Wrap(ErrDegenerate, "polygon without a valid outer ring")
		}
		c.emit(KindPolygon, rings)

	case orb.MultiPolygon:
		var rings []Ring
		for _, polygon := range g {
			rings = append(rings, c.convertPolygon(polygon)...)
		}
		if len(rings) == 0 {
			return errors.Wrap(ErrDegenerate, "empty multipolygon")
		}
		c.emit(KindMultiPolygon, rings)

	case orb.Collection:
		// members are independent: a bad member drops only itself
		n := len(c.out)
		for j, member := range g {
			if err := c.convert(member); err != nil {
				c.skip(errors.Wrapf(err, "geometry collection member %d", j))
			}
		}
		if len(c.out) == n {
			return errors.Wrap(ErrDegenerate, "empty geometry collection")
		}

	default:
		return errors.Wrapf(ErrUnsupported, "%T", g)
	}
	return nil
}

func (c *converter) convertLine(line orb.LineString) (Ring, bool) {
	points := make([]Point, 0, len(line))
	for _, pt := range line {
		if p, ok := projectPoint(pt); ok {
			points = append(points, p)
		}
	}
	if len(points) < 2 {
		return Ring{}, false
	}

	var length float64
	for i := 1; i < len(points); i++ {
		length += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		if c.opts.LineMetrics {
			points[i].D = length
		}
	}
	Simplify(points, c.opts.SqTolerance)
	return Ring{Points: points, Size: length}, true
}

// convertPolygon returns the valid rings of polygon. A polygon whose outer
// ring is degenerate yields nothing; degenerate holes are dropped.
func (c *converter) convertPolygon(polygon orb.Polygon) []Ring {
	var rings []Ring
	for i, r := range polygon {
		ring, ok := c.convertRing(r)
		if !ok {
			if i == 0 {
				return nil
			}
			continue
		}
		ring.Outer = i == 0
		rings = append(rings, ring)
	}
	return rings
}

func (c *converter) convertRing(r orb.Ring) (Ring, bool) {
	points := make([]Point, 0, len(r)+1)
	for _, pt := range r {
		if p, ok := projectPoint(pt); ok {
			points = append(points, p)
		}
	}
	if len(points) > 0 && (points[0].X != points[len(points)-1].X || points[0].Y != points[len(points)-1].Y) {
		points = append(points, points[0])
	}
	if len(points) < 4 {
		return Ring{}, false
	}

	var area float64
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		area += a.X*b.Y - b.X*a.Y
	}
	Simplify(points, c.opts.SqTolerance)
	return Ring{Points: points, Size: math.Abs(area / 2)}, true
}

func projectPoint(pt orb.Point) (Point, bool) {
	if !finite(pt[0]) || !finite(pt[1]) {
		return Point{}, false
	}
	x, y := mercator.Project(pt[0], pt[1])
	return Point{X: x, Y: y}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
