// Package geometry holds the projected, flattened representation of GeoJSON
// features that the clipper and the tile builder operate on.
package geometry

import (
	"math"

	"github.com/paulmach/orb/geojson"
)

// MaxImportance is the importance of points that must never be simplified
// away: line endpoints and points created on clip boundaries.
const MaxImportance = 1

type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
)

var kindNames = map[Kind]string{
	KindPoint:           "Point",
	KindMultiPoint:      "MultiPoint",
	KindLineString:      "LineString",
	KindMultiLineString: "MultiLineString",
	KindPolygon:         "Polygon",
	KindMultiPolygon:    "MultiPolygon",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k Kind) IsPoint() bool   { return k == KindPoint || k == KindMultiPoint }
func (k Kind) IsLine() bool    { return k == KindLineString || k == KindMultiLineString }
func (k Kind) IsPolygon() bool { return k == KindPolygon || k == KindMultiPolygon }

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Point is a projected point. Z is the simplification importance (squared
// distance in projected units), D the distance from the start of the source
// line, tracked only when line metrics are enabled.
type Point struct {
	X, Y float64
	Z    float64
	D    float64
}

func (p Point) Coord(axis Axis) float64 {
	if axis == AxisX {
		return p.X
	}
	return p.Y
}

// Ring is a line or a closed polygon ring. Size is the length of the source
// line or the absolute area of the source ring; clipped parts inherit it.
type Ring struct {
	Points []Point
	Size   float64
	Outer  bool
}

type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

func (b BBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func (b *BBox) Extend(p Point) {
	b.MinX = min(b.MinX, p.X)
	b.MinY = min(b.MinY, p.Y)
	b.MaxX = max(b.MaxX, p.X)
	b.MaxY = max(b.MaxY, p.Y)
}

func (b *BBox) Merge(other BBox) {
	b.MinX = min(b.MinX, other.MinX)
	b.MinY = min(b.MinY, other.MinY)
	b.MaxX = max(b.MaxX, other.MaxX)
	b.MaxY = max(b.MaxY, other.MaxY)
}

// Range returns the extent of the box along axis.
func (b BBox) Range(axis Axis) (lo, hi float64) {
	if axis == AxisX {
		return b.MinX, b.MaxX
	}
	return b.MinY, b.MaxY
}

// Feature is one flattened input feature. Multigeometries keep all their
// parts as rings of a single feature; polygon membership is recorded by
// Ring.Outer. Features are immutable once created and may be shared by
// several tiles.
type Feature struct {
	ID         any
	Kind       Kind
	Rings      []Ring
	Properties geojson.Properties
	BBox       BBox
	NumPoints  int
}

// NewFeature creates a feature and computes its bounding box and point count.
func NewFeature(id any, kind Kind, rings []Ring, properties geojson.Properties) *Feature {
	f := &Feature{
		ID:         id,
		Kind:       kind,
		Rings:      rings,
		Properties: properties,
		BBox:       EmptyBBox(),
	}
	for _, ring := range rings {
		for _, p := range ring.Points {
			f.BBox.Extend(p)
		}
		f.NumPoints += len(ring.Points)
	}
	return f
}

// Shifted returns a copy of f moved by dx along the x axis.
func (f *Feature) Shifted(dx float64) *Feature {
	rings := make([]Ring, len(f.Rings))
	for i, ring := range f.Rings {
		points := make([]Point, len(ring.Points))
		for j, p := range ring.Points {
			p.X += dx
			points[j] = p
		}
		rings[i] = Ring{Points: points, Size: ring.Size, Outer: ring.Outer}
	}
	return NewFeature(f.ID, f.Kind, rings, f.Properties)
}

// CountPoints returns the total number of points in features.
func CountPoints(features []*Feature) int {
	n := 0
	for _, f := range features {
		n += f.NumPoints
	}
	return n
}

// Bounds returns the union of the feature bounding boxes.
func Bounds(features []*Feature) BBox {
	b := EmptyBBox()
	for _, f := range features {
		b.Merge(f.BBox)
	}
	return b
}
