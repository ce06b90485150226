// Package vtile holds quantized tiles and the builder that produces them
// from projected features.
package vtile

import (
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/paulmach/orb/geojson"
)

type Type uint8

const (
	TypePoint Type = iota + 1
	TypeLineString
	TypePolygon
)

func (t Type) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	}
	return "Unknown"
}

// Point is a position in tile-local pixel space: [0, extent) is inside the
// tile, the buffer extends it on every side.
type Point struct {
	X, Y int32
}

// Feature is one feature of a tile. Geometry holds a single slice of points
// for point features, one slice per line, or the rings of all polygons with
// outer rings clockwise and holes counter-clockwise (y axis pointing down).
//
// Properties are shared with the source feature and must not be modified.
type Feature struct {
	ID         any
	Type       Type
	Geometry   [][]Point
	Properties geojson.Properties

	// Set only for lines when line metrics are enabled: the position of the
	// first and last point of the part as a fraction of the source line
	// length, and the same fraction for every point.
	ClipStart, ClipEnd float64
	Distances          [][]float64
}

type Tile struct {
	ID       tile.ID
	Features []Feature

	// NumPoints is the number of source points the tile was built from,
	// NumSimplified the number of points left after simplification.
	NumPoints     int
	NumSimplified int

	// Leaf is set for tiles that are never split further: tiles at or beyond
	// the deepest simplified zoom and tiles without features.
	Leaf bool
}

func Empty(id tile.ID) *Tile {
	return &Tile{ID: id, Leaf: true}
}

func (t *Tile) IsEmpty() bool {
	return len(t.Features) == 0
}
