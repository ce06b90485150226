package vtile

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/geometry"
	"github.com/eak1mov/go-geojsonvt/tile"
)

type Params struct {
	Extent uint32
	Buffer uint32
	// Tolerance is the simplification tolerance in projected units for the
	// zoom of the tile; zero disables simplification.
	Tolerance   float64
	LineMetrics bool
}

// Build quantizes features into the pixel grid of tile id. Input features
// are not modified. Build panics with an assertion failure when features
// violate the invariants established by conversion and clipping.
func Build(features []*geometry.Feature, id tile.ID, params Params) *Tile {
	if !id.Valid() {
		panic(errors.AssertionFailedf("vtile: invalid tile %v", id))
	}
	if uint64(params.Extent)+uint64(params.Buffer) > math.MaxInt32 {
		panic(errors.AssertionFailedf("vtile: extent %d with buffer %d does not fit int32", params.Extent, params.Buffer))
	}

	b := builder{
		params:      params,
		z2:          float64(uint64(1) << id.Z),
		tx:          float64(id.X),
		ty:          float64(id.Y),
		extent:      float64(params.Extent),
		lo:          -float64(params.Buffer),
		hi:          float64(params.Extent) + float64(params.Buffer),
		sqTolerance: params.Tolerance * params.Tolerance,
		tile:        &Tile{ID: id},
	}
	for _, f := range features {
		b.tile.NumPoints += f.NumPoints
		switch {
		case f.Kind.IsPoint():
			b.addPoints(f)
		case f.Kind.IsLine():
			b.addLines(f)
		case f.Kind.IsPolygon():
			b.addPolygons(f)
		default:
			panic(errors.AssertionFailedf("vtile: feature %v has unknown kind %d", f.ID, f.Kind))
		}
	}
	return b.tile
}

type builder struct {
	params      Params
	z2          float64
	tx, ty      float64
	extent      float64
	lo, hi      float64
	sqTolerance float64
	tile        *Tile
}

func (b *builder) keep(p geometry.Point) bool {
	return b.params.Tolerance == 0 || p.Z > b.sqTolerance
}

func (b *builder) quantize(p geometry.Point) Point {
	x := math.Floor((p.X*b.z2-b.tx)*b.extent + 0.5)
	y := math.Floor((p.Y*b.z2-b.ty)*b.extent + 0.5)
	return Point{
		X: int32(min(max(x, b.lo), b.hi)),
		Y: int32(min(max(y, b.lo), b.hi)),
	}
}

func (b *builder) addPoints(f *geometry.Feature) {
	var points []Point
	for _, ring := range f.Rings {
		for _, p := range ring.Points {
			points = append(points, b.quantize(p))
		}
	}
	if len(points) == 0 {
		return
	}
	b.tile.NumSimplified += len(points)
	b.tile.Features = append(b.tile.Features, Feature{
		ID:         f.ID,
		Type:       TypePoint,
		Geometry:   [][]Point{points},
		Properties: f.Properties,
	})
}

func (b *builder) addLines(f *geometry.Feature) {
	var lines [][]Point
	for _, ring := range f.Rings {
		if b.params.Tolerance > 0 && ring.Size < b.params.Tolerance {
			continue
		}

		var line []Point
		var distances []float64
		for _, p := range ring.Points {
			if !b.keep(p) {
				continue
			}
			line = append(line, b.quantize(p))
			if b.params.LineMetrics && ring.Size > 0 {
				distances = append(distances, p.D/ring.Size)
			}
		}
		if len(line) < 2 {
			continue
		}
		b.tile.NumSimplified += len(line)

		if !b.params.LineMetrics {
			lines = append(lines, line)
			continue
		}
		// every part carries its own clip fractions
		feature := Feature{
			ID:         f.ID,
			Type:       TypeLineString,
			Geometry:   [][]Point{line},
			Properties: f.Properties,
		}
		if ring.Size > 0 {
			feature.ClipStart = ring.Points[0].D / ring.Size
			feature.ClipEnd = ring.Points[len(ring.Points)-1].D / ring.Size
			feature.Distances = [][]float64{distances}
		}
		b.tile.Features = append(b.tile.Features, feature)
	}

	if len(lines) > 0 {
		b.tile.Features = append(b.tile.Features, Feature{
			ID:         f.ID,
			Type:       TypeLineString,
			Geometry:   lines,
			Properties: f.Properties,
		})
	}
}

func (b *builder) addPolygons(f *geometry.Feature) {
	var rings [][]Point
	outerDropped := false
	for _, ring := range f.Rings {
		if ring.Outer {
			outerDropped = false
		} else if outerDropped {
			continue
		}

		n := len(ring.Points)
		if n > 0 && (ring.Points[0].X != ring.Points[n-1].X || ring.Points[0].Y != ring.Points[n-1].Y) {
			panic(errors.AssertionFailedf("vtile: ring of feature %v is not closed", f.ID))
		}

		points := b.polygonRing(ring)
		if points == nil {
			if ring.Outer {
				outerDropped = true
			}
			continue
		}
		b.tile.NumSimplified += len(points)
		rings = append(rings, points)
	}

	if len(rings) == 0 {
		return
	}
	b.tile.Features = append(b.tile.Features, Feature{
		ID:         f.ID,
		Type:       TypePolygon,
		Geometry:   rings,
		Properties: f.Properties,
	})
}

// polygonRing returns the simplified and quantized ring, or nil if nothing
// useful is left of it.
func (b *builder) polygonRing(ring geometry.Ring) []Point {
	if b.params.Tolerance > 0 && ring.Size < b.sqTolerance {
		return nil
	}
	var points []Point
	for _, p := range ring.Points {
		if b.keep(p) {
			points = append(points, b.quantize(p))
		}
	}
	// clipping may have closed the ring on a point simplified away here
	if n := len(points); n > 0 && points[0] != points[n-1] {
		points = append(points, points[0])
	}
	if len(points) < 4 {
		return nil
	}
	rewind(points, ring.Outer)
	return points
}

// rewind orders a closed ring clockwise or counter-clockwise in tile space.
func rewind(ring []Point, clockwise bool) {
	var area int64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		area += int64(ring[i].X-ring[j].X) * int64(ring[i].Y+ring[j].Y)
	}
	if (area > 0) == clockwise {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
}
