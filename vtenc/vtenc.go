// Package vtenc encodes built tiles: as Mapbox Vector Tiles through orb's
// mvt encoder, or as GeoJSON features in tile coordinates.
package vtenc

import (
	"maps"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/vtile"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
)

const (
	ClipStartProperty = "mapbox_clip_start"
	ClipEndProperty   = "mapbox_clip_end"
)

// Layer describes the single layer a tile is encoded into.
type Layer struct {
	Name   string
	Extent uint32
}

// ToFeatureCollection converts t into GeoJSON features whose coordinates are
// tile-local pixels. Feature ids and properties are kept as they are; line
// parts carrying clip fractions get the mapbox_clip_start/end properties.
func ToFeatureCollection(t *vtile.Tile) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range t.Features {
		f := &t.Features[i]
		gf := geojson.NewFeature(geometry(f))
		gf.ID = f.ID
		gf.Properties = properties(f)
		fc.Append(gf)
	}
	return fc
}

// ToLayer converts t into an mvt layer. Only ids that are non-negative
// integers are representable in a vector tile; other ids are dropped.
func ToLayer(t *vtile.Tile, layer Layer) *mvt.Layer {
	fc := ToFeatureCollection(t)
	for _, f := range fc.Features {
		f.ID = mvtID(f.ID)
	}
	return &mvt.Layer{
		Name:     layer.Name,
		Version:  2,
		Extent:   layer.Extent,
		Features: fc.Features,
	}
}

// MarshalMVT encodes t as a single-layer vector tile, optionally gzipped.
func MarshalMVT(t *vtile.Tile, layer Layer, gzip bool) ([]byte, error) {
	layers := mvt.Layers{ToLayer(t, layer)}
	var (
		data []byte
		err  error
	)
	if gzip {
		data, err = mvt.MarshalGzipped(layers)
	} else {
		data, err = mvt.Marshal(layers)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "vtenc: encode tile %v", t.ID)
	}
	return data, nil
}

func geometry(f *vtile.Feature) orb.Geometry {
	switch f.Type {
	case vtile.TypePoint:
		var points orb.MultiPoint
		for _, part := range f.Geometry {
			for _, p := range part {
				points = append(points, point(p))
			}
		}
		if len(points) == 1 {
			return points[0]
		}
		return points

	case vtile.TypeLineString:
		lines := make(orb.MultiLineString, 0, len(f.Geometry))
		for _, part := range f.Geometry {
			lines = append(lines, orb.LineString(points(part)))
		}
		if len(lines) == 1 {
			return lines[0]
		}
		return lines

	case vtile.TypePolygon:
		var polygons orb.MultiPolygon
		for _, part := range f.Geometry {
			ring := orb.Ring(points(part))
			if len(polygons) == 0 || clockwise(part) {
				polygons = append(polygons, orb.Polygon{ring})
				continue
			}
			last := len(polygons) - 1
			polygons[last] = append(polygons[last], ring)
		}
		if len(polygons) == 1 {
			return polygons[0]
		}
		return polygons
	}
	return nil
}

// clockwise reports whether a ring is wound clockwise in tile space (y axis
// pointing down), which is how outer rings are emitted by the builder.
func clockwise(ring []vtile.Point) bool {
	var area int64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		area += int64(ring[i].X-ring[j].X) * int64(ring[i].Y+ring[j].Y)
	}
	return area < 0
}

func points(part []vtile.Point) []orb.Point {
	result := make([]orb.Point, len(part))
	for i, p := range part {
		result[i] = point(p)
	}
	return result
}

func point(p vtile.Point) orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

func properties(f *vtile.Feature) geojson.Properties {
	if f.Type != vtile.TypeLineString || f.Distances == nil {
		return f.Properties
	}
	props := maps.Clone(f.Properties)
	if props == nil {
		props = geojson.Properties{}
	}
	props[ClipStartProperty] = f.ClipStart
	props[ClipEndProperty] = f.ClipEnd
	return props
}

func mvtID(id any) any {
	switch v := id.(type) {
	case uint64:
		return v
	case uint32:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		if v >= 0 {
			return uint64(v)
		}
	case int64:
		if v >= 0 {
			return uint64(v)
		}
	case float64:
		if v >= 0 && v == math.Trunc(v) && v < math.MaxUint64 {
			return uint64(v)
		}
	}
	return nil
}
