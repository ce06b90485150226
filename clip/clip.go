// Package clip cuts projected features against axis-aligned bands.
package clip

import "github.com/eak1mov/go-geojsonvt/geometry"

// Clip returns the parts of features whose coordinate along axis lies in
// [k1, k2]. minAll and maxAll bound all features along axis and allow the
// whole set to be accepted or rejected without looking at any feature.
//
// Features entirely inside the band are returned as is, the same pointer,
// so callers must treat features as immutable. Points created on the band
// edges get geometry.MaxImportance. With lineMetrics every clipped line
// part becomes a feature of its own.
func Clip(features []*geometry.Feature, axis geometry.Axis, k1, k2, minAll, maxAll float64, lineMetrics bool) []*geometry.Feature {
	if minAll >= k1 && maxAll <= k2 {
		return features
	}
	if maxAll < k1 || minAll > k2 {
		return nil
	}

	c := clipper{axis: axis, k1: k1, k2: k2}
	clipped := make([]*geometry.Feature, 0, len(features))
	for _, f := range features {
		lo, hi := f.BBox.Range(axis)
		switch {
		case lo >= k1 && hi <= k2:
			clipped = append(clipped, f)
		case hi < k1 || lo > k2:
			continue
		case f.Kind.IsPoint():
			clipped = c.appendPoints(clipped, f)
		case f.Kind.IsLine():
			clipped = c.appendLines(clipped, f, lineMetrics)
		case f.Kind.IsPolygon():
			clipped = c.appendPolygons(clipped, f)
		}
	}
	return clipped
}

type clipper struct {
	axis   geometry.Axis
	k1, k2 float64
}

func (c *clipper) inside(v float64) bool {
	return v >= c.k1 && v <= c.k2
}

func (c *clipper) appendPoints(out []*geometry.Feature, f *geometry.Feature) []*geometry.Feature {
	var points []geometry.Point
	for _, ring := range f.Rings {
		for _, p := range ring.Points {
			if c.inside(p.Coord(c.axis)) {
				points = append(points, p)
			}
		}
	}
	if len(points) == 0 {
		return out
	}
	kind := f.Kind
	if len(points) == 1 {
		kind = geometry.KindPoint
	}
	return append(out, geometry.NewFeature(f.ID, kind, []geometry.Ring{{Points: points}}, f.Properties))
}

func (c *clipper) appendLines(out []*geometry.Feature, f *geometry.Feature, lineMetrics bool) []*geometry.Feature {
	var parts []geometry.Ring
	for _, ring := range f.Rings {
		parts = c.clipLine(parts, ring)
	}
	switch {
	case len(parts) == 0:
		return out
	case len(parts) == 1:
		return append(out, geometry.NewFeature(f.ID, geometry.KindLineString, parts, f.Properties))
	case lineMetrics:
		for _, part := range parts {
			out = append(out, geometry.NewFeature(f.ID, geometry.KindLineString, []geometry.Ring{part}, f.Properties))
		}
		return out
	}
	return append(out, geometry.NewFeature(f.ID, geometry.KindMultiLineString, parts, f.Properties))
}

// clipLine appends the parts of line inside the band to parts.
func (c *clipper) clipLine(parts []geometry.Ring, line geometry.Ring) []geometry.Ring {
	n := len(line.Points)
	if n < 2 {
		return parts
	}
	k1, k2 := c.k1, c.k2

	var slice []geometry.Point
	flush := func() {
		if len(slice) >= 2 {
			parts = append(parts, geometry.Ring{Points: slice, Size: line.Size})
		}
		slice = nil
	}

	for i := 0; i < n-1; i++ {
		a, b := line.Points[i], line.Points[i+1]
		ak, bk := a.Coord(c.axis), b.Coord(c.axis)
		last := i == n-2

		switch {
		case ak < k1 && bk < k1, ak > k2 && bk > k2:
			continue

		case c.inside(ak) && c.inside(bk):
			slice = appendPoint(slice, a)
			if last {
				slice = appendPoint(slice, b)
				flush()
			}

		default:
			enter := min(max(ak, k1), k2)
			exit := min(max(bk, k1), k2)
			slice = appendPoint(slice, c.intersect(a, b, enter))
			if exit == bk {
				if last {
					slice = appendPoint(slice, b)
					flush()
				}
			} else {
				slice = appendPoint(slice, c.intersect(a, b, exit))
				flush()
			}
		}
	}
	return parts
}

func (c *clipper) appendPolygons(out []*geometry.Feature, f *geometry.Feature) []*geometry.Feature {
	var rings []geometry.Ring
	outerDropped := false
	for _, ring := range f.Rings {
		if !ring.Outer && outerDropped {
			continue
		}
		clipped, ok := c.clipRing(ring)
		if ring.Outer {
			outerDropped = !ok
		}
		if ok {
			rings = append(rings, clipped)
		}
	}
	if len(rings) == 0 {
		return out
	}
	return append(out, geometry.NewFeature(f.ID, f.Kind, rings, f.Properties))
}

func (c *clipper) clipRing(ring geometry.Ring) (geometry.Ring, bool) {
	n := len(ring.Points)
	if n < 2 {
		return geometry.Ring{}, false
	}
	k1, k2 := c.k1, c.k2

	var slice []geometry.Point
	for i := 0; i < n-1; i++ {
		a, b := ring.Points[i], ring.Points[i+1]
		ak, bk := a.Coord(c.axis), b.Coord(c.axis)

		switch {
		case ak < k1:
			if bk > k1 {
				slice = appendPoint(slice, c.intersect(a, b, k1))
			}
			if bk > k2 {
				slice = appendPoint(slice, c.intersect(a, b, k2))
			}
		case ak > k2:
			if bk < k2 {
				slice = appendPoint(slice, c.intersect(a, b, k2))
			}
			if bk < k1 {
				slice = appendPoint(slice, c.intersect(a, b, k1))
			}
		default:
			slice = appendPoint(slice, a)
			if bk < k1 {
				slice = appendPoint(slice, c.intersect(a, b, k1))
			} else if bk > k2 {
				slice = appendPoint(slice, c.intersect(a, b, k2))
			}
		}
	}

	if len(slice) > 0 && !samePosition(slice[0], slice[len(slice)-1]) {
		slice = append(slice, slice[0])
	}
	if len(slice) < 4 {
		return geometry.Ring{}, false
	}
	return geometry.Ring{Points: slice, Size: ring.Size, Outer: ring.Outer}, true
}

// intersect returns the point of segment ab whose coordinate along the
// clip axis is v. The distance along the source line is interpolated.
func (c *clipper) intersect(a, b geometry.Point, v float64) geometry.Point {
	p := geometry.Point{Z: geometry.MaxImportance}
	if c.axis == geometry.AxisX {
		t := progress(a.X, b.X, v)
		p.X = v
		p.Y = a.Y + t*(b.Y-a.Y)
		p.D = a.D + t*(b.D-a.D)
	} else {
		t := progress(a.Y, b.Y, v)
		p.X = a.X + t*(b.X-a.X)
		p.Y = v
		p.D = a.D + t*(b.D-a.D)
	}
	return p
}

func progress(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// appendPoint skips zero-length segments, keeping the higher importance of
// the merged points.
func appendPoint(points []geometry.Point, p geometry.Point) []geometry.Point {
	if n := len(points); n > 0 && samePosition(points[n-1], p) {
		points[n-1].Z = max(points[n-1].Z, p.Z)
		return points
	}
	return append(points, p)
}

func samePosition(a, b geometry.Point) bool {
	return a.X == b.X && a.Y == b.Y
}
