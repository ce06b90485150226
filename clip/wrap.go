package clip

import "github.com/eak1mov/go-geojsonvt/geometry"

// Wrap copies geometry that crosses the antimeridian back into the world:
// whatever lies left of 0 (plus buffer) reappears shifted by +1, whatever
// lies right of 1 (minus buffer) shifted by -1. buffer is in projected
// units. Features that need no wrapping are returned unchanged.
func Wrap(features []*geometry.Feature, buffer float64, lineMetrics bool) []*geometry.Feature {
	bounds := geometry.Bounds(features)
	if bounds.IsEmpty() {
		return features
	}

	left := Clip(features, geometry.AxisX, -1-buffer, buffer, bounds.MinX, bounds.MaxX, lineMetrics)
	right := Clip(features, geometry.AxisX, 1-buffer, 2+buffer, bounds.MinX, bounds.MaxX, lineMetrics)
	if len(left) == 0 && len(right) == 0 {
		return features
	}

	center := Clip(features, geometry.AxisX, -buffer, 1+buffer, bounds.MinX, bounds.MaxX, lineMetrics)
	merged := make([]*geometry.Feature, 0, len(left)+len(center)+len(right))
	for _, f := range left {
		merged = append(merged, f.Shifted(1))
	}
	merged = append(merged, center...)
	for _, f := range right {
		merged = append(merged, f.Shifted(-1))
	}
	return merged
}
