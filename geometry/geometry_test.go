package geometry_test

import (
	"math"
	"testing"

	"github.com/eak1mov/go-geojsonvt/geometry"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var floatApprox = cmpopts.EquateApprox(0, 1e-9)

func TestNewFeature(t *testing.T) {
	f := geometry.NewFeature("a", geometry.KindMultiLineString, []geometry.Ring{
		{Points: []geometry.Point{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}}},
		{Points: []geometry.Point{{X: 0.5, Y: 0.05}, {X: 0.6, Y: 0.1}, {X: 0.7, Y: 0.2}}},
	}, nil)

	if got, want := f.NumPoints, 5; got != want {
		t.Errorf("NumPoints = %v, want = %v", got, want)
	}
	want := geometry.BBox{MinX: 0.1, MinY: 0.05, MaxX: 0.7, MaxY: 0.4}
	if diff := cmp.Diff(want, f.BBox); diff != "" {
		t.Errorf("BBox mismatch (-want +got):\n%s", diff)
	}
	if lo, hi := f.BBox.Range(geometry.AxisY); lo != 0.05 || hi != 0.4 {
		t.Errorf("Range(AxisY) = (%v, %v)", lo, hi)
	}
}

func TestShifted(t *testing.T) {
	f := geometry.NewFeature(1, geometry.KindPoint, []geometry.Ring{
		{Points: []geometry.Point{{X: 1.25, Y: 0.5, Z: 1}}},
	}, nil)
	shifted := f.Shifted(-1)

	if got, want := shifted.Rings[0].Points[0], (geometry.Point{X: 0.25, Y: 0.5, Z: 1}); got != want {
		t.Errorf("shifted point = %v, want = %v", got, want)
	}
	if got := f.Rings[0].Points[0].X; got != 1.25 {
		t.Errorf("original modified: x = %v", got)
	}
	if got, want := shifted.BBox.MinX, 0.25; got != want {
		t.Errorf("shifted BBox.MinX = %v, want = %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	if b := geometry.Bounds(nil); !b.IsEmpty() {
		t.Errorf("Bounds(nil) = %v, want empty", b)
	}
	features := []*geometry.Feature{
		geometry.NewFeature(nil, geometry.KindPoint, []geometry.Ring{{Points: []geometry.Point{{X: -0.2, Y: 0.3}}}}, nil),
		geometry.NewFeature(nil, geometry.KindPoint, []geometry.Ring{{Points: []geometry.Point{{X: 1.1, Y: 0.9}}}}, nil),
	}
	want := geometry.BBox{MinX: -0.2, MinY: 0.3, MaxX: 1.1, MaxY: 0.9}
	if diff := cmp.Diff(want, geometry.Bounds(features)); diff != "" {
		t.Errorf("Bounds mismatch (-want +got):\n%s", diff)
	}
	if got, want := geometry.CountPoints(features), 2; got != want {
		t.Errorf("CountPoints = %v, want = %v", got, want)
	}
	if !math.IsInf(geometry.EmptyBBox().MinX, 1) {
		t.Errorf("EmptyBBox().MinX is not +Inf")
	}
}

func TestKind(t *testing.T) {
	for _, tc := range []struct {
		kind                 geometry.Kind
		name                 string
		point, line, polygon bool
	}{
		{geometry.KindPoint, "Point", true, false, false},
		{geometry.KindMultiPoint, "MultiPoint", true, false, false},
		{geometry.KindLineString, "LineString", false, true, false},
		{geometry.KindMultiLineString, "MultiLineString", false, true, false},
		{geometry.KindPolygon, "Polygon", false, false, true},
		{geometry.KindMultiPolygon, "MultiPolygon", false, false, true},
		{geometry.Kind(0), "Unknown", false, false, false},
	} {
		if got := tc.kind.String(); got != tc.name {
			t.Errorf("String() = %v, want = %v", got, tc.name)
		}
		if tc.kind.IsPoint() != tc.point || tc.kind.IsLine() != tc.line || tc.kind.IsPolygon() != tc.polygon {
			t.Errorf("%v: unexpected kind predicates", tc.kind)
		}
	}
}
