package vtenc_test

import (
	"fmt"
	"testing"

	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/eak1mov/go-geojsonvt/vtenc"
	"github.com/eak1mov/go-geojsonvt/vtile"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 int32) []vtile.Point {
	return []vtile.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
}

func testTile() *vtile.Tile {
	hole := []vtile.Point{{X: 2, Y: 2}, {X: 2, Y: 8}, {X: 8, Y: 8}, {X: 8, Y: 2}, {X: 2, Y: 2}}
	return &vtile.Tile{
		ID: tile.ID{X: 1, Y: 2, Z: 3},
		Features: []vtile.Feature{
			{ID: uint64(7), Type: vtile.TypePoint, Geometry: [][]vtile.Point{{{X: 5, Y: 6}}}, Properties: geojson.Properties{"name": "a"}},
			{ID: "road", Type: vtile.TypePoint, Geometry: [][]vtile.Point{{{X: 1, Y: 1}, {X: 2, Y: 2}}}},
			{ID: 3.0, Type: vtile.TypeLineString, Geometry: [][]vtile.Point{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}},
			{Type: vtile.TypeLineString, Geometry: [][]vtile.Point{{{X: 0, Y: 0}, {X: 1, Y: 1}}, {{X: 5, Y: 5}, {X: 6, Y: 6}}}},
			{Type: vtile.TypePolygon, Geometry: [][]vtile.Point{square(0, 0, 10, 10), hole, square(20, 20, 30, 30)}},
			{Type: vtile.TypePolygon, Geometry: [][]vtile.Point{square(0, 0, 10, 10)}},
			{
				Type:       vtile.TypeLineString,
				Geometry:   [][]vtile.Point{{{X: 0, Y: 0}, {X: 4, Y: 0}}},
				Properties: geojson.Properties{"kind": "river"},
				ClipStart:  0.25,
				ClipEnd:    0.5,
				Distances:  [][]float64{{0.25, 0.5}},
			},
		},
	}
}

func TestToFeatureCollection(t *testing.T) {
	tl := testTile()
	fc := vtenc.ToFeatureCollection(tl)
	require.Len(t, fc.Features, len(tl.Features))

	wantGeometry := []orb.Geometry{
		orb.Point{5, 6},
		orb.MultiPoint{{1, 1}, {2, 2}},
		orb.LineString{{0, 0}, {10, 0}, {10, 10}},
		orb.MultiLineString{{{0, 0}, {1, 1}}, {{5, 5}, {6, 6}}},
		orb.MultiPolygon{
			{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {2, 8}, {8, 8}, {8, 2}, {2, 2}},
			},
			{{{20, 20}, {30, 20}, {30, 30}, {20, 30}, {20, 20}}},
		},
		orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
		orb.LineString{{0, 0}, {4, 0}},
	}
	for i, want := range wantGeometry {
		if diff := cmp.Diff(want, fc.Features[i].Geometry); diff != "" {
			t.Errorf("feature %d geometry mismatch (-want +got):\n%s", i, diff)
		}
	}

	require.Equal(t, uint64(7), fc.Features[0].ID)
	require.Equal(t, "road", fc.Features[1].ID)
	require.Equal(t, "a", fc.Features[0].Properties["name"])

	wantProps := geojson.Properties{"kind": "river", vtenc.ClipStartProperty: 0.25, vtenc.ClipEndProperty: 0.5}
	if diff := cmp.Diff(wantProps, fc.Features[6].Properties); diff != "" {
		t.Errorf("clip properties mismatch (-want +got):\n%s", diff)
	}
	if _, ok := tl.Features[6].Properties[vtenc.ClipStartProperty]; ok {
		t.Errorf("source properties were modified")
	}
}

func TestToLayerIDs(t *testing.T) {
	layer := vtenc.ToLayer(testTile(), vtenc.Layer{Name: "geojsonLayer", Extent: 4096})
	require.Equal(t, "geojsonLayer", layer.Name)
	require.Equal(t, uint32(4096), layer.Extent)

	var got []any
	for _, f := range layer.Features {
		got = append(got, f.ID)
	}
	want := []any{uint64(7), nil, uint64(3), nil, nil, nil, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalMVT(t *testing.T) {
	tl := &vtile.Tile{
		ID: tile.ID{Z: 2, X: 1, Y: 1},
		Features: []vtile.Feature{
			{ID: 11, Type: vtile.TypePoint, Geometry: [][]vtile.Point{{{X: 100, Y: 200}}}, Properties: geojson.Properties{"name": "pt"}},
			{ID: 12, Type: vtile.TypeLineString, Geometry: [][]vtile.Point{{{X: 0, Y: 0}, {X: 512, Y: 0}, {X: 512, Y: 512}}}},
		},
	}

	for _, gzipped := range []bool{false, true} {
		t.Run(fmt.Sprintf("gzip=%v", gzipped), func(t *testing.T) {
			t.Parallel()
			data, err := vtenc.MarshalMVT(tl, vtenc.Layer{Name: "layer", Extent: 4096}, gzipped)
			require.NoError(t, err)

			var layers mvt.Layers
			if gzipped {
				layers, err = mvt.UnmarshalGzipped(data)
			} else {
				layers, err = mvt.Unmarshal(data)
			}
			require.NoError(t, err)
			require.Len(t, layers, 1)
			require.Equal(t, "layer", layers[0].Name)
			require.Equal(t, uint32(4096), layers[0].Extent)
			require.Len(t, layers[0].Features, 2)

			point, line := layers[0].Features[0], layers[0].Features[1]
			if diff := cmp.Diff(orb.Geometry(orb.Point{100, 200}), point.Geometry); diff != "" {
				t.Errorf("point mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(orb.Geometry(orb.LineString{{0, 0}, {512, 0}, {512, 512}}), line.Geometry); diff != "" {
				t.Errorf("line mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, "11", fmt.Sprint(point.ID))
			require.Equal(t, "12", fmt.Sprint(line.ID))
			require.Equal(t, "pt", point.Properties["name"])
		})
	}
}

func TestMarshalMVTEmpty(t *testing.T) {
	data, err := vtenc.MarshalMVT(vtile.Empty(tile.ID{}), vtenc.Layer{Name: "layer", Extent: 4096}, false)
	require.NoError(t, err)
	layers, err := mvt.Unmarshal(data)
	require.NoError(t, err)
	for _, l := range layers {
		require.Empty(t, l.Features)
	}
}
