package spec_test

import (
	"testing"

	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/google/go-cmp/cmp"
)

func TestTileCodeRoundTrip(t *testing.T) {
	for z := range uint32(8) {
		for x := range uint32(1) << z {
			for y := range uint32(1) << z {
				id := tile.ID{X: x, Y: y, Z: z}
				if diff := cmp.Diff(id, spec.DecodeTileID(spec.EncodeTileID(id))); diff != "" {
					t.Errorf("DecodeTileID(EncodeTileID(%v)) mismatch (-want+got):\n%v", id, diff)
				}
			}
		}
	}
	for z := range uint32(tile.MaxZoom + 1) {
		last := uint32(1)<<z - 1
		id := tile.ID{X: last, Y: last, Z: z}
		if diff := cmp.Diff(id, spec.DecodeTileID(spec.EncodeTileID(id))); diff != "" {
			t.Errorf("DecodeTileID(EncodeTileID(%v)) mismatch (-want+got):\n%v", id, diff)
		}
	}
}

func TestTileCodeValues(t *testing.T) {
	for _, tc := range []struct {
		id   tile.ID
		want uint64
	}{
		{tile.ID{}, 0},
		{tile.ID{X: 0, Y: 0, Z: 1}, 1},
		{tile.ID{X: 0, Y: 0, Z: 2}, 5},
	} {
		if got := spec.EncodeTileID(tc.id); got != tc.want {
			t.Errorf("EncodeTileID(%v) = %v, want = %v", tc.id, got, tc.want)
		}
	}
}
