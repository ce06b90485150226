package spec

import (
	"math/bits"

	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/google/hilbert"
)

// zoomBase returns the number of tiles on all zoom levels below z.
func zoomBase(z uint32) uint64 {
	return (1<<(2*z) - 1) / 3
}

// EncodeTileID returns the PMTiles v3 tile code: tiles are numbered zoom by
// zoom, along a Hilbert curve within each zoom.
func EncodeTileID(id tile.ID) uint64 {
	h, _ := hilbert.NewHilbert(1 << id.Z)
	d, _ := h.MapInverse(int(id.X), int(id.Y))
	return zoomBase(id.Z) + uint64(d)
}

func DecodeTileID(code uint64) tile.ID {
	z := uint32(bits.Len64(3*code+1)-1) / 2
	h, _ := hilbert.NewHilbert(1 << z)
	x, y, _ := h.Map(int(code - zoomBase(z)))
	return tile.ID{X: uint32(x), Y: uint32(y), Z: z}
}
