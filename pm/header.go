package pm

import (
	"math"

	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/paulmach/orb"
)

// HeaderMetadata holds the descriptive header fields of an archive.
type HeaderMetadata struct {
	TileType        spec.TileType
	TileCompression spec.Compression
	MinZoom         uint8
	MaxZoom         uint8
	Bounds          orb.Bound
	Center          orb.Point
	CenterZoom      uint8
}

func e7(v float64) int32 {
	return int32(math.Round(v * 1e7))
}

func (m *HeaderMetadata) copyToHeader(header *spec.Header) {
	header.TileType = m.TileType
	header.TileCompression = m.TileCompression
	header.MinZoom = m.MinZoom
	header.MaxZoom = m.MaxZoom
	header.MinLonE7 = e7(m.Bounds.Min.Lon())
	header.MinLatE7 = e7(m.Bounds.Min.Lat())
	header.MaxLonE7 = e7(m.Bounds.Max.Lon())
	header.MaxLatE7 = e7(m.Bounds.Max.Lat())
	header.CenterZoom = m.CenterZoom
	header.CenterLonE7 = e7(m.Center.Lon())
	header.CenterLatE7 = e7(m.Center.Lat())
}
