package pm_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-geojsonvt/pm"
	"github.com/eak1mov/go-geojsonvt/pm/internal"
	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

// pyramid returns every tile up to maxZoom. Tiles of a row share contents
// so that the writer has something to deduplicate.
func pyramid(maxZoom uint32) map[tile.ID][]byte {
	tiles := make(map[tile.ID][]byte)
	for z := range maxZoom + 1 {
		for x := range uint32(1) << z {
			for y := range uint32(1) << z {
				tiles[tile.ID{X: x, Y: y, Z: z}] = fmt.Appendf(nil, "row-%d-%d", z, y)
			}
		}
	}
	return tiles
}

func TestWriter(t *testing.T) {
	for name, tiles := range map[string]map[tile.ID][]byte{
		"Empty":  {},
		"Single": {{X: 3, Y: 5, Z: 4}: []byte("tile")},
		"Small":  pyramid(3),
		"Large":  pyramid(8),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")
			metadata := []byte(`{"name":"test"}`)
			header := pm.HeaderMetadata{
				TileType:        spec.TileTypeMvt,
				TileCompression: spec.CompressionGzip,
				MaxZoom:         8,
				Bounds:          orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}},
				Center:          orb.Point{37.6, 55.75},
				CenterZoom:      4,
			}

			writer, err := pm.NewWriter(filePath, pm.WithMetadata(metadata), pm.WithHeaderMetadata(header))
			require.NoError(t, err)
			defer writer.Close()

			for tileID, tileData := range tiles {
				require.NoError(t, writer.WriteTile(tileID, tileData))
			}
			require.NoError(t, writer.WriteTile(tile.ID{X: 1, Y: 1, Z: 1}, nil))
			require.NoError(t, writer.Finalize())

			archive := internal.ReadArchive(t, filePath)
			if diff := cmp.Diff(metadata, archive.Metadata); diff != "" {
				t.Errorf("metadata mismatch (-want+got):\n%s", diff)
			}
			if diff := cmp.Diff(tiles, archive.Tiles, cmp.Comparer(func(a, b []byte) bool { return string(a) == string(b) })); diff != "" {
				t.Errorf("tiles mismatch (-want+got):\n%s", diff)
			}

			h := archive.Header
			require.Equal(t, uint64(len(tiles)), h.AddressedTilesCount)
			require.Equal(t, spec.TileTypeMvt, h.TileType)
			require.Equal(t, int32(-1800000000), h.MinLonE7)
			require.Equal(t, int32(850000000), h.MaxLatE7)
			require.Equal(t, int32(557500000), h.CenterLatE7)
			require.True(t, h.Clustered)
		})
	}
}

func TestWriterDeduplicates(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiles.pmtiles")
	writer, err := pm.NewWriter(filePath)
	require.NoError(t, err)
	defer writer.Close()

	for x := range uint32(4) {
		require.NoError(t, writer.WriteTile(tile.ID{X: x, Y: 0, Z: 2}, []byte("ocean")))
	}
	require.NoError(t, writer.WriteTile(tile.ID{X: 0, Y: 1, Z: 2}, []byte("land")))
	require.NoError(t, writer.Finalize())

	h := internal.ReadArchive(t, filePath).Header
	require.Equal(t, uint64(5), h.AddressedTilesCount)
	require.Equal(t, uint64(2), h.TileContentsCount)
	require.Equal(t, uint64(len("ocean")+len("land")), h.TileDataLength)
}

func TestWriterFinalizeTwice(t *testing.T) {
	writer, err := pm.NewWriter(filepath.Join(t.TempDir(), "tiles.pmtiles"))
	require.NoError(t, err)
	require.NoError(t, writer.Finalize())
	require.Panics(t, func() { writer.Finalize() })
	require.Error(t, writer.WriteTile(tile.ID{}, []byte("late")))
}
