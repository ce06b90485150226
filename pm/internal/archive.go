// Package internal reads PMTiles archives back for tests.
package internal

import (
	"os"
	"testing"

	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/stretchr/testify/require"
)

type Archive struct {
	Header   spec.Header
	Metadata []byte
	Tiles    map[tile.ID][]byte
}

// ReadArchive loads the whole archive at filePath, expanding run-length
// entries and following leaf directories.
func ReadArchive(t *testing.T, filePath string) Archive {
	t.Helper()

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)

	header, err := spec.DeserializeHeader(data[:spec.HeaderLength])
	require.NoError(t, err)

	section := func(offset, length uint64) []byte {
		require.LessOrEqual(t, offset+length, uint64(len(data)))
		return data[offset : offset+length]
	}
	directory := func(offset, length uint64) []spec.Entry {
		raw, err := spec.Decompress(section(offset, length), header.InternalCompression)
		require.NoError(t, err)
		entries, err := spec.DeserializeDirectory(raw)
		require.NoError(t, err)
		return entries
	}

	archive := Archive{Header: *header, Tiles: make(map[tile.ID][]byte)}
	if header.MetadataLength > 0 {
		archive.Metadata, err = spec.Decompress(section(header.MetadataOffset, header.MetadataLength), header.InternalCompression)
		require.NoError(t, err)
	}

	var visit func(entries []spec.Entry)
	visit = func(entries []spec.Entry) {
		for _, e := range entries {
			if e.RunLength == 0 {
				visit(directory(header.LeafDirectoryOffset+e.Offset, uint64(e.Length)))
				continue
			}
			tileData := section(header.TileDataOffset+e.Offset, uint64(e.Length))
			for code := e.TileCode; code < e.TileCode+uint64(e.RunLength); code++ {
				archive.Tiles[spec.DecodeTileID(code)] = tileData
			}
		}
	}
	visit(directory(header.RootOffset, header.RootLength))
	return archive
}
