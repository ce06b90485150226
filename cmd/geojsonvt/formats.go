package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/mb"
	"github.com/eak1mov/go-geojsonvt/pm"
	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/eak1mov/go-geojsonvt/xyz"
	"github.com/paulmach/orb"
)

func deduceFormat(format, filePath string) string {
	switch {
	case format != "":
		return format
	case strings.HasSuffix(filePath, ".mbtiles"):
		return "mbtiles"
	case strings.HasSuffix(filePath, ".pmtiles"):
		return "pmtiles"
	case strings.Contains(filePath, "{z}"):
		return "xyz"
	}
	return ""
}

// tilesetInfo describes an exported tileset.
type tilesetInfo struct {
	Name    string
	Layer   string
	MinZoom uint32
	MaxZoom uint32
	Bounds  orb.Bound
	Gzip    bool
}

type vectorLayer struct {
	ID      string            `json:"id"`
	Fields  map[string]string `json:"fields"`
	MinZoom uint32            `json:"minzoom"`
	MaxZoom uint32            `json:"maxzoom"`
}

// vectorLayersJSON returns the TileJSON "vector_layers" document shared by
// the MBTiles json row and the PMTiles metadata.
func (info tilesetInfo) vectorLayersJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name": info.Name,
		"vector_layers": []vectorLayer{{
			ID:      info.Layer,
			Fields:  map[string]string{},
			MinZoom: info.MinZoom,
			MaxZoom: info.MaxZoom,
		}},
	})
}

func (info tilesetInfo) mbtilesMetadata(layers []byte) map[string]string {
	b, center := info.Bounds, info.Bounds.Center()
	return map[string]string{
		"name":    info.Name,
		"format":  "pbf",
		"type":    "overlay",
		"minzoom": strconv.FormatUint(uint64(info.MinZoom), 10),
		"maxzoom": strconv.FormatUint(uint64(info.MaxZoom), 10),
		"bounds":  fmt.Sprintf("%g,%g,%g,%g", b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()),
		"center":  fmt.Sprintf("%g,%g,%d", center.Lon(), center.Lat(), info.MinZoom),
		"json":    string(layers),
	}
}

func (info tilesetInfo) pmtilesHeader() pm.HeaderMetadata {
	compression := spec.CompressionNone
	if info.Gzip {
		compression = spec.CompressionGzip
	}
	return pm.HeaderMetadata{
		TileType:        spec.TileTypeMvt,
		TileCompression: compression,
		MinZoom:         uint8(info.MinZoom),
		MaxZoom:         uint8(info.MaxZoom),
		Bounds:          info.Bounds,
		Center:          info.Bounds.Center(),
		CenterZoom:      uint8(info.MinZoom),
	}
}

// newWriter opens a tileset writer. The returned closer releases the
// writer's resources and is safe to call after Finalize.
func newWriter(format, path string, info tilesetInfo, logger *slog.Logger) (tile.Writer, io.Closer, error) {
	layers, err := info.vectorLayersJSON()
	if err != nil {
		return nil, nil, err
	}
	switch format {
	case "mbtiles":
		w, err := mb.NewWriter(path,
			mb.WithMetadata(info.mbtilesMetadata(layers)),
			mb.WithLogger(logger),
		)
		return w, w, err
	case "pmtiles":
		w, err := pm.NewWriter(path,
			pm.WithMetadata(layers),
			pm.WithHeaderMetadata(info.pmtilesHeader()),
			pm.WithLogger(logger),
		)
		return w, w, err
	case "xyz":
		w, err := xyz.NewWriter(path)
		return w, io.NopCloser(nil), err
	}
	return nil, nil, errors.Newf("invalid output format: %q", format)
}
