package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/geojsonvt"
	"github.com/eak1mov/go-geojsonvt/tile"
	"github.com/eak1mov/go-geojsonvt/vtenc"
	"github.com/eak1mov/go-geojsonvt/vtile"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type tileCmd struct {
	indexFlags

	inputPath    string
	outputFormat string
	outputPath   string
	layer        string
	minZoom      uint
	maxZoom      uint
	gzip         bool
}

func (c *tileCmd) Name() string     { return "tile" }
func (c *tileCmd) Synopsis() string { return "cut a GeoJSON file into a vector tileset" }
func (c *tileCmd) Usage() string {
	return "geojsonvt tile -i <path> -o <path> [-of <format>] [-z <zoom>] [index options]\n"
}
func (c *tileCmd) SetFlags(f *flag.FlagSet) {
	c.indexFlags.SetFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input GeoJSON path (- for stdin)")
	f.StringVar(&c.outputPath, "o", "", "Output path (*.mbtiles, *.pmtiles or a {z}/{x}/{y} pattern)")
	f.StringVar(&c.outputFormat, "of", "", "Output format (mbtiles, pmtiles, xyz)")
	f.StringVar(&c.layer, "layer", "geojsonLayer", "Vector tile layer name")
	f.UintVar(&c.minZoom, "minz", 0, "Min zoom to export")
	f.UintVar(&c.maxZoom, "z", 14, "Max zoom to export")
	f.BoolVar(&c.gzip, "gzip", true, "Gzip encoded tiles")
}

func (c *tileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	slog.SetDefault(c.logger())
	if err := c.run(ctx, slog.Default()); err != nil {
		slog.Error("geojsonvt: tile failed", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *tileCmd) run(ctx context.Context, logger *slog.Logger) error {
	if c.maxZoom > tile.MaxZoom || c.minZoom > c.maxZoom {
		return errors.Newf("invalid zoom range [%d, %d]", c.minZoom, c.maxZoom)
	}

	fc, err := readFeatures(c.inputPath)
	if err != nil {
		return err
	}
	index, err := c.newIndex(fc, logger)
	if err != nil {
		return err
	}

	info := tilesetInfo{
		Name:    strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath)),
		Layer:   c.layer,
		MinZoom: uint32(c.minZoom),
		MaxZoom: uint32(c.maxZoom),
		Bounds:  bounds(fc),
		Gzip:    c.gzip,
	}
	writer, closer, err := newWriter(deduceFormat(c.outputFormat, c.outputPath), c.outputPath, info, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	layer := vtenc.Layer{Name: c.layer, Extent: index.Options().Extent}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("tiles"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
	)

	written := 0
	err = walk(ctx, index, uint32(c.maxZoom), func(id tile.ID, t *vtile.Tile) error {
		bar.Add(1)
		if id.Z < uint32(c.minZoom) {
			return nil
		}
		data, err := vtenc.MarshalMVT(t, layer, c.gzip)
		if err != nil {
			return err
		}
		written++
		return writer.WriteTile(id, data)
	})
	bar.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	if err := writer.Finalize(); err != nil {
		return err
	}
	stats := index.Stats()
	logger.Info("geojsonvt: tileset written",
		"path", c.outputPath,
		"tiles", written,
		"indexed", stats.Total,
		"faults", stats.Faults)
	return nil
}

// walk visits every non-empty tile down to maxZoom, parents before their
// children. Children of an empty tile are empty and are not visited.
func walk(ctx context.Context, index *geojsonvt.Index, maxZoom uint32, visit func(tile.ID, *vtile.Tile) error) error {
	queue := []tile.ID{{}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := queue[0]
		queue = queue[1:]

		t, err := index.GetTile(id.Z, id.X, id.Y)
		if err != nil {
			return err
		}
		if t.IsEmpty() {
			continue
		}
		if err := visit(id, t); err != nil {
			return err
		}
		if id.Z < maxZoom {
			children := id.Children()
			queue = append(queue, children[:]...)
		}
	}
	return nil
}
