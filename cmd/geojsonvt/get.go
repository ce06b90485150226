package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/eak1mov/go-geojsonvt/vtenc"
	"github.com/google/subcommands"
)

type getCmd struct {
	indexFlags

	inputPath string
	z, x, y   uint
	mvt       bool
	layer     string
}

func (c *getCmd) Name() string     { return "get" }
func (c *getCmd) Synopsis() string { return "print a single tile as GeoJSON or MVT" }
func (c *getCmd) Usage() string {
	return "geojsonvt get -i <path> -tz <z> -tx <x> -ty <y> [-mvt] [index options]\n"
}
func (c *getCmd) SetFlags(f *flag.FlagSet) {
	c.indexFlags.SetFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input GeoJSON path (- for stdin)")
	f.UintVar(&c.z, "tz", 0, "Tile zoom")
	f.UintVar(&c.x, "tx", 0, "Tile column")
	f.UintVar(&c.y, "ty", 0, "Tile row")
	f.BoolVar(&c.mvt, "mvt", false, "Write the tile as uncompressed MVT instead of GeoJSON")
	f.StringVar(&c.layer, "layer", "geojsonLayer", "Vector tile layer name")
}

func (c *getCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	slog.SetDefault(c.logger())
	if err := c.run(slog.Default()); err != nil {
		slog.Error("geojsonvt: get failed", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *getCmd) run(logger *slog.Logger) error {
	fc, err := readFeatures(c.inputPath)
	if err != nil {
		return err
	}
	index, err := c.newIndex(fc, logger)
	if err != nil {
		return err
	}
	t, err := index.GetTile(uint32(c.z), uint32(c.x), uint32(c.y))
	if err != nil {
		return err
	}
	logger.Debug("geojsonvt: tile",
		"id", t.ID,
		"features", len(t.Features),
		"points", t.NumPoints,
		"simplified", t.NumSimplified)

	var data []byte
	if c.mvt {
		data, err = vtenc.MarshalMVT(t, vtenc.Layer{Name: c.layer, Extent: index.Options().Extent}, false)
	} else {
		data, err = vtenc.ToFeatureCollection(t).MarshalJSON()
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
