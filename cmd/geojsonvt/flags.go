package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/geojsonvt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// indexFlags are the index options shared by all subcommands.
type indexFlags struct {
	options geojsonvt.Options
	verbose bool
}

func (c *indexFlags) SetFlags(f *flag.FlagSet) {
	c.options = geojsonvt.DefaultOptions()
	o := &c.options
	f.Func("maxzoom", "Max zoom to preserve detail on (default 14)", uintFlag(&o.MaxZoom))
	f.Func("index-maxzoom", "Max zoom built when the index is created (default 5)", uintFlag(&o.IndexMaxZoom))
	f.IntVar(&o.IndexMaxPoints, "index-maxpoints", o.IndexMaxPoints, "Stop splitting tiles with fewer points during index creation")
	f.Float64Var(&o.Tolerance, "tolerance", o.Tolerance, "Simplification tolerance in pixels")
	f.Func("extent", "Tile extent (default 4096)", uintFlag(&o.Extent))
	f.Func("buffer", "Tile buffer on each side in pixels (default 64)", uintFlag(&o.Buffer))
	f.BoolVar(&o.LineMetrics, "linemetrics", false, "Track line clip fractions (mapbox_clip_start/end)")
	f.BoolVar(&o.GenerateID, "generateid", false, "Assign sequential ids to features without one")
	f.IntVar(&o.Concurrency, "j", 1, "Number of goroutines splitting tiles")
	f.IntVar(&o.Debug, "debug", 0, "Debug level (1 logs tiles, 2 panics on internal faults)")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func uintFlag(p *uint32) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		*p = uint32(v)
		return nil
	}
}

func (c *indexFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose || c.options.Debug > 0 {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *indexFlags) newIndex(fc *geojson.FeatureCollection, logger *slog.Logger) (*geojsonvt.Index, error) {
	return geojsonvt.New(fc,
		geojsonvt.WithOptions(c.options),
		geojsonvt.WithLogger(logger),
	)
}

// readFeatures reads a GeoJSON document: a FeatureCollection, a single
// Feature or a bare geometry. "-" reads standard input.
func readFeatures(filePath string) (*geojson.FeatureCollection, error) {
	var data []byte
	var err error
	if filePath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && fc.Type == "FeatureCollection" {
		return fc, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Type == "Feature" {
		fc := geojson.NewFeatureCollection()
		return fc.Append(f), nil
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil && g.Geometry() != nil {
		fc := geojson.NewFeatureCollection()
		return fc.Append(geojson.NewFeature(g.Geometry())), nil
	}
	return nil, errors.Newf("%s: not a GeoJSON document", filePath)
}

// bounds returns the lon/lat bound of all features.
func bounds(fc *geojson.FeatureCollection) orb.Bound {
	var b orb.Bound
	first := true
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if first {
			b, first = f.Geometry.Bound(), false
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	if first {
		return orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}}
	}
	return b
}
