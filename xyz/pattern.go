// Package xyz writes tiles into a directory tree, one file per tile, with
// paths built from a pattern like "/tiles/{z}/{x}/{y}.pbf".
package xyz

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/tile"
)

var ErrInvalidPattern = errors.New("xyz: invalid file pattern")

// validatePattern requires {z}, {x} and one of {y} or {-y} (TMS row).
func validatePattern(pattern string) error {
	for _, p := range []string{"{x}", "{z}"} {
		if !strings.Contains(pattern, p) {
			return errors.Wrapf(ErrInvalidPattern, "placeholder %v not found", p)
		}
	}
	if !strings.Contains(pattern, "{y}") && !strings.Contains(pattern, "{-y}") {
		return errors.Wrap(ErrInvalidPattern, "placeholder {y} not found")
	}
	return nil
}

func formatPattern(pattern string, tileID tile.ID) string {
	return strings.NewReplacer(
		"{x}", strconv.FormatUint(uint64(tileID.X), 10),
		"{y}", strconv.FormatUint(uint64(tileID.Y), 10),
		"{-y}", strconv.FormatUint(uint64(1<<tileID.Z-1-tileID.Y), 10),
		"{z}", strconv.FormatUint(uint64(tileID.Z), 10),
	).Replace(pattern)
}
