package xyz

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/tile"
)

// Writer implements tile.Writer for XYZ directory trees.
type Writer struct {
	filePattern string
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/tiles/{z}/{x}/{y}.pbf").
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	return &Writer{filePattern}, nil
}

// WriteTile writes tileData to the file of tileID, creating directories on
// the way. Empty tiles produce no file.
func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if len(tileData) == 0 {
		return nil
	}
	filePath := formatPattern(w.filePattern, tileID)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.Wrapf(err, "xyz: tile %v", tileID)
	}
	return os.WriteFile(filePath, tileData, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}

var _ tile.Writer = (*Writer)(nil)
