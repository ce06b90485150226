// Package pm writes tilesets as single-file PMTiles v3 archives.
package pm

import (
	"bufio"
	"cmp"
	"crypto/md5"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/eak1mov/go-geojsonvt/pm/spec"
	"github.com/eak1mov/go-geojsonvt/tile"
)

// Writer implements tile.Writer for PMTiles archives. Tiles with identical
// contents are stored once.
type Writer struct {
	logger *slog.Logger
	file   *os.File
	header spec.Header

	tileWriter *bufio.Writer
	tileOffset uint64

	entries   []spec.Entry
	locations map[[16]byte]int // content hash -> entry index
}

type writerConfig struct {
	Metadata []byte
	Header   HeaderMetadata
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata sets the JSON metadata document stored in the archive.
func WithMetadata(metadata []byte) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithHeaderMetadata(header HeaderMetadata) WriterOption {
	return func(c *writerConfig) { c.Header = header }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the archive file. Tile data is streamed right after the
// space reserved for the header, the root directory and the metadata.
func NewWriter(filePath string, opts ...WriterOption) (w *Writer, err error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			file.Close()
		}
	}()

	header := spec.Header{
		HeaderMagic:         spec.HeaderMagicV3,
		Clustered:           true,
		InternalCompression: spec.CompressionGzip,
	}
	config.Header.copyToHeader(&header)

	offset := uint64(spec.HeaderRootDirMaxLength)
	if _, err = file.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}
	if config.Metadata != nil {
		metadata, err := spec.Compress(config.Metadata, header.InternalCompression)
		if err != nil {
			return nil, err
		}
		if _, err = file.Write(metadata); err != nil {
			return nil, err
		}
		header.MetadataOffset = offset
		header.MetadataLength = uint64(len(metadata))
		offset += header.MetadataLength
	}
	header.TileDataOffset = offset

	return &Writer{
		logger:     config.Logger,
		file:       file,
		header:     header,
		tileWriter: bufio.NewWriter(file),
		locations:  make(map[[16]byte]int),
	}, nil
}

// WriteTile appends a tile. Empty tiles are not stored.
func (w *Writer) WriteTile(tileID tile.ID, tileData []byte) error {
	if w.tileWriter == nil {
		return errors.New("pmtiles: write after finalize")
	}
	if len(tileData) == 0 {
		return nil
	}
	w.header.AddressedTilesCount++

	entry := spec.Entry{
		TileCode:  spec.EncodeTileID(tileID),
		Length:    uint32(len(tileData)),
		RunLength: 1,
	}

	digest := md5.Sum(tileData)
	if i, ok := w.locations[digest]; ok {
		entry.Offset = w.entries[i].Offset
		w.entries = append(w.entries, entry)
		return nil
	}

	if _, err := w.tileWriter.Write(tileData); err != nil {
		return errors.Wrapf(err, "pmtiles: write tile %v", tileID)
	}
	entry.Offset = w.tileOffset
	w.tileOffset += uint64(len(tileData))
	w.header.TileContentsCount++

	w.locations[digest] = len(w.entries)
	w.entries = append(w.entries, entry)
	return nil
}

// Finalize writes the directories and the header and closes the file.
func (w *Writer) Finalize() error {
	if w.tileWriter == nil {
		panic(errors.AssertionFailedf("pmtiles: finalize called twice"))
	}

	w.logger.Debug("pmtiles: flush tiles", "bytes", w.tileOffset)
	if err := w.tileWriter.Flush(); err != nil {
		return err
	}
	w.header.TileDataLength = w.tileOffset
	w.tileWriter = nil

	slices.SortFunc(w.entries, func(a, b spec.Entry) int {
		return cmp.Compare(a.TileCode, b.TileCode)
	})
	w.entries = spec.CompactEntries(w.entries)
	w.header.TileEntriesCount = uint64(len(w.entries))

	w.logger.Debug("pmtiles: write directories", "entries", len(w.entries))
	root, leaves, err := spec.BuildDirectories(w.entries, w.header.InternalCompression)
	if err != nil {
		return err
	}

	leavesOffset := w.header.TileDataOffset + w.header.TileDataLength
	if _, err := w.file.WriteAt(leaves, int64(leavesOffset)); err != nil {
		return err
	}
	w.header.LeafDirectoryOffset = leavesOffset
	w.header.LeafDirectoryLength = uint64(len(leaves))

	if _, err := w.file.WriteAt(root, spec.RootDirOffset); err != nil {
		return err
	}
	w.header.RootOffset = spec.RootDirOffset
	w.header.RootLength = uint64(len(root))

	if _, err := w.file.WriteAt(spec.SerializeHeader(&w.header), 0); err != nil {
		return err
	}

	err = w.file.Close()
	w.file = nil
	if err != nil {
		return err
	}
	w.logger.Debug("pmtiles: done",
		"addressed", w.header.AddressedTilesCount,
		"contents", w.header.TileContentsCount)
	return nil
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

var _ tile.Writer = (*Writer)(nil)
