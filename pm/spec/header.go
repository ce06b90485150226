// Package spec implements the binary layout of PMTiles v3 archives: the
// fixed-size header, varint-encoded directories and tile codes.
package spec

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
	CompressionBrotli
	CompressionZstd
)

type TileType uint8

const (
	TileTypeUnknown TileType = iota
	TileTypeMvt
	TileTypePng
	TileTypeJpeg
	TileTypeWebp
	TileTypeAvif
)

// Header is the 127-byte archive header, laid out field by field in file
// order so that it can be read and written with encoding/binary.
type Header struct {
	HeaderMagic         uint64
	RootOffset          uint64
	RootLength          uint64
	MetadataOffset      uint64
	MetadataLength      uint64
	LeafDirectoryOffset uint64
	LeafDirectoryLength uint64
	TileDataOffset      uint64
	TileDataLength      uint64
	AddressedTilesCount uint64
	TileEntriesCount    uint64
	TileContentsCount   uint64
	Clustered           bool
	InternalCompression Compression
	TileCompression     Compression
	TileType            TileType
	MinZoom             uint8
	MaxZoom             uint8
	MinLonE7            int32
	MinLatE7            int32
	MaxLonE7            int32
	MaxLatE7            int32
	CenterZoom          uint8
	CenterLonE7         int32
	CenterLatE7         int32
}

const (
	headerMagic     uint64 = 0x73656C69544D50 // "PMTiles"
	headerMagicMask uint64 = 1<<56 - 1
	HeaderMagicV3   uint64 = headerMagic | (0x03 << 56)

	HeaderLength = 127

	// the root directory must fit into the first 16 KiB together with the header
	HeaderRootDirMaxLength = 16 << 10
	RootDirOffset          = HeaderLength
	RootDirMaxLength       = HeaderRootDirMaxLength - HeaderLength
)

var (
	ErrInvalidHeader  = errors.New("pmtiles: invalid file header")
	ErrInvalidVersion = errors.New("pmtiles: invalid version")
)

func SerializeHeader(header *Header) []byte {
	data, err := binary.Append(make([]byte, 0, HeaderLength), binary.LittleEndian, header)
	if err != nil {
		// Header has a fixed layout
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "serialize header"))
	}
	return data
}

func DeserializeHeader(data []byte) (*Header, error) {
	var header Header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read header"), ErrInvalidHeader)
	}
	if header.HeaderMagic&headerMagicMask != headerMagic {
		return nil, ErrInvalidHeader
	}
	if header.HeaderMagic != HeaderMagicV3 {
		return nil, errors.Wrapf(ErrInvalidVersion, "version %d", header.HeaderMagic>>56)
	}
	return &header, nil
}
