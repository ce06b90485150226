package spec

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
)

// Entry is a directory entry. RunLength 0 marks a pointer to a leaf
// directory; otherwise the entry covers RunLength consecutive tile codes
// sharing the same data.
type Entry struct {
	TileCode  uint64
	Offset    uint64
	Length    uint32
	RunLength uint32
}

// SerializeDirectory encodes entries column by column: delta-coded tile
// codes, run lengths, lengths, then offsets where 0 means "right after the
// previous entry".
func SerializeDirectory(entries []Entry) []byte {
	buffer := binary.AppendUvarint(nil, uint64(len(entries)))

	var lastCode uint64
	for _, e := range entries {
		buffer = binary.AppendUvarint(buffer, e.TileCode-lastCode)
		lastCode = e.TileCode
	}
	for _, e := range entries {
		buffer = binary.AppendUvarint(buffer, uint64(e.RunLength))
	}
	for _, e := range entries {
		buffer = binary.AppendUvarint(buffer, uint64(e.Length))
	}
	for i, e := range entries {
		if i > 0 && e.Offset == entries[i-1].Offset+uint64(entries[i-1].Length) {
			buffer = binary.AppendUvarint(buffer, 0)
		} else {
			buffer = binary.AppendUvarint(buffer, e.Offset+1)
		}
	}
	return buffer
}

func DeserializeDirectory(data []byte) ([]Entry, error) {
	reader := bytes.NewReader(data)
	var err error
	next := func() uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = binary.ReadUvarint(reader)
		return v
	}

	n := next()
	if n > uint64(len(data)) {
		return nil, errors.Newf("pmtiles: directory claims %d entries in %d bytes", n, len(data))
	}
	entries := make([]Entry, n)
	var lastCode uint64
	for i := range entries {
		lastCode += next()
		entries[i].TileCode = lastCode
	}
	for i := range entries {
		entries[i].RunLength = uint32(next())
	}
	for i := range entries {
		entries[i].Length = uint32(next())
	}
	for i := range entries {
		v := next()
		if v == 0 && i > 0 {
			entries[i].Offset = entries[i-1].Offset + uint64(entries[i-1].Length)
		} else {
			entries[i].Offset = v - 1
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "pmtiles: read directory")
	}
	return entries, nil
}

// CompactEntries merges runs of consecutive tile codes that point to the
// same data into single entries. entries must be sorted by tile code.
func CompactEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}
	last := 0
	for _, e := range entries[1:] {
		prev := &entries[last]
		if e.Offset == prev.Offset && e.TileCode == prev.TileCode+uint64(prev.RunLength) {
			prev.RunLength++
			continue
		}
		last++
		entries[last] = e
	}
	return entries[:last+1]
}

// BuildDirectories serializes entries into a root directory that fits into
// RootDirMaxLength, spilling into leaf directories when needed.
func BuildDirectories(entries []Entry, compression Compression) (root, leaves []byte, err error) {
	root, err = Compress(SerializeDirectory(entries), compression)
	if err != nil || len(root) <= RootDirMaxLength {
		return root, nil, err
	}

	entrySize := float64(len(root)) / float64(len(entries))
	maxRootEntries := float64(RootDirMaxLength) * 0.9 / entrySize
	leafSize := max(float64(len(entries))/maxRootEntries, 4096, math.Sqrt(float64(len(entries))))

	for len(root) > RootDirMaxLength {
		var rootEntries []Entry
		leaves = leaves[:0]
		for chunk := range slices.Chunk(entries, int(leafSize)) {
			leaf, err := Compress(SerializeDirectory(chunk), compression)
			if err != nil {
				return nil, nil, err
			}
			rootEntries = append(rootEntries, Entry{
				TileCode: chunk[0].TileCode,
				Offset:   uint64(len(leaves)),
				Length:   uint32(len(leaf)),
			})
			leaves = append(leaves, leaf...)
		}
		root, err = Compress(SerializeDirectory(rootEntries), compression)
		if err != nil {
			return nil, nil, err
		}
		leafSize *= 1.1
	}
	return root, leaves, nil
}
