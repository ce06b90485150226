// Package tile provides common tile interfaces and types.
package tile

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MaxZoom is the deepest zoom level an ID can address.
const MaxZoom = 30

// ID represents tile coordinates in the XYZ scheme (Tiled web map).
type ID struct {
	X uint32
	Y uint32
	Z uint32
}

func (t ID) Valid() bool {
	return t.Z <= MaxZoom && t.X < (1<<t.Z) && t.Y < (1<<t.Z)
}

func (t ID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Parent returns the tile one zoom level up. The root tile is its own parent.
func (t ID) Parent() ID {
	if t.Z == 0 {
		return t
	}
	return ID{X: t.X >> 1, Y: t.Y >> 1, Z: t.Z - 1}
}

// Ancestor returns the tile at zoom z containing t. z must not exceed t.Z.
func (t ID) Ancestor(z uint32) ID {
	steps := t.Z - z
	return ID{X: t.X >> steps, Y: t.Y >> steps, Z: z}
}

// Children returns the four quadrants of t in top-left, bottom-left,
// top-right, bottom-right order.
func (t ID) Children() [4]ID {
	x, y, z := t.X*2, t.Y*2, t.Z+1
	return [4]ID{
		{X: x, Y: y, Z: z},
		{X: x, Y: y + 1, Z: z},
		{X: x + 1, Y: y, Z: z},
		{X: x + 1, Y: y + 1, Z: z},
	}
}

// Contains reports whether other equals t or lies inside it at a deeper zoom.
func (t ID) Contains(other ID) bool {
	if other.Z < t.Z {
		return false
	}
	return other.Ancestor(t.Z) == t
}

// MapTile converts t to the orb tile type.
func (t ID) MapTile() maptile.Tile {
	return maptile.New(t.X, t.Y, maptile.Zoom(t.Z))
}

// Bound returns the lon/lat bound of the tile.
func (t ID) Bound() orb.Bound {
	return t.MapTile().Bound()
}

// Writer defines an interface for writing tiles to a tileset.
type Writer interface {
	// WriteTile writes a single tile to the tileset.
	WriteTile(tileID ID, tileData []byte) error

	// Finalize completes the writing process: flushes buffers, writes header and indices.
	// It must be called before closing the Writer.
	Finalize() error
}
