package tileset

import (
	"time"

	"github.com/milk9111/tilecombat/common"
)

// Tileset is an immutable, loaded-once collection of tiles. It is safe for
// concurrent readers.
type Tileset struct {
	Name       string
	TileWidth  int
	TileHeight int
	TileCount  int
	// Columns is 0 for collection-of-images tilesets.
	Columns int
	Image   *Resource

	properties Properties
	tiles      []*Tile
	index      map[int]int
	warnings   []error
}

// Tile is one addressable visual unit.
type Tile struct {
	ID         int
	Image      *Resource
	Animation  *Animation
	Shapes     []Shape
	Properties Properties
	// Implicit is set for grid tiles that were not declared in the descriptor.
	Implicit bool
}

// Animation is a non-empty, ordered frame sequence.
type Animation struct {
	Frames []Frame
	Loop   bool
	total  time.Duration
}

// Frame displays TileID for Duration.
type Frame struct {
	TileID   int
	Duration time.Duration
}

// Shape is a named collision rectangle in tile-local, unscaled pixels.
type Shape struct {
	ID   int
	Name string
	Kind ShapeKind
	Rect common.Rect
}

// Tile returns the tile with the given id.
func (ts *Tileset) Tile(id int) (*Tile, bool) {
	if ts == nil {
		return nil, false
	}
	i, ok := ts.index[id]
	if !ok {
		return nil, false
	}
	return ts.tiles[i], true
}

// Tiles returns the tiles in declaration order. The slice must not be modified.
func (ts *Tileset) Tiles() []*Tile {
	if ts == nil {
		return nil
	}
	return ts.tiles
}

// Property returns a tileset-level property.
func (ts *Tileset) Property(key string) (Value, bool) {
	if ts == nil {
		return Value{}, false
	}
	return ts.properties.Get(key)
}

// Properties returns the tileset-level property bag.
func (ts *Tileset) Properties() Properties {
	if ts == nil {
		return nil
	}
	return ts.properties
}

// Warnings returns the non-fatal problems found while loading.
func (ts *Tileset) Warnings() []error {
	if ts == nil {
		return nil
	}
	return ts.warnings
}

// TileSize returns the pixel size of the tile with the given id, falling back
// to the tileset's tile size when the tile has no sized image.
func (ts *Tileset) TileSize(id int) (int, int) {
	if t, ok := ts.Tile(id); ok && t.Image != nil && t.Image.Width > 0 && t.Image.Height > 0 {
		return t.Image.Width, t.Image.Height
	}
	if ts == nil {
		return 0, 0
	}
	return ts.TileWidth, ts.TileHeight
}

// Property returns a tile-level property.
func (t *Tile) Property(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	return t.Properties.Get(key)
}

// Duration returns the total cycle duration.
func (a *Animation) Duration() time.Duration {
	if a == nil {
		return 0
	}
	return a.total
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Frames)
}
