package collision

import (
	"github.com/milk9111/tilecombat/common"
	"github.com/milk9111/tilecombat/tileset"
)

// Registry resolves a displayed tile id to its collision shapes. It is built
// once per tileset and is read-only afterwards.
type Registry struct {
	ts     *tileset.Tileset
	shapes map[int][]tileset.Shape
}

// NewRegistry indexes every tile of ts that declares shapes.
func NewRegistry(ts *tileset.Tileset) *Registry {
	r := &Registry{ts: ts, shapes: make(map[int][]tileset.Shape)}
	for _, t := range ts.Tiles() {
		if len(t.Shapes) == 0 {
			continue
		}
		r.shapes[t.ID] = append([]tileset.Shape(nil), t.Shapes...)
	}
	return r
}

// ShapesFor returns the shapes of tileID in tile-local coordinates, in
// declaration order. Tiles without shapes return nil. The slice must not be
// modified.
func (r *Registry) ShapesFor(tileID int) []tileset.Shape {
	if r == nil {
		return nil
	}
	return r.shapes[tileID]
}

// Tileset returns the indexed tileset.
func (r *Registry) Tileset() *tileset.Tileset {
	if r == nil {
		return nil
	}
	return r.ts
}

// Transform places a tile in world space. Rotation and scale are not supported;
// shapes stay axis-aligned.
type Transform struct {
	X, Y  float64
	FlipX bool
	FlipY bool
}

// Apply maps a tile-local rectangle into world space. Flips mirror inside the
// tile's width and height before translation.
func (t Transform) Apply(r common.Rect, tileW, tileH float64) common.Rect {
	if t.FlipX {
		r = r.FlipX(tileW)
	}
	if t.FlipY {
		r = r.FlipY(tileH)
	}
	return r.Translate(t.X, t.Y)
}
