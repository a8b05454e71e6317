package common

import "github.com/jakecoffman/cp"

// Rect is an axis-aligned rectangle in tile or world pixel units. Y grows downwards.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Intersects reports whether r and other share a region of non-zero area.
// Edges that merely touch do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Intersection returns the overlapping region of r and other. ok is false when
// the rectangles do not intersect.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// FlipX mirrors r horizontally inside a container of the given width.
func (r Rect) FlipX(width float64) Rect {
	r.X = width - r.X - r.Width
	return r
}

// FlipY mirrors r vertically inside a container of the given height.
func (r Rect) FlipY(height float64) Rect {
	r.Y = height - r.Y - r.Height
	return r
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// BB converts r into a chipmunk bounding box. B/T follow r's Y axis, so B <= T.
func (r Rect) BB() cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.X + r.Width, T: r.Y + r.Height}
}

// RectFromBB converts a chipmunk bounding box back into a Rect.
func RectFromBB(bb cp.BB) Rect {
	return Rect{X: bb.L, Y: bb.B, Width: bb.R - bb.L, Height: bb.T - bb.B}
}
