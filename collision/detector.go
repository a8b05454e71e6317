package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilecombat/common"
	"github.com/milk9111/tilecombat/tileset"
)

// Body is one entity as the detector sees it for a single tick.
type Body struct {
	// ID identifies the owning entity. Bodies sharing a non-zero ID never hit
	// each other.
	ID        uint64
	Tileset   *tileset.Tileset
	TileID    int
	Transform Transform
	Team      Team
}

// Contact is one side of a collision.
type Contact struct {
	// Index is the body's position in the slice passed to Detect.
	Index  int
	Entity uint64
	Shape  tileset.Shape
	// Rect is the shape in world space.
	Rect common.Rect
}

// Event is one intersecting hitbox/hurtbox pair.
type Event struct {
	Attacker Contact
	Defender Contact
	Overlap  common.Rect
}

// Detector finds hitbox/hurtbox overlaps between bodies. It keeps a registry
// per tileset and is not safe for concurrent use.
type Detector struct {
	Policy Policy

	registries map[*tileset.Tileset]*Registry
}

// NewDetector creates a detector with the given policy.
func NewDetector(policy Policy) *Detector {
	return &Detector{Policy: policy, registries: make(map[*tileset.Tileset]*Registry)}
}

// Registry returns the shape registry for ts, building it on first use.
func (d *Detector) Registry(ts *tileset.Tileset) *Registry {
	if d.registries == nil {
		d.registries = make(map[*tileset.Tileset]*Registry)
	}
	r, ok := d.registries[ts]
	if !ok {
		r = NewRegistry(ts)
		d.registries[ts] = r
	}
	return r
}

type placed struct {
	shape tileset.Shape
	rect  common.Rect
}

type bodyShapes struct {
	hits, hurts           []placed
	hitBounds, hurtBounds cp.BB
}

// Place transforms the active shapes of b into world space, in declaration order.
func (d *Detector) Place(b Body) []Contact {
	shapes := d.Registry(b.Tileset).ShapesFor(b.TileID)
	if len(shapes) == 0 {
		return nil
	}
	w, h := b.Tileset.TileSize(b.TileID)
	out := make([]Contact, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, Contact{Entity: b.ID, Shape: s, Rect: b.Transform.Apply(s.Rect, float64(w), float64(h))})
	}
	return out
}

// Detect returns every hitbox/hurtbox intersection between different bodies,
// ordered by (attacker index, hitbox order, defender index, hurtbox order).
// Touching edges and zero-area shapes never produce events.
func (d *Detector) Detect(bodies []Body) []Event {
	// read phase: every body is placed before any pair is tested
	placedBodies := make([]bodyShapes, len(bodies))
	for i, b := range bodies {
		ps := &placedBodies[i]
		for _, c := range d.Place(b) {
			if c.Rect.Empty() {
				continue
			}
			p := placed{shape: c.Shape, rect: c.Rect}
			switch d.Policy.Role(c.Shape.Kind) {
			case RoleAttack:
				ps.hitBounds = mergeBounds(ps.hitBounds, len(ps.hits) == 0, c.Rect)
				ps.hits = append(ps.hits, p)
			case RoleDefend:
				ps.hurtBounds = mergeBounds(ps.hurtBounds, len(ps.hurts) == 0, c.Rect)
				ps.hurts = append(ps.hurts, p)
			}
		}
	}

	var events []Event
	for i, a := range bodies {
		attacker := &placedBodies[i]
		if len(attacker.hits) == 0 {
			continue
		}
		for _, hb := range attacker.hits {
			for j, t := range bodies {
				if i == j || (a.ID != 0 && a.ID == t.ID) {
					continue
				}
				defender := &placedBodies[j]
				if len(defender.hurts) == 0 || !d.Policy.CanHit(a.Team, t.Team) {
					continue
				}
				// broad phase; inclusive, so touching bounds still reach the exact test
				if !attacker.hitBounds.Intersects(defender.hurtBounds) {
					continue
				}
				for _, hu := range defender.hurts {
					overlap, ok := hb.rect.Intersection(hu.rect)
					if !ok {
						continue
					}
					events = append(events, Event{
						Attacker: Contact{Index: i, Entity: a.ID, Shape: hb.shape, Rect: hb.rect},
						Defender: Contact{Index: j, Entity: t.ID, Shape: hu.shape, Rect: hu.rect},
						Overlap:  overlap,
					})
				}
			}
		}
	}
	return events
}

func mergeBounds(bb cp.BB, first bool, r common.Rect) cp.BB {
	if first {
		return r.BB()
	}
	return bb.Merge(r.BB())
}
