package ecs

import (
	"github.com/milk9111/tilecombat/anim"
	"github.com/milk9111/tilecombat/collision"
	"github.com/milk9111/tilecombat/script"
	"github.com/milk9111/tilecombat/tileset"
)

// Actor is the runtime state of one spawned entity. It implements
// script.Actor so behaviour scripts can command it.
type Actor struct {
	entity  Entity
	name    string
	ts      *tileset.Tileset
	ctrl    *anim.Controller
	binding script.Binding

	x, y         float64
	flipX, flipY bool
	team         collision.Team
}

var _ script.Actor = (*Actor)(nil)

func (a *Actor) Entity() Entity { return a.entity }

func (a *Actor) ID() uint64 { return uint64(a.entity) }

func (a *Actor) Name() string { return a.name }

func (a *Actor) Position() (float64, float64) { return a.x, a.y }

// SetPosition places the actor in world space.
func (a *Actor) SetPosition(x, y float64) {
	a.x, a.y = x, y
}

func (a *Actor) Move(dx, dy float64) {
	a.x += dx
	a.y += dy
}

func (a *Actor) Flip() (flipX, flipY bool) { return a.flipX, a.flipY }

func (a *Actor) SetFlip(flipX bool) { a.flipX = flipX }

func (a *Actor) SetFlipY(flipY bool) { a.flipY = flipY }

func (a *Actor) Team() collision.Team { return a.team }

// Play switches to the animation of tileID.
func (a *Actor) Play(tileID int) error { return a.ctrl.Switch(tileID) }

func (a *Actor) Pause() { a.ctrl.Pause() }

func (a *Actor) Resume() { a.ctrl.Resume() }

func (a *Actor) ActiveTileID() int { return a.ctrl.ActiveTileID() }

// Controller exposes the actor's animation state.
func (a *Actor) Controller() *anim.Controller { return a.ctrl }

func (a *Actor) Tileset() *tileset.Tileset { return a.ts }

func (a *Actor) Binding() script.Binding { return a.binding }

// Body returns the actor as the collision detector sees it this tick.
func (a *Actor) Body() collision.Body {
	return collision.Body{
		ID:      uint64(a.entity),
		Tileset: a.ts,
		TileID:  a.ctrl.ActiveTileID(),
		Transform: collision.Transform{
			X:     a.x,
			Y:     a.y,
			FlipX: a.flipX,
			FlipY: a.flipY,
		},
		Team: a.team,
	}
}
