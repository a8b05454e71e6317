// Package script defines the callbacks the engine makes into entity behaviour
// scripts, plus a tengo-backed implementation.
package script

import (
	"errors"

	"github.com/milk9111/tilecombat/collision"
)

// Actor is the entity a behaviour script controls.
type Actor interface {
	ID() uint64
	Name() string
	Position() (x, y float64)
	Move(dx, dy float64)
	SetFlip(flipX bool)
	Play(tileID int) error
	Pause()
	Resume()
	ActiveTileID() int
}

// Binding receives lifecycle and collision callbacks for one entity. The engine
// never calls into a script any other way.
type Binding interface {
	OnSpawn(self Actor) error
	// OnCollision is called for contacts where self is the attacker or the defender.
	OnCollision(self Actor, evt collision.PhasedEvent) error
	// OnAnimationComplete is called once per finished cycle; animationID is the
	// tile owning the animation.
	OnAnimationComplete(self Actor, animationID int) error
}

// Nop ignores every callback.
type Nop struct{}

func (Nop) OnSpawn(Actor) error { return nil }

func (Nop) OnCollision(Actor, collision.PhasedEvent) error { return nil }

func (Nop) OnAnimationComplete(Actor, int) error { return nil }

// Funcs adapts plain functions to a Binding. Nil fields are skipped.
type Funcs struct {
	Spawn             func(self Actor) error
	Collision         func(self Actor, evt collision.PhasedEvent) error
	AnimationComplete func(self Actor, animationID int) error
}

func (f Funcs) OnSpawn(self Actor) error {
	if f.Spawn == nil {
		return nil
	}
	return f.Spawn(self)
}

func (f Funcs) OnCollision(self Actor, evt collision.PhasedEvent) error {
	if f.Collision == nil {
		return nil
	}
	return f.Collision(self, evt)
}

func (f Funcs) OnAnimationComplete(self Actor, animationID int) error {
	if f.AnimationComplete == nil {
		return nil
	}
	return f.AnimationComplete(self, animationID)
}

// Multi fans callbacks out to every binding in order and joins their errors.
type Multi []Binding

func (m Multi) OnSpawn(self Actor) error {
	var errs []error
	for _, b := range m {
		if b != nil {
			errs = append(errs, b.OnSpawn(self))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) OnCollision(self Actor, evt collision.PhasedEvent) error {
	var errs []error
	for _, b := range m {
		if b != nil {
			errs = append(errs, b.OnCollision(self, evt))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) OnAnimationComplete(self Actor, animationID int) error {
	var errs []error
	for _, b := range m {
		if b != nil {
			errs = append(errs, b.OnAnimationComplete(self, animationID))
		}
	}
	return errors.Join(errs...)
}
