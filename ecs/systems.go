package ecs

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/tilecombat/anim"
	"github.com/milk9111/tilecombat/collision"
	"golang.org/x/sync/errgroup"
)

// AnimationSystem advances every actor's controller in spawn order.
type AnimationSystem struct{}

func (AnimationSystem) Update(w *World, dt time.Duration) error {
	for _, a := range w.Actors() {
		step, err := a.ctrl.Advance(dt)
		if err != nil {
			return fmt.Errorf("ecs: entity=%d advance: %w", a.entity, err)
		}
		pushCompleted(w, a, step)
	}
	return nil
}

// ParallelAnimationSystem advances controllers concurrently. Every advance
// finishes before any event is queued, and events keep spawn order.
type ParallelAnimationSystem struct {
	// Workers caps concurrent goroutines; 0 means one per actor.
	Workers int
}

func (s ParallelAnimationSystem) Update(w *World, dt time.Duration) error {
	actors := w.Actors()
	steps := make([]anim.Step, len(actors))

	var g errgroup.Group
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for i, a := range actors {
		g.Go(func() error {
			step, err := a.ctrl.Advance(dt)
			if err != nil {
				return fmt.Errorf("ecs: entity=%d advance: %w", a.entity, err)
			}
			steps[i] = step
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, a := range actors {
		pushCompleted(w, a, steps[i])
	}
	return nil
}

func pushCompleted(w *World, a *Actor, step anim.Step) {
	for i := 0; i < step.Completed; i++ {
		w.events.Push(Event{
			Type: EventAnimationComplete,
			Data: AnimationCompleteEvent{Entity: a.entity, AnimationID: a.ctrl.TileID()},
		})
	}
}

// CollisionSystem detects hitbox/hurtbox contacts on the frames shown after
// animation and queues them with their phase.
type CollisionSystem struct{}

func (CollisionSystem) Update(w *World, _ time.Duration) error {
	actors := w.Actors()
	bodies := make([]collision.Body, 0, len(actors))
	for _, a := range actors {
		bodies = append(bodies, a.Body())
	}
	for _, evt := range w.tracker.Update(w.detector.Detect(bodies)) {
		w.events.Push(Event{
			Type: EventCollision,
			Data: CollisionEvent{
				Attacker:    Entity(evt.Attacker.Entity),
				Defender:    Entity(evt.Defender.Entity),
				PhasedEvent: evt,
			},
		})
	}
	return nil
}

// ScriptSystem hands queued events to the bindings of the entities involved.
// Collision events go to the attacker first, then the defender. Script errors
// are logged and do not stop the tick.
type ScriptSystem struct{}

func (ScriptSystem) Update(w *World, _ time.Duration) error {
	for _, evt := range w.events.Pending() {
		switch data := evt.Data.(type) {
		case AnimationCompleteEvent:
			a, ok := w.Actor(data.Entity)
			if !ok {
				continue
			}
			if err := a.binding.OnAnimationComplete(a, data.AnimationID); err != nil {
				log.Printf("script: entity=%d name=%s on_animation_complete error: %v", a.entity, a.name, err)
			}
		case CollisionEvent:
			for _, e := range []Entity{data.Attacker, data.Defender} {
				a, ok := w.Actor(e)
				if !ok {
					continue
				}
				if err := a.binding.OnCollision(a, data.PhasedEvent); err != nil {
					log.Printf("script: entity=%d name=%s on_collision error: %v", a.entity, a.name, err)
				}
			}
		}
	}
	return nil
}
