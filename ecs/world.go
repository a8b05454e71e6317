// Package ecs owns spawned entities and runs the per-tick pipeline:
// animation, collision detection, then script dispatch.
package ecs

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/tilecombat/anim"
	"github.com/milk9111/tilecombat/collision"
	"github.com/milk9111/tilecombat/script"
	"github.com/milk9111/tilecombat/tileset"
)

// ErrUnknownEntity is returned for handles that are not alive.
var ErrUnknownEntity = errors.New("ecs: unknown entity")

// ScriptProperty is the tile property naming a behaviour script file.
const ScriptProperty = "script"

// BindingFactory creates the behaviour binding for a script resource path.
// *script.Factory satisfies it.
type BindingFactory interface {
	Binding(path string) (script.Binding, error)
}

// Options configures a World. The zero value is usable.
type Options struct {
	Anim   anim.Options
	Policy collision.Policy
	// Scripts builds bindings for tiles carrying a script file property.
	// Nil leaves such entities with script.Nop.
	Scripts BindingFactory
	// Parallel advances animations concurrently.
	Parallel bool
	// Workers caps concurrent animation goroutines; 0 means unlimited.
	Workers int
}

// SpawnSpec describes one entity to create.
type SpawnSpec struct {
	Name    string
	Tileset *tileset.Tileset
	TileID  int
	X, Y    float64
	FlipX   bool
	FlipY   bool
	Team    collision.Team
	// Binding overrides the binding derived from the tile's script property.
	Binding script.Binding
}

// World owns entities, their actors and system order.
type World struct {
	entities entityStore
	actors   SparseSet[*Actor]
	sched    *Scheduler
	events   EventQueue

	opts     Options
	detector *collision.Detector
	tracker  *collision.Tracker
	ticks    uint64
	elapsed  time.Duration
}

// NewWorld creates an empty world with the default pipeline.
func NewWorld(opts Options) *World {
	w := &World{
		opts:     opts,
		detector: collision.NewDetector(opts.Policy),
		tracker:  collision.NewTracker(),
	}
	var animSys System = AnimationSystem{}
	if opts.Parallel {
		animSys = ParallelAnimationSystem{Workers: opts.Workers}
	}
	w.sched = NewScheduler(animSys, CollisionSystem{}, ScriptSystem{})
	return w
}

// Spawn creates an entity on spec.TileID and calls its binding's OnSpawn.
func (w *World) Spawn(spec SpawnSpec) (Entity, error) {
	ctrl, err := anim.New(spec.Tileset, spec.TileID, w.opts.Anim)
	if err != nil {
		return 0, fmt.Errorf("ecs: spawn %q: %w", spec.Name, err)
	}
	binding := spec.Binding
	if binding == nil {
		binding, err = w.bindingFor(spec.Tileset, spec.TileID)
		if err != nil {
			return 0, fmt.Errorf("ecs: spawn %q: %w", spec.Name, err)
		}
	}

	e := w.entities.create()
	a := &Actor{
		entity:  e,
		name:    spec.Name,
		ts:      spec.Tileset,
		ctrl:    ctrl,
		binding: binding,
		x:       spec.X,
		y:       spec.Y,
		flipX:   spec.FlipX,
		flipY:   spec.FlipY,
		team:    spec.Team,
	}
	w.actors.Set(e, a)

	if err := binding.OnSpawn(a); err != nil {
		log.Printf("script: entity=%d name=%s on_spawn error: %v", e, a.name, err)
	}
	return e, nil
}

func (w *World) bindingFor(ts *tileset.Tileset, tileID int) (script.Binding, error) {
	if w.opts.Scripts == nil {
		return script.Nop{}, nil
	}
	tile, ok := ts.Tile(tileID)
	if !ok {
		return script.Nop{}, nil
	}
	v, ok := tile.Property(ScriptProperty)
	if !ok {
		return script.Nop{}, nil
	}
	path, ok := v.AsFile()
	if !ok {
		path, ok = v.AsString()
	}
	if !ok || path == "" {
		return script.Nop{}, nil
	}
	return w.opts.Scripts.Binding(path)
}

// Despawn removes e. Its open contacts are dropped without stopped events.
func (w *World) Despawn(e Entity) error {
	if !w.entities.destroy(e) {
		return fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
	w.actors.Remove(e)
	w.tracker.Forget(uint64(e))
	return nil
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Actor returns the actor of a live entity.
func (w *World) Actor(e Entity) (*Actor, bool) {
	return w.actors.Get(e)
}

// Actors returns live actors in spawn order. Callers must not modify the slice.
func (w *World) Actors() []*Actor {
	return w.actors.Values()
}

// Tick advances the world by dt and returns the events it produced, after
// they have been dispatched to scripts.
func (w *World) Tick(dt time.Duration) ([]Event, error) {
	if dt < 0 {
		return nil, fmt.Errorf("%w: negative dt %v", anim.ErrInvalidArgument, dt)
	}
	if err := w.sched.Update(w, dt); err != nil {
		w.events.Drain()
		return nil, err
	}
	w.ticks++
	w.elapsed += dt
	return w.events.Drain(), nil
}

// Events returns the queue systems push into during a tick.
func (w *World) Events() *EventQueue {
	return &w.events
}

// SetScheduler replaces the tick pipeline.
func (w *World) SetScheduler(s *Scheduler) {
	if s == nil {
		return
	}
	w.sched = s
}

func (w *World) Scheduler() *Scheduler { return w.sched }

func (w *World) Detector() *collision.Detector { return w.detector }

func (w *World) Tracker() *collision.Tracker { return w.tracker }

// Ticks is the number of completed ticks.
func (w *World) Ticks() uint64 { return w.ticks }

// Elapsed is the simulated time of all completed ticks.
func (w *World) Elapsed() time.Duration { return w.elapsed }
