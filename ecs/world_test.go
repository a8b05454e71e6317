package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/tilecombat/anim"
	"github.com/milk9111/tilecombat/collision"
	"github.com/milk9111/tilecombat/script"
	"github.com/milk9111/tilecombat/tileset"
)

func frames(ms int, ids ...int) *tileset.AnimationDoc {
	out := &tileset.AnimationDoc{}
	for _, id := range ids {
		out.Frames = append(out.Frames, tileset.FrameDoc{TileID: id, Duration: ms})
	}
	return out
}

func box(id int, kind string, x, y, w, h float64) tileset.ShapeDoc {
	return tileset.ShapeDoc{ID: id, Kind: kind, X: x, Y: y, Width: w, Height: h}
}

// walkTileset: tile 1 walks over {1,2,3,5,6,7} at 80ms, 10 swings a hitbox,
// 20 stands with a hurtbox, 30 carries a script, 40 is a one-shot.
func walkTileset(t *testing.T) *tileset.Tileset {
	t.Helper()
	once := false
	doc := &tileset.Document{
		TileWidth:  32,
		TileHeight: 32,
		Tiles: []tileset.TileDoc{
			{ID: 1, Animation: frames(80, 1, 2, 3, 5, 6, 7)},
			{ID: 2}, {ID: 3}, {ID: 5}, {ID: 6}, {ID: 7},
			{ID: 10, Shapes: []tileset.ShapeDoc{box(1, "Hitbox", 0, 0, 10, 10)}},
			{ID: 20, Shapes: []tileset.ShapeDoc{box(2, "Hurtbox", 0, 0, 10, 10)}},
			{ID: 30, Properties: []tileset.PropertyDoc{{Name: "script", Type: "file", Value: "scripts/fighter.tengo"}}},
			{ID: 40, Animation: &tileset.AnimationDoc{Loop: &once, Frames: []tileset.FrameDoc{{TileID: 2, Duration: 50}, {TileID: 3, Duration: 50}}}},
		},
	}
	ts, err := tileset.Load(tileset.DocumentSource{Doc: doc}, tileset.LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ts
}

type recorder struct {
	spawned   int
	completed []int
	contacts  []collision.PhasedEvent
}

func (r *recorder) binding() script.Binding {
	return script.Funcs{
		Spawn: func(script.Actor) error {
			r.spawned++
			return nil
		},
		Collision: func(_ script.Actor, evt collision.PhasedEvent) error {
			r.contacts = append(r.contacts, evt)
			return nil
		},
		AnimationComplete: func(_ script.Actor, id int) error {
			r.completed = append(r.completed, id)
			return nil
		},
	}
}

func TestEntityLifecycle(t *testing.T) {
	ts := walkTileset(t)
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(Options{})
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e, err := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1})
				if err != nil {
					t.Fatalf("spawn: %v", err)
				}
				ents = append(ents, e)
			}
			if len(w.Actors()) != c.create {
				t.Fatalf("expected %d actors, got %d", c.create, len(w.Actors()))
			}
			if c.destroyIndex < 0 {
				return
			}
			if err := w.Despawn(ents[c.destroyIndex]); err != nil {
				t.Fatalf("despawn: %v", err)
			}
			if w.IsAlive(ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after despawn")
			}
			if err := w.Despawn(ents[c.destroyIndex]); !errors.Is(err, ErrUnknownEntity) {
				t.Fatalf("expected ErrUnknownEntity, got %v", err)
			}
			for i, e := range ents {
				if i != c.destroyIndex && !w.IsAlive(e) {
					t.Fatalf("entity %d should still be alive", i)
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{})
	old, _ := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1})
	if err := w.Despawn(old); err != nil {
		t.Fatalf("despawn: %v", err)
	}
	fresh, _ := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1})
	if fresh == old {
		t.Fatalf("reused slot must get a new generation")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := w.Actor(old); ok {
		t.Fatalf("stale handle resolved to an actor")
	}
}

func TestSparseSetKeepsOrder(t *testing.T) {
	var s SparseSet[string]
	var store entityStore
	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = store.create()
		s.Set(ents[i], string(rune('a'+i)))
	}
	if !s.Remove(ents[1]) {
		t.Fatalf("remove failed")
	}
	if s.Remove(ents[1]) {
		t.Fatalf("second remove should report false")
	}
	got := ""
	for _, v := range s.Values() {
		got += v
	}
	if got != "acd" {
		t.Fatalf("expected order acd, got %s", got)
	}
	if v, ok := s.Get(ents[3]); !ok || v != "d" {
		t.Fatalf("lookup after remove: %q %v", v, ok)
	}
}

func TestTickWalkCycle(t *testing.T) {
	ts := walkTileset(t)
	cases := []struct {
		name     string
		parallel bool
		ticks    []time.Duration
	}{
		{"single_tick", false, []time.Duration{240 * time.Millisecond}},
		{"split_ticks", false, []time.Duration{100 * time.Millisecond, 60 * time.Millisecond, 80 * time.Millisecond}},
		{"parallel", true, []time.Duration{240 * time.Millisecond}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(Options{Parallel: c.parallel, Workers: 2})
			e, err := w.Spawn(SpawnSpec{Name: "walker", Tileset: ts, TileID: 1})
			if err != nil {
				t.Fatalf("spawn: %v", err)
			}
			for _, dt := range c.ticks {
				if _, err := w.Tick(dt); err != nil {
					t.Fatalf("tick: %v", err)
				}
			}
			a, _ := w.Actor(e)
			if got := a.ActiveTileID(); got != 5 {
				t.Fatalf("expected tile 5 after 240ms, got %d", got)
			}
			if w.Elapsed() != 240*time.Millisecond || w.Ticks() != uint64(len(c.ticks)) {
				t.Fatalf("unexpected clock %v over %d ticks", w.Elapsed(), w.Ticks())
			}
		})
	}
}

func TestTickAnimationComplete(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{Parallel: true})
	rec := &recorder{}
	e, err := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1, Binding: rec.binding()})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if rec.spawned != 1 {
		t.Fatalf("expected OnSpawn once, got %d", rec.spawned)
	}

	events, err := w.Tick(1000 * time.Millisecond)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(events) != 2 || len(rec.completed) != 2 {
		t.Fatalf("expected two completed cycles, got events=%d calls=%d", len(events), len(rec.completed))
	}
	for _, evt := range events {
		data, ok := evt.Data.(AnimationCompleteEvent)
		if evt.Type != EventAnimationComplete || !ok || data.Entity != e || data.AnimationID != 1 {
			t.Fatalf("unexpected event %+v", evt)
		}
	}
}

func TestTickOneShot(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{})
	rec := &recorder{}
	e, _ := w.Spawn(SpawnSpec{Tileset: ts, TileID: 40, Binding: rec.binding()})
	for i := 0; i < 5; i++ {
		if _, err := w.Tick(40 * time.Millisecond); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	a, _ := w.Actor(e)
	if !a.Controller().Finished() || a.ActiveTileID() != 3 {
		t.Fatalf("one-shot should rest on tile 3, got %d finished=%v", a.ActiveTileID(), a.Controller().Finished())
	}
	if len(rec.completed) != 1 || rec.completed[0] != 40 {
		t.Fatalf("expected a single completion for tile 40, got %v", rec.completed)
	}
}

func TestTickCollisionDispatch(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{})
	atk, def := &recorder{}, &recorder{}
	a, _ := w.Spawn(SpawnSpec{Name: "attacker", Tileset: ts, TileID: 10, Team: "red", Binding: atk.binding()})
	d, _ := w.Spawn(SpawnSpec{Name: "defender", Tileset: ts, TileID: 20, X: 5, Y: 5, Team: "blue", Binding: def.binding()})

	events, err := w.Tick(16 * time.Millisecond)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one collision, got %d", len(events))
	}
	hit, ok := events[0].Data.(CollisionEvent)
	if !ok || hit.Attacker != a || hit.Defender != d || hit.Phase != collision.PhaseStarted {
		t.Fatalf("unexpected collision %+v", events[0])
	}
	if hit.Overlap.Width != 5 || hit.Overlap.Height != 5 {
		t.Fatalf("unexpected overlap %+v", hit.Overlap)
	}
	if len(atk.contacts) != 1 || len(def.contacts) != 1 {
		t.Fatalf("both sides should be told, got %d/%d", len(atk.contacts), len(def.contacts))
	}

	if _, err := w.Tick(16 * time.Millisecond); err != nil {
		t.Fatalf("tick: %v", err)
	}
	defActor, _ := w.Actor(d)
	defActor.Move(100, 0)
	events, _ = w.Tick(16 * time.Millisecond)
	if len(events) != 1 || events[0].Data.(CollisionEvent).Phase != collision.PhaseStopped {
		t.Fatalf("expected stopped contact, got %+v", events)
	}
	phases := []collision.Phase{collision.PhaseStarted, collision.PhaseOngoing, collision.PhaseStopped}
	for i, evt := range def.contacts {
		if evt.Phase != phases[i] {
			t.Fatalf("defender event %d: expected %v, got %v", i, phases[i], evt.Phase)
		}
	}
}

func TestTickSameTeam(t *testing.T) {
	ts := walkTileset(t)
	cases := []struct {
		name         string
		friendlyFire bool
		want         int
	}{
		{"blocked", false, 0},
		{"friendly_fire", true, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(Options{Policy: collision.Policy{FriendlyFire: c.friendlyFire}})
			w.Spawn(SpawnSpec{Tileset: ts, TileID: 10, Team: "red"})
			w.Spawn(SpawnSpec{Tileset: ts, TileID: 20, Team: "red"})
			events, err := w.Tick(0)
			if err != nil {
				t.Fatalf("tick: %v", err)
			}
			if len(events) != c.want {
				t.Fatalf("expected %d events, got %d", c.want, len(events))
			}
		})
	}
}

func TestDespawnDropsContacts(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{})
	w.Spawn(SpawnSpec{Tileset: ts, TileID: 10})
	d, _ := w.Spawn(SpawnSpec{Tileset: ts, TileID: 20})
	if events, _ := w.Tick(0); len(events) != 1 {
		t.Fatalf("expected contact, got %d", len(events))
	}
	if err := w.Despawn(d); err != nil {
		t.Fatalf("despawn: %v", err)
	}
	if events, _ := w.Tick(0); len(events) != 0 {
		t.Fatalf("despawned entity should not produce events, got %+v", events)
	}
}

type fakeFactory struct {
	paths []string
}

func (f *fakeFactory) Binding(path string) (script.Binding, error) {
	f.paths = append(f.paths, path)
	return script.Nop{}, nil
}

func TestSpawnBindsScriptProperty(t *testing.T) {
	ts := walkTileset(t)
	f := &fakeFactory{}
	w := NewWorld(Options{Scripts: f})
	if _, err := w.Spawn(SpawnSpec{Tileset: ts, TileID: 30}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(f.paths) != 1 || f.paths[0] != "scripts/fighter.tengo" {
		t.Fatalf("expected one script lookup, got %v", f.paths)
	}
}

func TestSpawnAndTickErrors(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{})
	if _, err := w.Spawn(SpawnSpec{Tileset: ts, TileID: 99}); !errors.Is(err, anim.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown tile, got %v", err)
	}
	if _, err := w.Tick(-time.Millisecond); !errors.Is(err, anim.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative dt, got %v", err)
	}
}

func TestActorCommands(t *testing.T) {
	ts := walkTileset(t)
	w := NewWorld(Options{Anim: anim.Options{ResetOnSwitch: true}})
	e, _ := w.Spawn(SpawnSpec{Tileset: ts, TileID: 1, X: 3, Y: 4})
	a, _ := w.Actor(e)

	a.Move(2, -1)
	if x, y := a.Position(); x != 5 || y != 3 {
		t.Fatalf("unexpected position %v,%v", x, y)
	}
	a.SetFlip(true)
	if body := a.Body(); !body.Transform.FlipX || body.ID != uint64(e) {
		t.Fatalf("unexpected body %+v", body)
	}
	if err := a.Play(40); err != nil {
		t.Fatalf("play: %v", err)
	}
	if a.ActiveTileID() != 2 {
		t.Fatalf("expected first frame of tile 40, got %d", a.ActiveTileID())
	}
	a.Pause()
	w.Tick(time.Second)
	if a.ActiveTileID() != 2 {
		t.Fatalf("paused actor advanced to %d", a.ActiveTileID())
	}
	a.Resume()
	w.Tick(60 * time.Millisecond)
	if a.ActiveTileID() != 3 {
		t.Fatalf("resumed actor should show tile 3, got %d", a.ActiveTileID())
	}
	if err := a.Play(99); err == nil {
		t.Fatalf("expected error for unknown tile")
	}
}
