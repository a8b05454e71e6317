// Command tilesim runs a scene headless and logs every tick's events.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/milk9111/tilecombat/ecs"
	"github.com/milk9111/tilecombat/prefabs"
)

func main() {
	sceneName := flag.String("scene", "scene.yaml", "scene spec in prefabs/ (disk first, then embedded)")
	ticks := flag.Int("ticks", 60, "number of ticks to simulate")
	dtMS := flag.Int("dt", 0, "tick length in ms (0 uses the scene's tick_ms)")
	parallel := flag.Bool("parallel", false, "advance animations concurrently")
	flag.Parse()

	spec, err := prefabs.LoadSceneSpec(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	if *parallel {
		spec.Engine.Parallel = true
	}
	scene, err := prefabs.BuildScene(spec)
	if err != nil {
		log.Fatal(err)
	}

	dt := spec.Engine.Tick()
	if *dtMS > 0 {
		dt = time.Duration(*dtMS) * time.Millisecond
	}

	w := scene.World
	for i := 0; i < *ticks; i++ {
		events, err := w.Tick(dt)
		if err != nil {
			log.Fatalf("tilesim: tick=%d: %v", w.Ticks(), err)
		}
		for _, evt := range events {
			logEvent(w, evt)
		}
	}

	for _, a := range w.Actors() {
		x, y := a.Position()
		log.Printf("tilesim: entity=%d name=%s tile=%d frame=%d pos=(%.1f,%.1f)",
			a.Entity(), a.Name(), a.ActiveTileID(), a.Controller().FrameIndex(), x, y)
	}
	log.Printf("tilesim: done ticks=%d elapsed=%v", w.Ticks(), w.Elapsed())
}

func logEvent(w *ecs.World, evt ecs.Event) {
	switch data := evt.Data.(type) {
	case ecs.AnimationCompleteEvent:
		log.Printf("tilesim: t=%v animation_complete entity=%d animation=%d", w.Elapsed(), data.Entity, data.AnimationID)
	case ecs.CollisionEvent:
		log.Printf("tilesim: t=%v collision %s attacker=%d hitbox=%d defender=%d hurtbox=%d overlap=(%.1f,%.1f,%.1f,%.1f)",
			w.Elapsed(), data.Phase, data.Attacker, data.PhasedEvent.Attacker.Shape.ID, data.Defender, data.PhasedEvent.Defender.Shape.ID,
			data.Overlap.X, data.Overlap.Y, data.Overlap.Width, data.Overlap.Height)
	}
}
