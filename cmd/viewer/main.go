// Command viewer plays a scene in a window, drawing each entity's active tile
// with its hitboxes and hurtboxes on top.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilecombat/prefabs"
)

func main() {
	sceneName := flag.String("scene", "scene.yaml", "scene spec in prefabs/ (disk first, then embedded)")
	scale := flag.Float64("scale", 0, "draw scale (0 uses the scene's viewer.scale)")
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
	if *scale > 0 {
		spec.Viewer.Scale = *scale
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("tilecombat viewer: " + spec.Name)

	if err := ebiten.RunGame(NewGame(scene)); err != nil {
		log.Fatal(err)
	}
}
