package prefabs

import (
	"fmt"
	"log"

	"github.com/milk9111/tilecombat/anim"
	"github.com/milk9111/tilecombat/collision"
	"github.com/milk9111/tilecombat/ecs"
	"github.com/milk9111/tilecombat/script"
	"github.com/milk9111/tilecombat/tileset"
)

// Scene is a loaded scene spec with its tileset and a populated world.
type Scene struct {
	Spec     *SceneSpec
	Tileset  *tileset.Tileset
	World    *ecs.World
	Scripts  *script.Factory
	Entities []ecs.Entity
}

// LoadScene loads a scene spec and builds it.
func LoadScene(filename string) (*Scene, error) {
	spec, err := LoadSceneSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildScene(spec)
}

// BuildScene loads the scene's tileset from FS, wires the tengo script
// factory and spawns every entity in declaration order.
func BuildScene(spec *SceneSpec) (*Scene, error) {
	policy, err := spec.Engine.ResourcePolicy()
	if err != nil {
		return nil, err
	}
	ts, err := tileset.LoadFS(FS(), cleanPrefabPath(spec.Tileset), tileset.LoadOptions{Resources: policy})
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %s: %w", spec.Name, err)
	}

	scripts := script.NewFactory(LoadScript)
	w := ecs.NewWorld(ecs.Options{
		Anim:     anim.Options{ResetOnSwitch: spec.Engine.ResetOnSwitch},
		Policy:   collision.Policy{FriendlyFire: spec.Engine.FriendlyFire},
		Scripts:  scripts,
		Parallel: spec.Engine.Parallel,
		Workers:  spec.Engine.Workers,
	})

	scene := &Scene{Spec: spec, Tileset: ts, World: w, Scripts: scripts}
	for i, es := range spec.Entities {
		ss := ecs.SpawnSpec{
			Name:    es.Name,
			Tileset: ts,
			TileID:  es.Tile,
			X:       es.X,
			Y:       es.Y,
			FlipX:   es.FlipX,
			FlipY:   es.FlipY,
			Team:    collision.Team(es.Team),
		}
		if ss.Name == "" {
			ss.Name = fmt.Sprintf("entity%d", i)
		}
		if es.Script != "" {
			b, err := scripts.Binding(es.Script)
			if err != nil {
				return nil, fmt.Errorf("prefabs: scene %s: entity %s: %w", spec.Name, ss.Name, err)
			}
			ss.Binding = b
		}
		e, err := w.Spawn(ss)
		if err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: %w", spec.Name, err)
		}
		scene.Entities = append(scene.Entities, e)
	}
	log.Printf("prefabs: scene=%s tileset=%s entities=%d warnings=%d", spec.Name, ts.Name, len(scene.Entities), len(ts.Warnings()))
	return scene, nil
}
