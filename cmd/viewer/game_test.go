package main

import (
	"testing"

	"github.com/milk9111/tilecombat/prefabs"
)

func testGame(t *testing.T) *Game {
	t.Helper()
	scene, err := prefabs.LoadScene("scene.yaml")
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	return &Game{scene: scene}
}

func TestPauseKeepsScriptPauses(t *testing.T) {
	g := testGame(t)
	player := g.scene.World.Actors()[0]
	player.Pause()

	g.setPaused(true)
	g.setPaused(false)
	if player.Controller().Playing() {
		t.Fatalf("unpausing the viewer resumed a script paused actor")
	}
	if !g.scene.World.Actors()[1].Controller().Playing() {
		t.Fatalf("dummy should still be playing")
	}
}

func TestStepAdvancesWhilePaused(t *testing.T) {
	g := testGame(t)
	g.setPaused(true)
	if err := g.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := g.scene.World.Ticks(); got != 1 {
		t.Fatalf("expected one tick, got %d", got)
	}
	if !g.paused {
		t.Fatalf("step must leave the viewer paused")
	}
}
