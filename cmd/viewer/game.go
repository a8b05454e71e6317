package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilecombat/ecs"
	"github.com/milk9111/tilecombat/prefabs"
	"github.com/milk9111/tilecombat/tileset"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 960
	screenHeight = 540
	maxLogLines  = 8
)

type Game struct {
	scene  *prefabs.Scene
	images *imageCache
	ui     *ebitenui.UI

	paused bool
	scale  float64
	lines  []string

	background color.Color
	hitColor   color.Color
	hurtColor  color.Color
}

func NewGame(scene *prefabs.Scene) *Game {
	v := scene.Spec.Viewer
	g := &Game{
		scene:      scene,
		images:     newImageCache(),
		scale:      v.Scale,
		background: colornames.Black,
		hitColor:   colornames.Red,
		hurtColor:  colornames.Deepskyblue,
	}
	if g.scale <= 0 {
		g.scale = 1
	}
	if v.Background != nil {
		g.background = v.Background.Color
	}
	if v.Hitbox != nil {
		g.hitColor = v.Hitbox.Color
	}
	if v.Hurtbox != nil {
		g.hurtColor = v.Hurtbox.Color
	}
	g.ui = NewPauseUI(g)
	return g
}

// setPaused freezes the world clock. Actor controllers are left alone so
// pauses issued by scripts survive.
func (g *Game) setPaused(paused bool) {
	g.paused = paused
}

// step runs a single tick while paused.
func (g *Game) step() error {
	return g.tick()
}

func (g *Game) restart() {
	for _, a := range g.scene.World.Actors() {
		a.Controller().Restart()
	}
	g.scene.World.Tracker().Reset()
	g.lines = nil
}

func (g *Game) tick() error {
	w := g.scene.World
	events, err := w.Tick(g.scene.Spec.Engine.Tick())
	if err != nil {
		return err
	}
	for _, evt := range events {
		g.logEvent(w, evt)
	}
	return nil
}

func (g *Game) logEvent(w *ecs.World, evt ecs.Event) {
	var line string
	switch data := evt.Data.(type) {
	case ecs.AnimationCompleteEvent:
		line = fmt.Sprintf("%6v cycle   entity=%d animation=%d", w.Elapsed(), data.Entity, data.AnimationID)
	case ecs.CollisionEvent:
		line = fmt.Sprintf("%6v %-7s %d -> %d overlap %.1fx%.1f", w.Elapsed(), data.Phase, data.Attacker, data.Defender,
			data.Overlap.Width, data.Overlap.Height)
	default:
		return
	}
	g.lines = append(g.lines, line)
	if len(g.lines) > maxLogLines {
		g.lines = g.lines[len(g.lines)-maxLogLines:]
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.ui.Update()
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			return g.step()
		}
		return nil
	}
	return g.tick()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	w := g.scene.World
	for _, a := range w.Actors() {
		g.drawActor(screen, w, a)
	}

	y := 4
	for _, a := range w.Actors() {
		x, py := a.Position()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s #%d tile=%d frame=%d/%d pos=(%.0f,%.0f)",
			a.Name(), a.Entity(), a.ActiveTileID(), a.Controller().FrameIndex()+1, a.Controller().Len(), x, py), 4, y)
		y += 16
	}
	y = screenHeight - 16*(len(g.lines)+1)
	for _, line := range g.lines {
		ebitenutil.DebugPrintAt(screen, line, 4, y)
		y += 16
	}
	ebitenutil.DebugPrintAt(screen, "P/Esc pause  N step", 4, screenHeight-16)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawActor(screen *ebiten.Image, w *ecs.World, a *ecs.Actor) {
	ts := a.Tileset()
	tileID := a.ActiveTileID()
	tw, th := ts.TileSize(tileID)
	ax, ay := a.Position()
	flipX, flipY := a.Flip()

	tile, _ := ts.Tile(tileID)
	if img := g.images.tile(tile); img != nil {
		op := &ebiten.DrawImageOptions{}
		sx, sy := 1.0, 1.0
		if flipX {
			sx = -1
			op.GeoM.Translate(-float64(tw), 0)
		}
		if flipY {
			sy = -1
			op.GeoM.Translate(0, -float64(th))
		}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(ax, ay)
		op.GeoM.Scale(g.scale, g.scale)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	} else {
		vector.StrokeRect(screen, g.px(ax), g.px(ay), g.px(float64(tw)), g.px(float64(th)), 1, colornames.Gray, false)
	}

	for _, c := range w.Detector().Place(a.Body()) {
		clr := g.shapeColor(c.Shape.Kind)
		r := c.Rect
		vector.DrawFilledRect(screen, g.px(r.X), g.px(r.Y), g.px(r.Width), g.px(r.Height), fade(clr), false)
		vector.StrokeRect(screen, g.px(r.X), g.px(r.Y), g.px(r.Width), g.px(r.Height), 1, clr, false)
	}
}

func (g *Game) shapeColor(kind tileset.ShapeKind) color.Color {
	switch kind {
	case tileset.KindHitbox:
		return g.hitColor
	case tileset.KindHurtbox:
		return g.hurtColor
	}
	return colornames.Yellow
}

func (g *Game) px(v float64) float32 {
	return float32(v * g.scale)
}

func fade(c color.Color) color.Color {
	r, gr, b, a := c.RGBA()
	return color.RGBA64{R: uint16(r / 4), G: uint16(gr / 4), B: uint16(b / 4), A: uint16(a / 4)}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
