// Package anim advances per-entity tile animations on a millisecond timing budget.
package anim

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/tilecombat/tileset"
)

// ErrInvalidArgument is returned for negative time steps and unknown tiles.
var ErrInvalidArgument = errors.New("anim: invalid argument")

// Options configures animation switching.
type Options struct {
	// ResetOnSwitch always restarts a switched-to animation from its first frame.
	// When false, a new animation that contains the currently displayed tile
	// continues from that frame.
	ResetOnSwitch bool
}

// Step reports what a single Advance did.
type Step struct {
	// Frames is the number of frame boundaries crossed.
	Frames int
	// Completed counts finished cycles: wraps for looping animations, and one
	// for a one-shot animation reaching its end.
	Completed int
}

// Controller is the runtime animation state of one entity. It is not safe for
// concurrent use; each entity owns its own Controller.
type Controller struct {
	ts   *tileset.Tileset
	opts Options

	tileID   int
	frames   []tileset.Frame
	loop     bool
	cycle    time.Duration
	frame    int
	elapsed  time.Duration
	playing  bool
	finished bool
}

// New creates a controller playing the animation of tileID. A tile without an
// animation shows itself forever.
func New(ts *tileset.Tileset, tileID int, opts Options) (*Controller, error) {
	c := &Controller{ts: ts, opts: opts}
	if err := c.load(tileID); err != nil {
		return nil, err
	}
	c.playing = true
	return c, nil
}

func (c *Controller) load(tileID int) error {
	if c.ts == nil {
		return fmt.Errorf("%w: nil tileset", ErrInvalidArgument)
	}
	tile, ok := c.ts.Tile(tileID)
	if !ok {
		return fmt.Errorf("%w: unknown tile %d", ErrInvalidArgument, tileID)
	}
	c.tileID = tileID
	if tile.Animation == nil {
		c.frames = []tileset.Frame{{TileID: tileID}}
		c.loop = true
		c.cycle = 0
		return nil
	}
	c.frames = tile.Animation.Frames
	c.loop = tile.Animation.Loop
	c.cycle = tile.Animation.Duration()
	return nil
}

// Advance moves the animation forward by dt. Time carries over exactly across
// frame boundaries, so any split of the same total time ends in the same state.
func (c *Controller) Advance(dt time.Duration) (Step, error) {
	var step Step
	if dt < 0 {
		return step, fmt.Errorf("%w: negative dt %v", ErrInvalidArgument, dt)
	}
	if !c.playing || c.finished || c.cycle <= 0 {
		return step, nil
	}

	c.elapsed += dt
	if c.loop && c.elapsed >= c.cycle {
		// each whole cycle from any frame passes the wrap exactly once
		n := c.elapsed / c.cycle
		c.elapsed -= n * c.cycle
		step.Completed += int(n)
		step.Frames += int(n) * len(c.frames)
	}

	last := len(c.frames) - 1
	for c.elapsed >= c.frames[c.frame].Duration {
		if !c.loop && c.frame == last {
			c.elapsed = c.frames[last].Duration
			c.finished = true
			c.playing = false
			step.Completed++
			break
		}
		c.elapsed -= c.frames[c.frame].Duration
		c.frame++
		step.Frames++
		if c.frame > last {
			c.frame = 0
			step.Completed++
		}
	}
	return step, nil
}

// Switch plays the animation of another tile, applying Options.ResetOnSwitch.
// A paused controller stays paused. A finished one-shot starts playing again.
func (c *Controller) Switch(tileID int) error {
	active := c.ActiveTileID()
	prevElapsed := c.elapsed
	if err := c.load(tileID); err != nil {
		return err
	}
	c.frame, c.elapsed = 0, 0
	if c.finished {
		c.playing = true
	}
	c.finished = false
	if c.opts.ResetOnSwitch {
		return nil
	}
	for i, f := range c.frames {
		if f.TileID != active {
			continue
		}
		c.frame = i
		// elapsed only survives while it still fits the shared frame
		if prevElapsed < f.Duration {
			c.elapsed = prevElapsed
		}
		break
	}
	return nil
}

// Seek jumps to frame i of the current animation.
func (c *Controller) Seek(i int) error {
	if i < 0 || i >= len(c.frames) {
		return fmt.Errorf("%w: frame %d out of range [0,%d)", ErrInvalidArgument, i, len(c.frames))
	}
	c.frame = i
	c.elapsed = 0
	c.finished = false
	return nil
}

// Restart rewinds to the first frame and resumes playback.
func (c *Controller) Restart() {
	c.frame, c.elapsed = 0, 0
	c.playing, c.finished = true, false
}

func (c *Controller) Pause() { c.playing = false }

// Resume continues playback. A finished one-shot animation needs Restart.
func (c *Controller) Resume() {
	if c.finished {
		return
	}
	c.playing = true
}

// ActiveTileID returns the tile displayed by the current frame.
func (c *Controller) ActiveTileID() int { return c.frames[c.frame].TileID }

// TileID returns the tile owning the current animation.
func (c *Controller) TileID() int { return c.tileID }

// CycleDuration is the sum of all frame durations, 0 for a static tile.
func (c *Controller) CycleDuration() time.Duration { return c.cycle }

func (c *Controller) FrameIndex() int { return c.frame }

func (c *Controller) Elapsed() time.Duration { return c.elapsed }

func (c *Controller) Playing() bool { return c.playing }

func (c *Controller) Finished() bool { return c.finished }

func (c *Controller) Loop() bool { return c.loop }

func (c *Controller) Len() int { return len(c.frames) }

func (c *Controller) Tileset() *tileset.Tileset { return c.ts }
