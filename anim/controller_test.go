package anim

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/tilecombat/tileset"
)

const ms = time.Millisecond

func frames(durations ...int) *tileset.AnimationDoc {
	doc := &tileset.AnimationDoc{}
	for i, d := range durations {
		doc.Frames = append(doc.Frames, tileset.FrameDoc{TileID: 10 + i, Duration: d})
	}
	return doc
}

// testTileset builds: tile 1 walking across {1,2,3,5,6,7} at 80ms, tile 4 static,
// tile 8 a one-shot across {8,2}, tile 9 uneven looping over tiles 10..12.
func testTileset(t *testing.T) *tileset.Tileset {
	t.Helper()
	walk := &tileset.AnimationDoc{}
	for _, id := range []int{1, 2, 3, 5, 6, 7} {
		walk.Frames = append(walk.Frames, tileset.FrameDoc{TileID: id, Duration: 80})
	}
	once := false
	doc := &tileset.Document{
		Tiles: []tileset.TileDoc{
			{ID: 1, Animation: walk},
			{ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7},
			{ID: 8, Animation: &tileset.AnimationDoc{Loop: &once, Frames: []tileset.FrameDoc{{TileID: 8, Duration: 50}, {TileID: 2, Duration: 30}}}},
			{ID: 9, Animation: frames(15, 40, 5)},
			{ID: 10}, {ID: 11}, {ID: 12},
			{ID: 20, Animation: &tileset.AnimationDoc{Frames: []tileset.FrameDoc{{TileID: 4, Duration: 60}, {TileID: 5, Duration: 60}, {TileID: 3, Duration: 60}}}},
		},
	}
	ts, err := tileset.Load(tileset.DocumentSource{Doc: doc}, tileset.LoadOptions{})
	if err != nil {
		t.Fatalf("load test tileset: %v", err)
	}
	return ts
}

func mustNew(t *testing.T, ts *tileset.Tileset, tile int, opts Options) *Controller {
	t.Helper()
	c, err := New(ts, tile, opts)
	if err != nil {
		t.Fatalf("New(%d): %v", tile, err)
	}
	return c
}

func TestAdvanceWalkCycle(t *testing.T) {
	ts := testTileset(t)
	cases := []struct {
		name    string
		dt      time.Duration
		frame   int
		active  int
		elapsed time.Duration
	}{
		{"start", 0, 0, 1, 0},
		{"inside_first", 79 * ms, 0, 1, 79 * ms},
		{"boundary", 80 * ms, 1, 2, 0},
		{"three_frames", 240 * ms, 3, 5, 0},
		{"partial", 250 * ms, 3, 5, 10 * ms},
		{"last", 470 * ms, 5, 7, 70 * ms},
		{"full_cycle", 480 * ms, 0, 1, 0},
		{"many_cycles", 10*480*ms + 170*ms, 2, 3, 10 * ms},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := mustNew(t, ts, 1, Options{})
			if _, err := ctrl.Advance(c.dt); err != nil {
				t.Fatalf("advance: %v", err)
			}
			if ctrl.FrameIndex() != c.frame || ctrl.ActiveTileID() != c.active || ctrl.Elapsed() != c.elapsed {
				t.Fatalf("expected frame=%d active=%d elapsed=%v, got frame=%d active=%d elapsed=%v",
					c.frame, c.active, c.elapsed, ctrl.FrameIndex(), ctrl.ActiveTileID(), ctrl.Elapsed())
			}
			if ctrl.TileID() != 1 {
				t.Fatalf("owning tile should stay 1, got %d", ctrl.TileID())
			}
		})
	}
}

func TestCycleDurationRoundTrip(t *testing.T) {
	ts := testTileset(t)
	for _, tile := range ts.Tiles() {
		if tile.Animation == nil {
			continue
		}
		ctrl := mustNew(t, ts, tile.ID, Options{})
		var sum time.Duration
		for _, f := range tile.Animation.Frames {
			sum += f.Duration
		}
		if ctrl.CycleDuration() != sum {
			t.Fatalf("tile %d: expected cycle %v, got %v", tile.ID, sum, ctrl.CycleDuration())
		}
		if !ctrl.Loop() {
			continue
		}
		step, err := ctrl.Advance(ctrl.CycleDuration())
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if ctrl.FrameIndex() != 0 || ctrl.Elapsed() != 0 {
			t.Fatalf("tile %d: expected frame 0 elapsed 0 after a full cycle, got %d %v", tile.ID, ctrl.FrameIndex(), ctrl.Elapsed())
		}
		if step.Completed != 1 {
			t.Fatalf("tile %d: expected one completion, got %d", tile.ID, step.Completed)
		}
	}
}

func TestAdvanceAssociative(t *testing.T) {
	ts := testTileset(t)
	splits := [][2]time.Duration{
		{0, 0},
		{1 * ms, 2 * ms},
		{14 * ms, 1 * ms},
		{15 * ms, 45 * ms},
		{59 * ms, 61 * ms},
		{3 * ms, 1000 * ms},
		{777 * ms, 333 * ms},
		{1500 * time.Microsecond, 13500 * time.Microsecond},
	}
	for _, tile := range []int{1, 4, 8, 9} {
		for _, s := range splits {
			a := mustNew(t, ts, tile, Options{})
			b := mustNew(t, ts, tile, Options{})
			sa1, _ := a.Advance(s[0])
			sa2, _ := a.Advance(s[1])
			sb, _ := b.Advance(s[0] + s[1])
			if a.FrameIndex() != b.FrameIndex() || a.Elapsed() != b.Elapsed() || a.Finished() != b.Finished() {
				t.Fatalf("tile %d split %v: split state (%d,%v) != joined state (%d,%v)",
					tile, s, a.FrameIndex(), a.Elapsed(), b.FrameIndex(), b.Elapsed())
			}
			if sa1.Completed+sa2.Completed != sb.Completed {
				t.Fatalf("tile %d split %v: completions differ %d+%d vs %d", tile, s, sa1.Completed, sa2.Completed, sb.Completed)
			}
		}
	}
}

func TestStaticTile(t *testing.T) {
	ts := testTileset(t)
	ctrl := mustNew(t, ts, 4, Options{})
	for _, dt := range []time.Duration{0, 1, 80 * ms, time.Hour} {
		step, err := ctrl.Advance(dt)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if ctrl.ActiveTileID() != 4 || step.Frames != 0 || step.Completed != 0 {
			t.Fatalf("static tile should always show itself, got %d step=%+v", ctrl.ActiveTileID(), step)
		}
	}
	if ctrl.CycleDuration() != 0 || ctrl.Len() != 1 {
		t.Fatalf("static tile: cycle=%v len=%d", ctrl.CycleDuration(), ctrl.Len())
	}
}

func TestOneShot(t *testing.T) {
	ts := testTileset(t)
	ctrl := mustNew(t, ts, 8, Options{})
	step, _ := ctrl.Advance(60 * ms)
	if ctrl.ActiveTileID() != 2 || step.Completed != 0 || ctrl.Finished() {
		t.Fatalf("expected second frame playing, got tile=%d step=%+v", ctrl.ActiveTileID(), step)
	}
	step, _ = ctrl.Advance(time.Second)
	if !ctrl.Finished() || ctrl.Playing() || step.Completed != 1 {
		t.Fatalf("expected finished after the last frame, got step=%+v", step)
	}
	if ctrl.ActiveTileID() != 2 || ctrl.FrameIndex() != 1 {
		t.Fatalf("one-shot should hold its last frame, got %d", ctrl.ActiveTileID())
	}
	step, _ = ctrl.Advance(time.Second)
	if step.Completed != 0 {
		t.Fatalf("completion should be reported once")
	}
	ctrl.Resume()
	if ctrl.Playing() {
		t.Fatalf("resume should not restart a finished animation")
	}
	ctrl.Restart()
	if ctrl.ActiveTileID() != 8 || !ctrl.Playing() {
		t.Fatalf("restart should rewind, got %d", ctrl.ActiveTileID())
	}
}

func TestNegativeDt(t *testing.T) {
	ts := testTileset(t)
	ctrl := mustNew(t, ts, 1, Options{})
	ctrl.Advance(30 * ms)
	if _, err := ctrl.Advance(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if ctrl.Elapsed() != 30*ms {
		t.Fatalf("rejected advance must not change state, elapsed=%v", ctrl.Elapsed())
	}
}

func TestPauseResume(t *testing.T) {
	ts := testTileset(t)
	ctrl := mustNew(t, ts, 1, Options{})
	ctrl.Pause()
	ctrl.Advance(200 * ms)
	if ctrl.FrameIndex() != 0 || ctrl.Elapsed() != 0 {
		t.Fatalf("paused controller should not advance")
	}
	ctrl.Resume()
	ctrl.Advance(200 * ms)
	if ctrl.FrameIndex() != 2 {
		t.Fatalf("expected frame 2, got %d", ctrl.FrameIndex())
	}
}

func TestSwitch(t *testing.T) {
	ts := testTileset(t)

	t.Run("shared_tile_continues", func(t *testing.T) {
		ctrl := mustNew(t, ts, 1, Options{})
		ctrl.Advance(250 * ms) // tile 5, 10ms in
		if err := ctrl.Switch(20); err != nil {
			t.Fatalf("switch: %v", err)
		}
		if ctrl.TileID() != 20 || ctrl.FrameIndex() != 1 || ctrl.ActiveTileID() != 5 || ctrl.Elapsed() != 10*ms {
			t.Fatalf("expected to continue on tile 5, got frame=%d active=%d elapsed=%v", ctrl.FrameIndex(), ctrl.ActiveTileID(), ctrl.Elapsed())
		}
	})

	t.Run("no_shared_tile_resets", func(t *testing.T) {
		ctrl := mustNew(t, ts, 1, Options{})
		ctrl.Advance(90 * ms) // tile 2
		if err := ctrl.Switch(20); err != nil {
			t.Fatalf("switch: %v", err)
		}
		if ctrl.FrameIndex() != 0 || ctrl.Elapsed() != 0 {
			t.Fatalf("expected reset, got frame=%d elapsed=%v", ctrl.FrameIndex(), ctrl.Elapsed())
		}
	})

	t.Run("reset_on_switch", func(t *testing.T) {
		ctrl := mustNew(t, ts, 1, Options{ResetOnSwitch: true})
		ctrl.Advance(250 * ms)
		ctrl.Switch(20)
		if ctrl.FrameIndex() != 0 || ctrl.ActiveTileID() != 4 || ctrl.Elapsed() != 0 {
			t.Fatalf("expected reset, got frame=%d active=%d", ctrl.FrameIndex(), ctrl.ActiveTileID())
		}
	})

	t.Run("paused_stays_paused", func(t *testing.T) {
		ctrl := mustNew(t, ts, 1, Options{})
		ctrl.Pause()
		if err := ctrl.Switch(20); err != nil {
			t.Fatalf("switch: %v", err)
		}
		if ctrl.Playing() {
			t.Fatalf("switch must not resume a paused controller")
		}
		ctrl.Advance(100 * ms)
		if ctrl.FrameIndex() != 0 || ctrl.Elapsed() != 0 {
			t.Fatalf("paused controller advanced to frame=%d elapsed=%v", ctrl.FrameIndex(), ctrl.Elapsed())
		}
	})

	t.Run("finished_one_shot_restarts", func(t *testing.T) {
		ctrl := mustNew(t, ts, 8, Options{})
		ctrl.Advance(100 * ms)
		if !ctrl.Finished() {
			t.Fatalf("expected one-shot to finish")
		}
		if err := ctrl.Switch(1); err != nil {
			t.Fatalf("switch: %v", err)
		}
		if !ctrl.Playing() || ctrl.Finished() {
			t.Fatalf("expected playing after switch, playing=%v finished=%v", ctrl.Playing(), ctrl.Finished())
		}
	})

	t.Run("unknown_tile", func(t *testing.T) {
		ctrl := mustNew(t, ts, 1, Options{})
		ctrl.Advance(90 * ms)
		if err := ctrl.Switch(99); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if ctrl.TileID() != 1 || ctrl.ActiveTileID() != 2 {
			t.Fatalf("failed switch must keep state")
		}
	})
}

func TestNewUnknownTile(t *testing.T) {
	ts := testTileset(t)
	if _, err := New(ts, 99, Options{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := New(nil, 1, Options{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil tileset, got %v", err)
	}
}

func TestSeek(t *testing.T) {
	ts := testTileset(t)
	ctrl := mustNew(t, ts, 1, Options{})
	if err := ctrl.Seek(4); err != nil || ctrl.ActiveTileID() != 6 {
		t.Fatalf("seek: err=%v active=%d", err, ctrl.ActiveTileID())
	}
	if err := ctrl.Seek(6); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
