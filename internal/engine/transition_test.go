package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/loop"
)

// newScrollWorld sets up 16x12 maps where tile (7, 0) of map1 leads up to
// map2, with the player standing on the trigger.
func newScrollWorld(t *testing.T) (*World, *loop.Queue, *int) {
	t.Helper()
	w, q := newTestWorld(t, Options{Framerate: 20}, 16, 12)
	inits := 0
	m1 := addOpenMap(t, w, "map1", nil)
	m1.AddTransition(&MapTransition{X: 7, Y: 0, MapID: "map2", Direction: core.DirUp})
	addOpenMap(t, w, "map2", func(*World, *Map) error { inits++; return nil })
	addOpenMap(t, w, "map3", nil)
	if err := w.SetCurrentMap("map1"); err != nil {
		t.Fatal(err)
	}
	w.SetPlayer(NewPlayer(7*core.TileW, 0))
	return w, q, &inits
}

func TestWalkOffEdgeScrollsToNextMap(t *testing.T) {
	w, q, inits := newScrollWorld(t)
	p := w.Player()

	w.Start()
	p.RequestMove(core.DirUp)
	q.Advance(0)

	if m := w.CurrentMap(); m == nil || m.ID != "map2" {
		t.Fatalf("CurrentMap() = %v, expected map2", m)
	}
	if !w.Suspended() || !w.Transitioning() {
		t.Fatal("the world should be suspended during the scroll")
	}
	if *inits != 1 {
		t.Errorf("map2 init ran %d times, expected 1", *inits)
	}

	q.Advance(3 * TransitionStep)
	if x, y := w.Surface().Origin(); x != 0 || y != 3*core.TileH {
		t.Errorf("Origin() mid-scroll = (%d, %d), expected (0, %d)", x, y, 3*core.TileH)
	}

	q.Advance(time.Second)
	if w.Suspended() || w.Transitioning() {
		t.Error("the world should resume once the scroll completes")
	}
	if p.X != 224 || p.Y != 352 {
		t.Errorf("player at (%d, %d), expected (224, 352)", p.X, p.Y)
	}
	if p.HitBox != core.NewRect(224, 352, 32, 32) {
		t.Errorf("player HitBox = %+v, expected {224 352 32 32}", p.HitBox)
	}
	if x, y := w.Surface().Origin(); x != 0 || y != 0 {
		t.Errorf("Origin() after scroll = (%d, %d), expected (0, 0)", x, y)
	}
	if *inits != 1 {
		t.Errorf("map2 init ran %d times, expected 1", *inits)
	}
}

func TestTransitionPlacesPlayerOnOppositeEdge(t *testing.T) {
	tests := []struct {
		dir    core.Direction
		px, py int
	}{
		{core.DirUp, 5, 11},
		{core.DirDown, 5, 0},
		{core.DirLeft, 15, 3},
		{core.DirRight, 0, 3},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			w, q, _ := newScrollWorld(t)
			p := w.Player()
			p.UpdateLocation(5*core.TileW, 3*core.TileH)

			if err := w.TransitionToMap("map2", tc.dir); err != nil {
				t.Fatalf("TransitionToMap() error = %v", err)
			}
			q.Advance(time.Second)

			if tx, ty := p.Tile(); tx != tc.px || ty != tc.py {
				t.Errorf("player tile = (%d, %d), expected (%d, %d)", tx, ty, tc.px, tc.py)
			}
			if w.Transitioning() {
				t.Error("scroll did not finish")
			}
		})
	}
}

func TestTransitionDuringScrollIsQueued(t *testing.T) {
	w, _, _ := newScrollWorld(t)

	if err := w.TransitionToMap("map2", core.DirUp); err != nil {
		t.Fatal(err)
	}
	if err := w.TransitionToMap("map3", core.DirLeft); err != nil {
		t.Fatalf("TransitionToMap() during scroll error = %v", err)
	}
	if m := w.CurrentMap(); m.ID != "map2" {
		t.Errorf("CurrentMap() = %s, expected map2", m.ID)
	}
	pt := w.PendingTransition()
	if pt == nil || pt.MapID != "map3" || pt.Direction != core.DirLeft {
		t.Errorf("PendingTransition() = %+v, expected map3 left", pt)
	}
}

func TestTransitionErrors(t *testing.T) {
	w, _, _ := newScrollWorld(t)
	if err := w.TransitionToMap("nowhere", core.DirUp); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("TransitionToMap(unknown) error = %v, expected ErrUnknownMap", err)
	}
	if w.Suspended() {
		t.Error("a failed transition should not suspend the world")
	}

	empty, _ := newTestWorld(t, Options{}, 16, 12)
	addOpenMap(t, empty, "map2", nil)
	if err := empty.TransitionToMap("map2", core.DirUp); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("TransitionToMap() without a current map error = %v, expected ErrUnknownMap", err)
	}
}

func TestRestartDropsQueuedTransition(t *testing.T) {
	w, q, inits := newScrollWorld(t)
	p := w.Player()
	restarted := false
	p.Behavior = &hooks{frame: func(s *Sprite) error {
		if !restarted {
			restarted = true
			s.World().QueueTransition(&MapTransition{X: 7, Y: 0, MapID: "map2", Direction: core.DirUp})
			s.World().Restart()
		}
		return nil
	}}

	w.Start()
	q.Advance(0)
	if w.Transitioning() {
		t.Fatal("a transition queued in the frame that restarts should not start")
	}

	q.Advance(time.Second)
	if m := w.CurrentMap(); m.ID != "map1" {
		t.Errorf("CurrentMap() = %s, expected map1", m.ID)
	}
	if w.PendingTransition() != nil {
		t.Error("PendingTransition() should be cleared by the restart")
	}
	if *inits != 0 {
		t.Errorf("map2 init ran %d times, expected 0", *inits)
	}
	if tx, ty := p.Tile(); tx != 7 || ty != 0 {
		t.Errorf("player tile = (%d, %d), expected (7, 0)", tx, ty)
	}
}

func TestRestartAbandonsRunningScroll(t *testing.T) {
	w, q, _ := newScrollWorld(t)
	p := w.Player()

	w.Start()
	p.RequestMove(core.DirUp)
	q.Advance(0)
	if !w.Transitioning() {
		t.Fatal("the scroll should be running")
	}

	w.Restart()
	q.Advance(time.Second)

	if w.Transitioning() || w.Suspended() {
		t.Errorf("Transitioning() = %v, Suspended() = %v, expected both false", w.Transitioning(), w.Suspended())
	}
	if !w.Active() {
		t.Error("the world should be running again")
	}
	if x, y := w.Surface().Origin(); x != 0 || y != 0 {
		t.Errorf("Origin() = (%d, %d), expected (0, 0)", x, y)
	}
	if tx, ty := p.Tile(); tx != 7 || ty != 0 {
		t.Errorf("player tile = (%d, %d), expected to stay at (7, 0)", tx, ty)
	}
}
