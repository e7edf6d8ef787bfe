package script

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/loop"
)

func newWorld(t *testing.T) *engine.World {
	t.Helper()
	q := loop.NewQueue(loop.NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	w, err := engine.New(engine.Options{MapWidth: 4, MapHeight: 4, Seed: 1}, core.NewSurface(128, 128), q)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return w
}

func mustCompile(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Compile("test.tengo", src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return p
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"syntax error", "on_frame = func(self) {", "compile test.tengo"},
		{"no hooks", "x := 1", "neither on_frame nor on_collide"},
		{"hook is not a function", "on_frame = 5", "neither on_frame nor on_collide"},
		{"top level fails", "x := 1 / 0", "run test.tengo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile("test.tengo", tc.src)
			if err == nil || !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Compile() error = %v, expected it to contain %q", err, tc.message)
			}
		})
	}
}

func TestOnFrameMoves(t *testing.T) {
	w := newWorld(t)
	s := engine.NewSprite(32, 32)
	s.Behavior = mustCompile(t, `on_frame = func(self) { self.move("left") }`).NewBehavior()
	w.AddSprite(s)

	if err := s.Behavior.(engine.FrameHandler).OnFrame(s); err != nil {
		t.Fatalf("OnFrame() error = %v", err)
	}
	if s.PendingMove() != core.DirLeft {
		t.Errorf("PendingMove() = %v, expected left", s.PendingMove())
	}
}

func TestSelfFields(t *testing.T) {
	w := newWorld(t)
	s := engine.NewSprite(64, 96)
	s.Kind = "guard"
	s.Facing = core.DirRight
	b := mustCompile(t, `
on_frame = func(self) {
	self.state.seen = [self.x, self.y, self.tile_x, self.tile_y, self.facing, self.moving, self.is_player, self.kind]
}`).NewBehavior()
	s.Behavior = b
	w.AddSprite(s)

	if err := b.OnFrame(s); err != nil {
		t.Fatal(err)
	}
	seen, ok := b.State("seen").([]any)
	if !ok || len(seen) != 8 {
		t.Fatalf("State(seen) = %#v", b.State("seen"))
	}
	expected := []any{int64(64), int64(96), int64(2), int64(3), "right", false, false, "guard"}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("field %d = %#v, expected %#v", i, seen[i], expected[i])
		}
	}
}

func TestStatePersistsPerBehavior(t *testing.T) {
	p := mustCompile(t, `
counter := 0
on_frame = func(self) {
	counter += 1
	n := self.state.n
	if is_undefined(n) { n = 0 }
	self.state.n = n + 1
	self.state.counter = counter
}`)
	a, b := p.NewBehavior(), p.NewBehavior()
	s := engine.NewSprite(0, 0)

	for i := 0; i < 3; i++ {
		if err := a.OnFrame(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.OnFrame(s); err != nil {
		t.Fatal(err)
	}

	if got := a.State("n"); got != int64(3) {
		t.Errorf("a state n = %v, expected 3", got)
	}
	if got := b.State("n"); got != int64(1) {
		t.Errorf("b state n = %v, expected 1", got)
	}
	// The body reruns before each hook, resetting top-level variables.
	if got := a.State("counter"); got != int64(1) {
		t.Errorf("top-level counter = %v, expected 1", got)
	}
}

func TestOnCollideTalks(t *testing.T) {
	w := newWorld(t)
	npc := engine.NewSprite(32, 0)
	npc.Behavior = mustCompile(t, `
on_collide = func(self, other) {
	if other.is_player {
		self.face(other)
		self.say("Hello", "there")
	}
}`).NewBehavior()
	w.AddSprite(npc)
	p := engine.NewPlayer(0, 0)
	w.SetPlayer(p)

	ok, err := w.CanMoveTo(p, 32, 0)
	if err != nil {
		t.Fatalf("CanMoveTo() error = %v", err)
	}
	if ok {
		t.Error("the npc should block the player")
	}
	if npc.Facing != core.DirLeft {
		t.Errorf("npc Facing = %v, expected left", npc.Facing)
	}
	text := w.CurrentText()
	if text == nil || strings.Join(text.Lines, "|") != "Hello|there" {
		t.Fatalf("CurrentText() = %+v", text)
	}
	if !npc.Suspended() {
		t.Error("say() should suspend the speaker")
	}
	w.HideText()
	if npc.Suspended() {
		t.Error("closing the dialog should resume the speaker")
	}
}

func TestCollideWithoutHandler(t *testing.T) {
	b := mustCompile(t, `on_frame = func(self) {}`).NewBehavior()
	if err := b.OnCollide(engine.NewSprite(0, 0), engine.NewSprite(32, 0)); err != nil {
		t.Errorf("OnCollide() error = %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"division by zero", `on_frame = func(self) { x := 1 / 0 }`, "test.tengo: on_frame"},
		{"bad move argument count", `on_frame = func(self) { self.move() }`, "wrong number of arguments"},
		{"endless loop", `on_frame = func(self) { for {} }`, "exceeded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := engine.NewSprite(0, 0)
			err := mustCompile(t, tc.src).NewBehavior().OnFrame(s)
			if err == nil || !strings.Contains(err.Error(), tc.message) {
				t.Errorf("OnFrame() error = %v, expected it to contain %q", err, tc.message)
			}
		})
	}
}

func TestScriptFaultIsReported(t *testing.T) {
	var codes []engine.ErrorCode
	q := loop.NewQueue(loop.NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	w, err := engine.New(engine.Options{
		MapWidth: 4, MapHeight: 4, Framerate: 20,
		OnError: func(_ *engine.World, code engine.ErrorCode, _ error) { codes = append(codes, code) },
	}, core.NewSurface(128, 128), q)
	if err != nil {
		t.Fatal(err)
	}
	s := engine.NewSprite(0, 0)
	s.Behavior = mustCompile(t, `on_frame = func(self) { self.no_such_method() }`).NewBehavior()
	w.AddSprite(s)

	w.Start()
	q.Advance(0)
	if len(codes) != 1 || codes[0] != engine.CodeSpriteRuntime {
		t.Errorf("faults = %v, expected one sprite-runtime fault", codes)
	}
}

func TestRandomAndDetach(t *testing.T) {
	w := newWorld(t)
	s := engine.NewSprite(64, 0)
	b := mustCompile(t, `
on_frame = func(self) {
	self.state.r = self.random(1, 3)
	if self.tile_x == 2 { self.detach() }
}`).NewBehavior()
	s.Behavior = b
	w.AddSprite(s)

	if err := b.OnFrame(s); err != nil {
		t.Fatal(err)
	}
	r, _ := b.State("r").(int64)
	if r < 1 || r > 3 {
		t.Errorf("random(1, 3) = %v", b.State("r"))
	}
	if s.Attached() {
		t.Error("detach() should remove the sprite")
	}
}

func TestPainter(t *testing.T) {
	b := mustCompile(t, `on_frame = func(self) {}`).NewBehavior()
	s := engine.NewSprite(0, 0)
	dst := core.NewSurface(32, 32)

	if err := b.Paint(s, dst); err != nil {
		t.Fatal(err)
	}
	if got := dst.At(29, 16); got != core.ColorRed {
		t.Errorf("default paint pixel = %v, expected the red placeholder", got)
	}

	called := false
	b.Painter = func(*engine.Sprite, *core.Surface) error { called = true; return nil }
	if err := b.Paint(s, dst); err != nil || !called {
		t.Errorf("Painter not used: called=%v err=%v", called, err)
	}
}
