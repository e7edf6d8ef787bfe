package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/loop"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestWorld builds a world on a virtual clock with a surface exactly
// cols x rows tiles large.
func newTestWorld(t *testing.T, opts Options, cols, rows int) (*World, *loop.Queue) {
	t.Helper()
	q := loop.NewQueue(loop.NewVirtualClock(epoch))
	opts.MapWidth, opts.MapHeight = cols, rows
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	w, err := New(opts, core.NewSurface(cols*core.TileW, rows*core.TileH), q)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w, q
}

func grid(cols, rows, v int) [][]int {
	g := make([][]int, rows)
	for y := range g {
		g[y] = make([]int, cols)
		for x := range g[y] {
			g[y][x] = v
		}
	}
	return g
}

// addOpenMap registers a fully walkable map and returns it.
func addOpenMap(t *testing.T, w *World, id string, init MapInit) *Map {
	t.Helper()
	cols, rows := w.Options().MapWidth, w.Options().MapHeight
	m, err := NewMap(id, NewDrawTileset(nil), grid(cols, rows, 3), grid(cols, rows, 1), grid(cols, rows, 0), init)
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}
	if err := w.AddMap(m); err != nil {
		t.Fatalf("AddMap() error = %v", err)
	}
	return m
}

// hooks implements every sprite capability with optional funcs.
type hooks struct {
	frame   func(s *Sprite) error
	paint   func(s *Sprite, dst *core.Surface) error
	collide func(s, other *Sprite) error
	key     func(s *Sprite, k core.Key) error
	damage  func(s, from *Sprite, amount int) error
}

func (h *hooks) OnFrame(s *Sprite) error {
	if h.frame == nil {
		return nil
	}
	return h.frame(s)
}

func (h *hooks) Paint(s *Sprite, dst *core.Surface) error {
	if h.paint == nil {
		PaintPlaceholder(s, dst)
		return nil
	}
	return h.paint(s, dst)
}

func (h *hooks) OnCollide(s, other *Sprite) error {
	if h.collide == nil {
		return nil
	}
	return h.collide(s, other)
}

func (h *hooks) OnKeyPress(s *Sprite, k core.Key) error {
	if h.key == nil {
		return nil
	}
	return h.key(s, k)
}

func (h *hooks) OnDamage(s, from *Sprite, amount int) error {
	if h.damage == nil {
		return nil
	}
	return h.damage(s, from, amount)
}

type faultLog struct {
	codes []ErrorCode
	errs  []error
}

func (f *faultLog) hook(_ *World, code ErrorCode, err error) {
	f.codes = append(f.codes, code)
	f.errs = append(f.errs, err)
}

func TestNewWithoutSurface(t *testing.T) {
	var faults faultLog
	w, err := New(Options{OnError: faults.hook}, nil, loop.NewQueue(nil))

	if w != nil {
		t.Error("New() should not create a world without a surface")
	}
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("New() error = %v, expected ErrNoSurface", err)
	}
	if len(faults.codes) != 1 || faults.codes[0] != CodeContextInit {
		t.Errorf("OnError codes = %v, expected [%v]", faults.codes, CodeContextInit)
	}
}

func TestNewRunsOnInit(t *testing.T) {
	called := 0
	newTestWorld(t, Options{OnInit: func(*World) error { called++; return nil }}, 2, 2)
	if called != 1 {
		t.Errorf("OnInit called %d times, expected 1", called)
	}
}

func TestOptionsNormalize(t *testing.T) {
	tests := []struct {
		name          string
		in            Options
		fps           int
		width, height int
	}{
		{"defaults", Options{}, 30, 8, 8},
		{"too slow", Options{Framerate: 5}, 10, 8, 8},
		{"too fast", Options{Framerate: 120}, 60, 8, 8},
		{"in range", Options{Framerate: 45}, 45, 8, 8},
		{"negative map size", Options{MapWidth: -16, MapHeight: -12}, 30, 16, 12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := tc.in.normalize()
			if o.Framerate != tc.fps {
				t.Errorf("Framerate = %d, expected %d", o.Framerate, tc.fps)
			}
			if o.MapWidth != tc.width || o.MapHeight != tc.height {
				t.Errorf("map size = %dx%d, expected %dx%d", o.MapWidth, o.MapHeight, tc.width, tc.height)
			}
			if o.Logger == nil {
				t.Error("Logger should default to a discarding logger")
			}
		})
	}
}

func TestFrameSlice(t *testing.T) {
	tests := []struct {
		fps      int
		expected time.Duration
	}{
		{30, 33 * time.Millisecond},
		{60, 17 * time.Millisecond},
		{10, 100 * time.Millisecond},
		{20, 50 * time.Millisecond},
	}

	for _, tc := range tests {
		w, _ := newTestWorld(t, Options{Framerate: tc.fps}, 2, 2)
		if got := w.FrameSlice(); got != tc.expected {
			t.Errorf("FrameSlice() at %d fps = %v, expected %v", tc.fps, got, tc.expected)
		}
	}
}

func TestAddMap(t *testing.T) {
	w, _ := newTestWorld(t, Options{}, 2, 2)
	first := addOpenMap(t, w, "a", nil)

	dup, _ := NewMap("a", NewDrawTileset(nil), grid(2, 2, 2), grid(2, 2, 1), grid(2, 2, 0), nil)
	if err := w.AddMap(dup); err != nil {
		t.Fatalf("AddMap(duplicate) error = %v", err)
	}
	if m, _ := w.Map("a"); m != first {
		t.Error("AddMap() should ignore a duplicate id")
	}

	big, _ := NewMap("big", NewDrawTileset(nil), grid(3, 2, 2), grid(3, 2, 1), grid(3, 2, 0), nil)
	if err := w.AddMap(big); !errors.Is(err, ErrBadMap) {
		t.Errorf("AddMap(wrong size) error = %v, expected ErrBadMap", err)
	}
}

func TestSetCurrentMapRebuildsSprites(t *testing.T) {
	w, _ := newTestWorld(t, Options{}, 2, 2)
	inits := 0
	addOpenMap(t, w, "a", func(w *World, m *Map) error {
		inits++
		w.AddSprite(NewSprite(32, 32))
		return nil
	})

	old := NewSprite(0, 0)
	w.AddSprite(old)

	if err := w.SetCurrentMap("a"); err != nil {
		t.Fatalf("SetCurrentMap() error = %v", err)
	}
	if inits != 1 {
		t.Errorf("map init ran %d times, expected 1", inits)
	}
	if old.Attached() {
		t.Error("SetCurrentMap() should detach previous sprites")
	}
	if n := len(w.Sprites()); n != 1 {
		t.Errorf("len(Sprites()) = %d, expected 1", n)
	}
	if err := w.SetCurrentMap("nope"); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("SetCurrentMap(unknown) error = %v, expected ErrUnknownMap", err)
	}
}

func TestMapInitFaultIsReported(t *testing.T) {
	var faults faultLog
	w, _ := newTestWorld(t, Options{OnError: faults.hook}, 2, 2)
	addOpenMap(t, w, "a", func(*World, *Map) error { panic("broken map") })

	if err := w.SetCurrentMap("a"); err != nil {
		t.Fatalf("SetCurrentMap() error = %v", err)
	}
	if len(faults.codes) != 1 || faults.codes[0] != CodeRuntime {
		t.Errorf("faults = %v, expected one %v", faults.codes, CodeRuntime)
	}
	var fault *Fault
	if !errors.As(faults.errs[0], &fault) {
		t.Errorf("reported error %T should be a *Fault", faults.errs[0])
	}
}

func TestPlayerAndSprites(t *testing.T) {
	w, _ := newTestWorld(t, Options{}, 4, 4)
	p := NewPlayer(0, 0)
	w.SetPlayer(p)
	a, b := NewSprite(32, 0), NewSprite(64, 0)
	w.AddSprite(a)
	w.AddSprite(b)

	all := w.SpritesAndPlayer()
	if len(all) != 3 || all[2] != p {
		t.Fatalf("SpritesAndPlayer() = %v, expected player last of 3", all)
	}
	if got := w.FindSpriteAt(70, 10); got != b {
		t.Errorf("FindSpriteAt(70, 10) = %v, expected b", got)
	}
	if got := w.FindSpriteAt(5, 5); got != nil {
		t.Errorf("FindSpriteAt() should not return the player, got %v", got)
	}

	a.Detach()
	if a.Attached() || len(w.Sprites()) != 1 {
		t.Error("Detach() should remove the sprite")
	}
	p.Detach()
	if !p.Attached() || w.Player() != p {
		t.Error("Detach() on the player should do nothing")
	}
}

func TestInputBuffer(t *testing.T) {
	w, _ := newTestWorld(t, Options{}, 2, 2)

	w.KeyDown(core.KeyLeft)
	if w.LastKey() != core.KeyLeft {
		t.Errorf("LastKey() = %v, expected Left", w.LastKey())
	}
	w.KeyUp()
	if w.LastKey() != core.KeyNone {
		t.Errorf("LastKey() after KeyUp = %v, expected None", w.LastKey())
	}

	w.KeyDown(core.KeyAction)
	w.DisableInput()
	if w.LastKey() != core.KeyNone || w.InputEnabled() {
		t.Error("DisableInput() should clear the key and disable input")
	}
	w.EnableInput()
	if !w.InputEnabled() {
		t.Error("EnableInput() should enable input")
	}
}

func TestRandomInt(t *testing.T) {
	w, _ := newTestWorld(t, Options{Seed: 42}, 2, 2)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		v := w.RandomInt(1, 3)
		if v < 1 || v > 3 {
			t.Fatalf("RandomInt(1, 3) = %d, out of range", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("RandomInt(1, 3) produced %v, expected all of 1..3", seen)
	}
	for i := 0; i < 50; i++ {
		if d := w.RandomDirection(); !d.Valid() {
			t.Fatalf("RandomDirection() = %v", d)
		}
	}
}

func TestDamage(t *testing.T) {
	w, _ := newTestWorld(t, Options{}, 2, 2)
	var got int
	target := NewSprite(0, 0)
	target.Behavior = &hooks{damage: func(_, _ *Sprite, amount int) error { got += amount; return nil }}
	w.AddSprite(target)

	if err := w.Damage(target, nil, 2); err != nil {
		t.Fatalf("Damage() error = %v", err)
	}
	if got != 2 {
		t.Errorf("damage received = %d, expected 2", got)
	}
	if err := w.Damage(NewSprite(0, 0), nil, 1); err != nil {
		t.Errorf("Damage() on a sprite without a handler error = %v", err)
	}
}
