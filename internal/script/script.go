// Package script drives sprites from tengo scripts.
//
// A script assigns hook functions to predeclared globals:
//
//	on_frame = func(self) {
//		self.wander(2000, 5000)
//	}
//	on_collide = func(self, other) {
//		if other.is_player { self.face(other); self.say("Hello!") }
//	}
//
// self and other are maps describing a sprite. self also carries methods
// acting on the scripted sprite and a state map that persists between
// calls. Top-level variables do not persist: the script body runs again
// before every hook.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
)

// Timeout bounds a single hook invocation.
const Timeout = 100 * time.Millisecond

const (
	prelude = "on_frame := undefined\non_collide := undefined\n"

	dispatch = `
if __phase == "frame" {
	if is_callable(on_frame) { on_frame(__self) }
} else if __phase == "collide" {
	if is_callable(on_collide) { on_collide(__self, __other) }
}
`
)

// modules lists the stdlib modules scripts may import.
var modules = []string{"fmt", "math", "rand", "text", "times", "enum"}

// Program is a compiled script. It is shared by every sprite using it.
type Program struct {
	name       string
	compiled   *tengo.Compiled
	hasFrame   bool
	hasCollide bool
}

// Compile compiles src. name is used in error messages.
func Compile(name, src string) (*Program, error) {
	s := tengo.NewScript([]byte(prelude + src + "\n" + dispatch))
	s.SetImports(stdlib.GetModuleMap(modules...))
	for _, v := range []string{"__phase", "__self", "__other"} {
		if err := s.Add(v, ""); err != nil {
			return nil, err
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	p := &Program{name: name, compiled: compiled}
	// Run the body once to see which hooks it assigns.
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	p.hasFrame = isCallable(compiled.Get("on_frame"))
	p.hasCollide = isCallable(compiled.Get("on_collide"))
	if !p.hasFrame && !p.hasCollide {
		return nil, fmt.Errorf("%s: script defines neither on_frame nor on_collide", name)
	}
	return p, nil
}

// Name returns the name given to Compile.
func (p *Program) Name() string { return p.name }

// NewBehavior returns a sprite behavior running p with its own globals
// and state.
func (p *Program) NewBehavior() *Behavior {
	return &Behavior{
		program:  p,
		compiled: p.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

func isCallable(v *tengo.Variable) bool {
	if v == nil {
		return false
	}
	obj := v.Object()
	return obj != nil && obj.CanCall()
}

// Behavior adapts a Program to the engine's sprite hooks. Painting is
// delegated to Painter, or the placeholder glyph when it is nil.
type Behavior struct {
	Painter func(s *engine.Sprite, dst *core.Surface) error

	program  *Program
	compiled *tengo.Compiled
	state    *tengo.Map
}

// State returns the value stored under key in the script's state map.
func (b *Behavior) State(key string) any {
	obj, ok := b.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(obj)
}

func (b *Behavior) OnFrame(s *engine.Sprite) error {
	if !b.program.hasFrame {
		return nil
	}
	return b.run("frame", s, nil)
}

func (b *Behavior) OnCollide(s, other *engine.Sprite) error {
	if !b.program.hasCollide {
		return nil
	}
	return b.run("collide", s, other)
}

func (b *Behavior) Paint(s *engine.Sprite, dst *core.Surface) error {
	if b.Painter == nil {
		engine.PaintPlaceholder(s, dst)
		return nil
	}
	return b.Painter(s, dst)
}

func (b *Behavior) run(phase string, s, other *engine.Sprite) error {
	refs := []*engine.Sprite{s}
	self := b.selfObject(s, &refs)
	var otherObj tengo.Object = tengo.UndefinedValue
	if other != nil {
		otherObj = describe(other, len(refs))
		refs = append(refs, other)
	}

	if err := b.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := b.compiled.Set("__self", self); err != nil {
		return err
	}
	if err := b.compiled.Set("__other", otherObj); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := b.compiled.RunContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: on_%s: exceeded %v", b.program.name, phase, Timeout)
		}
		return fmt.Errorf("%s: on_%s: %w", b.program.name, phase, err)
	}
	return nil
}

// describe returns the read-only view of a sprite. ref indexes the
// sprite in the per-call reference table used by face.
func describe(s *engine.Sprite, ref int) *tengo.ImmutableMap {
	tx, ty := s.Tile()
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"ref":       &tengo.Int{Value: int64(ref)},
		"kind":      &tengo.String{Value: s.Kind},
		"x":         &tengo.Int{Value: int64(s.X)},
		"y":         &tengo.Int{Value: int64(s.Y)},
		"tile_x":    &tengo.Int{Value: int64(tx)},
		"tile_y":    &tengo.Int{Value: int64(ty)},
		"facing":    &tengo.String{Value: s.Facing.String()},
		"moving":    boolObject(s.Moving()),
		"is_player": boolObject(s.IsPlayer()),
	}}
}

func (b *Behavior) selfObject(s *engine.Sprite, refs *[]*engine.Sprite) *tengo.ImmutableMap {
	self := describe(s, 0)
	v := self.Value
	v["state"] = b.state

	fn := func(name string, f tengo.CallableFunc) {
		v[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("move", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		d, ok := core.ParseDirection(objectAsString(args[0]))
		if !ok {
			return tengo.FalseValue, nil
		}
		s.RequestMove(d)
		return tengo.TrueValue, nil
	})
	fn("wander", func(args ...tengo.Object) (tengo.Object, error) {
		var ms [2]int64
		for i := 0; i < len(args) && i < 2; i++ {
			n, ok := tengo.ToInt64(args[i])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "delay", Expected: "int", Found: args[i].TypeName()}
			}
			ms[i] = n
		}
		s.Wander(time.Duration(ms[0])*time.Millisecond, time.Duration(ms[1])*time.Millisecond)
		return tengo.UndefinedValue, nil
	})
	fn("face", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		target := lookup(args[0], *refs)
		if target == nil {
			return tengo.FalseValue, nil
		}
		s.FaceSprite(target)
		return tengo.TrueValue, nil
	})
	fn("say", func(args ...tengo.Object) (tengo.Object, error) {
		w := s.World()
		if w == nil {
			return tengo.FalseValue, nil
		}
		lines := make([]string, len(args))
		for i, a := range args {
			lines[i] = objectAsString(a)
		}
		s.Suspend()
		w.ShowText(engine.TextOverlay{
			Lines:   lines,
			OnClose: func(*engine.World) error { s.Resume(); return nil },
		})
		return tengo.TrueValue, nil
	})
	fn("suspend", func(...tengo.Object) (tengo.Object, error) {
		s.Suspend()
		return tengo.UndefinedValue, nil
	})
	fn("resume", func(...tengo.Object) (tengo.Object, error) {
		s.Resume()
		return tengo.UndefinedValue, nil
	})
	fn("detach", func(...tengo.Object) (tengo.Object, error) {
		s.Detach()
		return tengo.UndefinedValue, nil
	})
	fn("debug", func(args ...tengo.Object) (tengo.Object, error) {
		if w := s.World(); w != nil && len(args) > 0 {
			w.Debugf("%s: %s", b.program.name, objectAsString(args[0]))
		}
		return tengo.UndefinedValue, nil
	})
	fn("random", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		lo, ok1 := tengo.ToInt(args[0])
		hi, ok2 := tengo.ToInt(args[1])
		if !ok1 || !ok2 {
			return nil, tengo.ErrInvalidArgumentType{Name: "bound", Expected: "int"}
		}
		w := s.World()
		if w == nil {
			return &tengo.Int{Value: int64(lo)}, nil
		}
		return &tengo.Int{Value: int64(w.RandomInt(lo, hi))}, nil
	})
	return self
}

// lookup resolves a sprite map passed back from a script.
func lookup(obj tengo.Object, refs []*engine.Sprite) *engine.Sprite {
	m, ok := obj.(*tengo.ImmutableMap)
	if !ok {
		return nil
	}
	ref, ok := m.Value["ref"].(*tengo.Int)
	if !ok || ref.Value < 0 || int(ref.Value) >= len(refs) {
		return nil
	}
	return refs[ref.Value]
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := tengo.ToString(obj); ok {
		return s
	}
	return obj.String()
}
