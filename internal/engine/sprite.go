package engine

import (
	"errors"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Sprite behaviour is supplied through optional capability interfaces.
// A sprite's Behavior value may implement any subset of them; missing
// capabilities fall back to the engine defaults.
type (
	// FrameHandler runs the sprite's per-frame logic.
	FrameHandler interface {
		OnFrame(s *Sprite) error
	}
	// PaintHandler paints the sprite. The default paints a placeholder glyph.
	PaintHandler interface {
		Paint(s *Sprite, dst *core.Surface) error
	}
	// CollideHandler is notified when another sprite tries to move onto this one.
	CollideHandler interface {
		OnCollide(s, other *Sprite) error
	}
	// KeyHandler receives buffered key presses. Only the player's is called.
	KeyHandler interface {
		OnKeyPress(s *Sprite, k core.Key) error
	}
	// DamageHandler receives damage dealt through World.Damage.
	DamageHandler interface {
		OnDamage(s, from *Sprite, amount int) error
	}
)

// Sprite is a movable, paintable, collidable actor. The player is a
// sprite with the player flag set by NewPlayer or World.SetPlayer.
type Sprite struct {
	X, Y          int
	Width, Height int
	HitBox        core.Rect
	Facing        core.Direction

	// Blocking sprites reject moves onto their hit box.
	Blocking bool
	// ReverseCollide asks the player to forward its own collisions with
	// this sprite to this sprite's collide handler.
	ReverseCollide bool
	WalkDuration   time.Duration

	Kind     string
	Behavior any

	moving     bool
	suspended  bool
	player     bool
	nextMove   core.Direction
	nextWander time.Time
	animations []*animSlot
	world      *World
}

// NewSprite creates a detached, blocking sprite at (x, y) facing down.
func NewSprite(x, y int) *Sprite {
	s := &Sprite{
		Width:        core.TileW,
		Height:       core.TileH,
		Facing:       core.DirDown,
		Blocking:     true,
		WalkDuration: DefaultWalkDuration,
	}
	s.UpdateLocation(x, y)
	return s
}

// NewPlayer creates the player sprite at (x, y).
func NewPlayer(x, y int) *Sprite {
	s := NewSprite(x, y)
	s.player = true
	s.Kind = "player"
	return s
}

// World returns the owning world, or nil when detached.
func (s *Sprite) World() *World { return s.world }

// Attached reports whether the sprite belongs to a world.
func (s *Sprite) Attached() bool { return s.world != nil }

// IsPlayer reports whether the sprite is the player variant.
func (s *Sprite) IsPlayer() bool { return s.player }

// Moving reports whether a move animation is in flight.
func (s *Sprite) Moving() bool { return s.moving }

// Suspended reports whether per-frame logic is paused for this sprite.
func (s *Sprite) Suspended() bool { return s.suspended }

// Suspend excludes the sprite from per-frame logic. It still paints and collides.
func (s *Sprite) Suspend() { s.suspended = true }

// Resume re-enables per-frame logic.
func (s *Sprite) Resume() { s.suspended = false }

// Tile returns the sprite's position rounded to tile coordinates.
func (s *Sprite) Tile() (int, int) {
	return core.TileOf(s.X, s.Y)
}

// RequestMove records a one-tile move to be resolved on the next frame.
// A later request before then replaces it; invalid directions are ignored.
func (s *Sprite) RequestMove(d core.Direction) {
	if d.Valid() {
		s.nextMove = d
	}
}

// PendingMove returns the queued move direction, or DirNone.
func (s *Sprite) PendingMove() core.Direction { return s.nextMove }

// PositionForMovement returns the position one tile away in direction d.
func (s *Sprite) PositionForMovement(d core.Direction) (int, int) {
	dx, dy := d.Delta()
	return s.X + dx, s.Y + dy
}

// InHitBox reports whether (x, y) lies in the hit box. The right and
// bottom edges are outside.
func (s *Sprite) InHitBox(x, y int) bool {
	return s.HitBox.Contains(x, y)
}

// UpdateHitBox replaces the hit box.
func (s *Sprite) UpdateHitBox(r core.Rect) {
	s.HitBox = r
}

// UpdateLocation moves the sprite and resets its hit box to its bounds.
func (s *Sprite) UpdateLocation(x, y int) {
	s.X, s.Y = x, y
	s.HitBox = core.NewRect(x, y, s.Width, s.Height)
}

// Bounds returns the sprite's drawing rectangle.
func (s *Sprite) Bounds() core.Rect {
	return core.NewRect(s.X, s.Y, s.Width, s.Height)
}

// FaceSprite turns toward other. Horizontal offset wins over vertical.
func (s *Sprite) FaceSprite(other *Sprite) {
	if other == nil {
		return
	}
	switch {
	case s.X > other.X:
		s.Facing = core.DirLeft
	case s.X < other.X:
		s.Facing = core.DirRight
	case s.Y > other.Y:
		s.Facing = core.DirUp
	case s.Y < other.Y:
		s.Facing = core.DirDown
	}
}

// Animate appends an animation to the sprite's list.
func (s *Sprite) Animate(a Animation) {
	if a != nil {
		s.animations = append(s.animations, &animSlot{anim: a})
	}
}

// Animations returns the sprite's active animations in order.
func (s *Sprite) Animations() []Animation {
	out := make([]Animation, 0, len(s.animations))
	for _, slot := range s.animations {
		out = append(out, slot.anim)
	}
	return out
}

// StopAnimations drops every animation without running its complete
// hook and settles the sprite on its current position.
func (s *Sprite) StopAnimations() {
	s.animations = nil
	s.moving = false
	s.UpdateLocation(s.X, s.Y)
}

// inFlight reports whether a move animation is running or queued.
func (s *Sprite) inFlight() bool {
	if s.moving {
		return true
	}
	for _, slot := range s.animations {
		if _, ok := slot.anim.(*TransformAnimation); ok {
			return true
		}
	}
	return false
}

// AnimateTo starts a move animation toward (x, y). While it runs the hit
// box covers both the source and destination tiles.
func (s *Sprite) AnimateTo(x, y int) {
	d := s.WalkDuration
	if s.player {
		d = PlayerWalkDuration
	}
	a := NewTransformAnimation(s.X, s.Y, x, y, d)
	a.OnBegin = func(sp *Sprite) error {
		sp.moving = true
		if sp.player && sp.world != nil {
			sp.world.DisableInput()
		}
		from := core.NewRect(sp.X, sp.Y, sp.Width, sp.Height)
		to := core.NewRect(x, y, sp.Width, sp.Height)
		sp.UpdateHitBox(from.Union(to))
		return nil
	}
	a.OnComplete = func(sp *Sprite) error {
		sp.moving = false
		if sp.player && sp.world != nil {
			sp.world.EnableInput()
		}
		sp.UpdateLocation(x, y)
		return nil
	}
	s.Animate(a)
}

// Wander requests a move in a random direction whenever the sprite is
// idle and its wander deadline has passed, then picks a new deadline in
// [minDelay, maxDelay]. Call it from a frame handler. A zero minDelay
// means one second of frames; a zero maxDelay means minDelay.
func (s *Sprite) Wander(minDelay, maxDelay time.Duration) {
	w := s.world
	if w == nil {
		return
	}
	if minDelay <= 0 {
		minDelay = time.Duration(float64(w.FrameSlice()) * w.ActualFramerate())
	}
	if maxDelay <= 0 {
		maxDelay = minDelay
	}
	now := w.Now()
	if s.nextWander.IsZero() {
		s.nextWander = now.Add(w.randomDelay(minDelay, maxDelay))
	}
	if !s.moving && !now.Before(s.nextWander) {
		s.RequestMove(w.RandomDirection())
		s.nextWander = now.Add(w.randomDelay(minDelay, maxDelay))
	}
}

// Detach removes the sprite from its world. The player cannot be detached.
func (s *Sprite) Detach() {
	if s.player || s.world == nil {
		return
	}
	s.world.RemoveSprite(s)
}

func (s *Sprite) frameSlice() time.Duration {
	if s.world == nil {
		return time.Second / DefaultFramerate
	}
	return s.world.FrameSlice()
}

func (s *Sprite) onFrame() error {
	if h, ok := s.Behavior.(FrameHandler); ok {
		return h.OnFrame(s)
	}
	return nil
}

func (s *Sprite) paint(dst *core.Surface) error {
	if h, ok := s.Behavior.(PaintHandler); ok {
		return h.Paint(s, dst)
	}
	PaintPlaceholder(s, dst)
	return nil
}

func (s *Sprite) onCollide(other *Sprite) error {
	if h, ok := s.Behavior.(CollideHandler); ok {
		return h.OnCollide(s, other)
	}
	if s.player && other.ReverseCollide {
		return other.onCollide(s)
	}
	return nil
}

func (s *Sprite) onKeyPress(k core.Key) error {
	if h, ok := s.Behavior.(KeyHandler); ok {
		return h.OnKeyPress(s, k)
	}
	return nil
}

func (s *Sprite) onDamage(from *Sprite, amount int) error {
	if h, ok := s.Behavior.(DamageHandler); ok {
		return h.OnDamage(s, from, amount)
	}
	return nil
}

// animate runs one pass over the animation list: begin hooks for new
// animations, Advance, complete hooks for finished ones, then pruning.
// Every animation is visited even if a hook fails; hook errors are joined.
func (s *Sprite) animate() error {
	if len(s.animations) == 0 {
		return nil
	}
	var errs []error
	// Hooks may append animations; only the ones present now run this pass.
	pass := s.animations
	for _, slot := range pass {
		if !slot.started {
			slot.started = true
			if b, ok := slot.anim.(AnimationStarter); ok {
				if err := b.Begin(s); err != nil {
					errs = append(errs, err)
				}
			}
		}
		if slot.anim.Advance(s) {
			slot.done = true
			if c, ok := slot.anim.(AnimationFinisher); ok {
				if err := c.Complete(s); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	live := s.animations[:0:0]
	for _, slot := range s.animations {
		if !slot.done {
			live = append(live, slot)
		}
	}
	s.animations = live
	return errors.Join(errs...)
}

// paintAnimations paints every remaining animation in list order.
func (s *Sprite) paintAnimations(dst *core.Surface) error {
	var errs []error
	for _, slot := range s.animations {
		if p, ok := slot.anim.(AnimationPainter); ok {
			if err := p.Paint(s, dst); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
