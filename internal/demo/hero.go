package demo

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
)

// Player tuning.
const (
	StartHP       = 50
	SwordDuration = 250 * time.Millisecond
	FlashDuration = 500 * time.Millisecond
)

// Hero is the player's behaviour: arrow keys walk, space swings the sword
// at the tile in front. Creatures hurt the hero; at zero hit points the
// world restarts.
type Hero struct {
	HP    int
	Money int

	look       *walkCycle
	nextAttack core.Direction
}

// NewHero returns a hero at full health painted from the bard sheet.
func NewHero(cache *engine.AssetCache) *Hero {
	h := &Hero{look: newWalkCycle(cache, SheetBard, 0, 0, 1)}
	h.Reset()
	return h
}

// Reset restores hit points and empties the purse.
func (h *Hero) Reset() {
	h.HP = StartHP
	h.Money = 0
	h.nextAttack = core.DirNone
}

// AddMoney adds amount to the purse.
func (h *Hero) AddMoney(w *engine.World, amount int) {
	w.Debugf("received $%d", amount)
	h.Money += amount
}

func (h *Hero) OnKeyPress(s *engine.Sprite, k core.Key) error {
	switch k {
	case core.KeyUp, core.KeyDown, core.KeyLeft, core.KeyRight:
		s.RequestMove(k.Direction())
	case core.KeyAction:
		h.nextAttack = s.Facing
	}
	s.World().HideText()
	return nil
}

func (h *Hero) OnFrame(s *engine.Sprite) error {
	if !h.nextAttack.Valid() {
		return nil
	}
	w := s.World()
	x, y := s.PositionForMovement(h.nextAttack)
	h.nextAttack = core.DirNone
	s.Animate(swordAnimation())
	if target := w.FindSpriteAt(x, y); target != nil && target != s {
		return w.Damage(target, s, w.RandomInt(1, 3))
	}
	return nil
}

func (h *Hero) OnDamage(s, _ *engine.Sprite, amount int) error {
	w := s.World()
	w.Debugf("took %d damage", amount)
	h.HP -= amount
	if h.HP < 1 {
		w.Debugf("the hero died")
		w.Restart()
		return nil
	}
	s.Animate(flashAnimation(FlashDuration))
	return nil
}

func (h *Hero) Paint(s *engine.Sprite, dst *core.Surface) error {
	return h.look.paint(s, dst)
}

// flashAnimation tints the outline red on every fourth frame.
func flashAnimation(d time.Duration) *engine.TimedAnimation {
	a := engine.NewTimedAnimation(d)
	a.PaintFunc = func(s *engine.Sprite, dst *core.Surface, frame, frames int) error {
		if (frames-frame)%4 == 0 {
			dst.Recolor(s.Bounds(), Outline, core.ColorRed)
		}
		return nil
	}
	return a
}

// swordAnimation thrusts a blade out of the facing side and pulls it back.
func swordAnimation() *engine.TimedAnimation {
	a := engine.NewTimedAnimation(SwordDuration)
	a.PaintFunc = func(s *engine.Sprite, dst *core.Surface, frame, frames int) error {
		n := swordLength(s.Width, frame, frames)
		if n <= 0 {
			return nil
		}
		blade, tip := swordShape(s, n)
		dst.FillRect(blade, core.ColorDarkGray)
		dst.FillRect(tip, core.ColorDarkGray)
		return nil
	}
	return a
}

// swordLength follows a parabola: zero at the ends of the swing and half
// the sprite size in the middle.
func swordLength(size, frame, frames int) int {
	if frames <= 0 {
		return 0
	}
	t := -1 + 2*float64(frame)/float64(frames)
	return int(math.Round((1 - t*t) * float64(size) * 0.5))
}

// swordShape returns the blade and its tip for a blade n pixels long.
func swordShape(s *engine.Sprite, n int) (blade, tip core.Rect) {
	third := func(v int) int { return int(math.Round(float64(v) * 0.33)) }
	w0, w1 := third(s.Width), s.Width-third(s.Width)
	h0, h1 := third(s.Height), s.Height-third(s.Height)
	mx, my := s.X+s.Width/2, s.Y+s.Height/2

	switch s.Facing {
	case core.DirUp:
		blade = core.NewRect(s.X+w0, s.Y-n, w1-w0, n)
		tip = core.NewRect(mx-2, s.Y-n-5, 4, 5)
	case core.DirLeft:
		blade = core.NewRect(s.X+8-n, s.Y+h0, n, h1-h0)
		tip = core.NewRect(s.X+8-n-5, my-2, 5, 4)
	case core.DirRight:
		blade = core.NewRect(s.X+s.Width-8, s.Y+h0, n, h1-h0)
		tip = core.NewRect(s.X+s.Width-8+n, my-2, 5, 4)
	default:
		blade = core.NewRect(s.X+w0, s.Y+s.Height, w1-w0, n)
		tip = core.NewRect(mx-2, s.Y+s.Height+n, 4, 5)
	}
	return blade, tip
}
