package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Animation is a transient effect attached to one sprite. Advance is
// called once per frame and returns true when the animation has finished;
// a finished animation is removed the same frame and never advanced again.
//
// Implementations may also satisfy AnimationPainter, AnimationStarter and
// AnimationFinisher.
type Animation interface {
	Advance(s *Sprite) bool
}

// AnimationPainter paints an animation after its sprite has painted.
type AnimationPainter interface {
	Paint(s *Sprite, dst *core.Surface) error
}

// AnimationStarter is notified before the first Advance.
type AnimationStarter interface {
	Begin(s *Sprite) error
}

// AnimationFinisher is notified after the Advance that returned true.
type AnimationFinisher interface {
	Complete(s *Sprite) error
}

type animSlot struct {
	anim    Animation
	started bool
	done    bool
}

// frameCount converts a duration into a whole number of frames, at least one.
func frameCount(d, slice time.Duration) int {
	if slice <= 0 {
		slice = time.Second / DefaultFramerate
	}
	n := int(math.Ceil(float64(d) / float64(slice)))
	if n < 1 {
		n = 1
	}
	return n
}

// TransformAnimation moves a sprite in a straight line from one point to
// another over a fixed number of frames. The last frame lands exactly on
// the destination.
type TransformAnimation struct {
	FromX, FromY int
	ToX, ToY     int
	Duration     time.Duration

	OnBegin    func(s *Sprite) error
	OnComplete func(s *Sprite) error

	frames       int
	framesLeft   int
	stepX, stepY int
}

// NewTransformAnimation returns an animation from (fromX, fromY) to (toX, toY).
// A non-positive duration becomes 100ms.
func NewTransformAnimation(fromX, fromY, toX, toY int, d time.Duration) *TransformAnimation {
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	return &TransformAnimation{FromX: fromX, FromY: fromY, ToX: toX, ToY: toY, Duration: d}
}

// Frames reports the total frame count, or zero before the first Advance.
func (a *TransformAnimation) Frames() int {
	return a.frames
}

func (a *TransformAnimation) Advance(s *Sprite) bool {
	if a.frames == 0 {
		a.frames = frameCount(a.Duration, s.frameSlice())
		a.framesLeft = a.frames
		a.stepX = roundDiv(a.ToX-a.FromX, a.frames)
		a.stepY = roundDiv(a.ToY-a.FromY, a.frames)
	}
	s.X = stepToward(s.X, a.ToX, a.stepX)
	s.Y = stepToward(s.Y, a.ToY, a.stepY)
	a.framesLeft--
	if a.framesLeft < 1 {
		s.X, s.Y = a.ToX, a.ToY
		return true
	}
	return false
}

func (a *TransformAnimation) Begin(s *Sprite) error {
	if a.OnBegin == nil {
		return nil
	}
	return a.OnBegin(s)
}

func (a *TransformAnimation) Complete(s *Sprite) error {
	if a.OnComplete == nil {
		return nil
	}
	return a.OnComplete(s)
}

func roundDiv(dist, frames int) int {
	return int(math.Round(float64(dist) / float64(frames)))
}

// stepToward adds step to v without passing target.
func stepToward(v, target, step int) int {
	switch {
	case step > 0 && v < target:
		return min(v+step, target)
	case step < 0 && v > target:
		return max(v+step, target)
	}
	return v
}

// TimedAnimation runs for a fixed duration, calling Step on every frame
// and PaintFunc whenever the sprite paints. It carries hit flashes,
// sword swings and death sequences.
type TimedAnimation struct {
	Duration time.Duration

	Step       func(s *Sprite, frame, frames int)
	PaintFunc  func(s *Sprite, dst *core.Surface, frame, frames int) error
	OnBegin    func(s *Sprite) error
	OnComplete func(s *Sprite) error

	frame, frames int
}

// NewTimedAnimation returns an animation lasting d.
func NewTimedAnimation(d time.Duration) *TimedAnimation {
	return &TimedAnimation{Duration: d}
}

// Progress returns the current frame and the total frame count.
func (a *TimedAnimation) Progress() (frame, frames int) {
	return a.frame, a.frames
}

func (a *TimedAnimation) Advance(s *Sprite) bool {
	if a.frames == 0 {
		a.frames = frameCount(a.Duration, s.frameSlice())
	}
	if a.Step != nil {
		a.Step(s, a.frame, a.frames)
	}
	a.frame++
	return a.frame >= a.frames
}

func (a *TimedAnimation) Paint(s *Sprite, dst *core.Surface) error {
	if a.PaintFunc == nil {
		return nil
	}
	return a.PaintFunc(s, dst, a.frame, a.frames)
}

func (a *TimedAnimation) Begin(s *Sprite) error {
	if a.OnBegin == nil {
		return nil
	}
	return a.OnBegin(s)
}

func (a *TimedAnimation) Complete(s *Sprite) error {
	if a.OnComplete == nil {
		return nil
	}
	return a.OnComplete(s)
}
