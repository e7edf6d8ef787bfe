package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// FrameSlice returns the target duration of one frame, rounded to the millisecond.
func (w *World) FrameSlice() time.Duration {
	ms := math.Round(1000 / float64(w.opts.Framerate))
	return time.Duration(ms) * time.Millisecond
}

// Active reports whether the frame loop is running.
func (w *World) Active() bool { return w.active }

// ActualFramerate returns the measured frames per second, or 0 when stopped.
func (w *World) ActualFramerate() float64 {
	if !w.active {
		return 0
	}
	return w.fps
}

// FrameCount returns the number of frames since the last Start.
func (w *World) FrameCount() int { return w.frames }

// Start marks the world active, fires OnStart and schedules the first frame.
// Ticks scheduled by an earlier Start become no-ops. A queued or running
// map transition is abandoned.
func (w *World) Start() {
	w.active = true
	w.generation++
	w.pending = nil
	if w.transitioning {
		w.cancelTransition()
	}
	w.frames = 0
	w.first = time.Time{}
	if w.opts.OnStart != nil {
		w.safeExecute(CodeRuntime, func() error { return w.opts.OnStart(w) })
	}
	gen := w.generation
	w.sched.After(0, func() { w.tick(gen) })
}

// Stop marks the world inactive and fires OnStop. A tick already
// scheduled still runs but does nothing.
func (w *World) Stop() {
	w.active = false
	if w.opts.OnStop != nil {
		w.safeExecute(CodeRuntime, func() error { return w.opts.OnStop(w) })
	}
}

// Restart stops the frame loop without firing OnStop and starts it
// again after three frame slices.
func (w *World) Restart() {
	w.active = false
	w.sched.After(3*w.FrameSlice(), w.Start)
}

// tick runs one frame and schedules the next.
func (w *World) tick(gen int) {
	if gen != w.generation || !w.active {
		return
	}
	start := w.sched.Now()
	if w.first.IsZero() {
		w.first = start
	}
	if !w.suspended {
		w.runFrame(w.frames)
	}
	finish := w.sched.Now()

	delay := w.FrameSlice() - finish.Sub(start)
	if delay < 0 {
		delay = 0
	}
	w.frames++
	if elapsed := finish.Sub(w.first); elapsed > 0 {
		w.fps = float64(w.frames) / elapsed.Seconds()
	}

	if w.active && gen == w.generation {
		w.sched.After(delay, func() { w.tick(gen) })
	}
}

// runFrame executes the per-frame phases in their fixed order.
func (w *World) runFrame(frame int) {
	w.processSprites()
	w.processMovement()
	w.paintBackground()
	w.paintSprites()
	w.paintForeground()
	if w.text != nil {
		w.paintText(frame)
	}
	w.processInput()
	if w.opts.OnFrame != nil {
		w.safeExecute(CodeRuntime, func() error { return w.opts.OnFrame(w, frame) })
	}
	// Transitions go last: they suspend the world and take over painting.
	w.processMapTransitions()
}

func (w *World) processSprites() {
	for _, s := range w.SpritesAndPlayer() {
		if s.world != w || s.suspended {
			continue
		}
		w.safeExecute(CodeSpriteRuntime, s.onFrame)
	}
}

func (w *World) paintBackground() {
	w.surface.ResetOrigin()
	w.surface.Clear(core.ColorWhite)
	if m := w.current; m != nil {
		w.safeExecute(CodeMapPaint, func() error { return m.DrawBackground(w.surface, 0, 0) })
	}
}

func (w *World) paintForeground() {
	if m := w.current; m != nil {
		w.safeExecute(CodeMapPaint, func() error { return m.DrawForeground(w.surface, 0, 0) })
	}
}

// paintSprites advances each sprite's animations, paints the sprite,
// then paints its remaining animations.
func (w *World) paintSprites() {
	hitBoxes := w.opts.Debug && w.opts.DrawHitBoxes
	for _, s := range w.SpritesAndPlayer() {
		if s.world != w {
			continue
		}
		w.safeExecute(CodeSpritePaint, func() error {
			if err := s.animate(); err != nil {
				return err
			}
			if err := s.paint(w.surface); err != nil {
				return err
			}
			if err := s.paintAnimations(w.surface); err != nil {
				return err
			}
			if hitBoxes {
				w.surface.StrokeRect(s.HitBox, 1, core.ColorHitBox)
			}
			return nil
		})
	}
}

// processInput hands the buffered key to the player and clears it.
func (w *World) processInput() {
	k := w.lastKey
	p := w.player
	if k == core.KeyNone || !w.inputEnabled || p == nil {
		return
	}
	w.safeExecute(CodeSpriteInput, func() error { return p.onKeyPress(k) })
	w.lastKey = core.KeyNone
}

func (w *World) processMapTransitions() {
	t := w.pending
	w.pending = nil
	if t == nil || !w.active {
		return
	}
	if err := w.TransitionToMap(t.MapID, t.Direction); err != nil {
		w.report(CodeRuntime, err)
	}
}
