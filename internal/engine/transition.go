package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Transitioning reports whether a map scroll is in progress.
func (w *World) Transitioning() bool { return w.transitioning }

// TransitionToMap scrolls from the current map to map id in direction dir.
//
// The world is suspended and the new map becomes current at once (its
// init hook runs). Every TransitionStep the new map is drawn just past the
// edge, the old map in place and the player on top, and the drawing origin
// is shifted one step toward the new map. When the new map has scrolled
// fully into view the origin is restored, the player is placed on the
// opposite edge tile and the world resumes.
//
// A call made while a scroll is running is queued as the pending
// transition and runs after the scroll completes.
func (w *World) TransitionToMap(id string, dir core.Direction) error {
	next, ok := w.maps[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMap, id)
	}
	old := w.current
	if old == nil {
		return fmt.Errorf("%w: no current map", ErrUnknownMap)
	}
	if w.transitioning {
		w.QueueTransition(&MapTransition{MapID: id, Direction: dir})
		return nil
	}

	w.Suspend()
	w.transitioning = true
	gen := w.generation

	cols, rows := w.opts.MapWidth, w.opts.MapHeight
	player := w.player
	var px, py int
	if player != nil {
		px, py = player.Tile()
	}
	drawX, drawY := 0, 0
	switch dir {
	case core.DirDown:
		drawY = core.TileH * rows
		py = 0
	case core.DirUp:
		drawY = -core.TileH * rows
		py = rows - 1
	case core.DirLeft:
		drawX = -core.TileW * cols
		px = cols - 1
	case core.DirRight:
		drawX = core.TileW * cols
		px = 0
	}
	targetX, targetY := -drawX, -drawY

	if err := w.SetCurrentMap(id); err != nil {
		return err
	}

	dst := w.surface
	dst.Save()

	stepX := int(math.Round(float64(targetX) / float64(cols)))
	stepY := int(math.Round(float64(targetY) / float64(rows)))
	curX, curY := 0, 0
	goingX, goingY := true, true

	var step func()
	step = func() {
		if gen != w.generation {
			// Abandoned by a restart.
			return
		}
		if !goingX && !goingY {
			dst.Restore()
			if player != nil {
				player.UpdateLocation(px*core.TileW, py*core.TileH)
			}
			w.transitioning = false
			w.Resume()
			w.Debugf("transition to %s complete", id)
			return
		}

		w.safeExecute(CodeMapPaint, func() error {
			if err := next.DrawBackground(dst, drawX, drawY); err != nil {
				return err
			}
			if err := next.DrawForeground(dst, drawX, drawY); err != nil {
				return err
			}
			if err := old.DrawBackground(dst, 0, 0); err != nil {
				return err
			}
			return old.DrawForeground(dst, 0, 0)
		})
		if player != nil {
			w.safeExecute(CodeSpritePaint, func() error { return player.paint(dst) })
		}

		if (stepX > 0 && curX < targetX) || (stepX < 0 && curX > targetX) {
			curX += stepX
		} else {
			goingX = false
		}
		if (stepY > 0 && curY < targetY) || (stepY < 0 && curY > targetY) {
			curY += stepY
		} else {
			goingY = false
		}
		dx, dy := 0, 0
		if goingX {
			dx = stepX
		}
		if goingY {
			dy = stepY
		}
		dst.Translate(dx, dy)
		w.sched.After(TransitionStep, step)
	}
	w.Debugf("transition to %s (%s)", id, dir)
	w.sched.After(TransitionStep, step)
	return nil
}

// cancelTransition ends a running scroll where it is. The player stays
// put and the world resumes.
func (w *World) cancelTransition() {
	w.surface.ResetOrigin()
	w.transitioning = false
	w.Resume()
}
