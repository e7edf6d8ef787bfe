package engine

import (
	"github.com/vovakirdan/tui-linka/internal/core"
)

// CanMoveTo reports whether s may move its top-left corner to (x, y).
//
// The destination must lie on the surface; when the player walks off an
// edge while standing on a matching trigger, that transition is queued.
// The walk mask must allow the destination tile. Finally every other
// sprite whose hit box overlaps the destination has its collide handler
// called with s, and the move is rejected if any of them is blocking.
// An error from a collide handler aborts the check and rejects the move.
func (w *World) CanMoveTo(s *Sprite, x, y int) (bool, error) {
	dest := core.NewRect(x, y, core.TileW, core.TileH)
	if !w.surface.Bounds().ContainsRect(dest) {
		if w.current != nil && s == w.player {
			if t := w.current.CheckTransitions(s); t != nil {
				w.QueueTransition(t)
			}
		}
		return false, nil
	}

	if w.current != nil && !w.current.Walkable(x, y) {
		return false, nil
	}

	blocked := false
	for _, o := range w.SpritesAndPlayer() {
		if o == s || o.world != w {
			continue
		}
		if !o.HitBox.Intersects(dest) {
			continue
		}
		if err := o.onCollide(s); err != nil {
			return false, err
		}
		if o.Blocking {
			blocked = true
		}
	}
	return !blocked, nil
}

// processMovement resolves every pending move request. A request made
// while the sprite is still moving waits for the move to finish, so a
// sprite at rest is always on the tile grid. A failure while resolving
// one sprite is reported and does not affect the others.
func (w *World) processMovement() {
	for _, s := range w.SpritesAndPlayer() {
		dir := s.nextMove
		if dir == core.DirNone || s.world != w || s.inFlight() {
			continue
		}
		w.safeExecute(CodeSpriteRuntime, func() error {
			x, y := s.PositionForMovement(dir)
			s.Facing = dir
			ok, err := w.CanMoveTo(s, x, y)
			if err != nil {
				return err
			}
			if ok {
				s.AnimateTo(x, y)
			}
			return nil
		})
		s.nextMove = core.DirNone
	}
}
