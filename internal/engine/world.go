// Package engine implements the tile-based adventure game runtime: the
// world and its sprites, animations, collision and movement, tile maps,
// the frame scheduler and the map transition orchestrator.
//
// All engine state is owned by one logical thread. The host pumps a
// Scheduler (see package loop) and every callback runs to completion
// before the next begins, so nothing here takes locks. Faults raised by
// user callbacks are recovered, tagged with an ErrorCode and reported
// through Options.OnError; they never stop the frame loop.
package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Scheduler runs deferred work on the engine's thread.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func())
}

// World is one running game session.
type World struct {
	opts    Options
	log     *log.Logger
	surface *core.Surface
	sched   Scheduler
	assets  *AssetCache
	rng     *rand.Rand

	maps    map[string]*Map
	current *Map
	sprites []*Sprite
	player  *Sprite
	pending *MapTransition
	text    *TextOverlay

	suspended     bool
	active        bool
	inputEnabled  bool
	transitioning bool
	lastKey       core.Key

	// scheduler bookkeeping
	generation int
	frames     int
	first      time.Time
	fps        float64
}

// New creates a world drawing into surface and scheduling on sched.
// A nil surface is an initialization failure: it is reported to
// OnError with CodeContextInit and ErrNoSurface is returned.
func New(opts Options, surface *core.Surface, sched Scheduler) (*World, error) {
	opts = opts.normalize()
	if surface == nil {
		reportFault(nil, opts, CodeContextInit, ErrNoSurface)
		return nil, ErrNoSurface
	}
	if sched == nil {
		return nil, fmt.Errorf("engine: nil scheduler")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &World{
		opts:         opts,
		log:          opts.Logger,
		surface:      surface,
		sched:        sched,
		assets:       NewAssetCache(opts.Assets, opts.Logger),
		rng:          rand.New(rand.NewSource(seed)),
		maps:         make(map[string]*Map),
		inputEnabled: true,
		fps:          float64(opts.Framerate),
	}
	if opts.OnInit != nil {
		w.safeExecute(CodeRuntime, func() error { return opts.OnInit(w) })
	}
	return w, nil
}

// Options returns the normalized options.
func (w *World) Options() Options { return w.opts }

// Logger returns the world's logger.
func (w *World) Logger() *log.Logger { return w.log }

// Surface returns the drawing surface.
func (w *World) Surface() *core.Surface { return w.surface }

// Assets returns the world's image cache.
func (w *World) Assets() *AssetCache { return w.assets }

// Now returns the scheduler's current time.
func (w *World) Now() time.Time { return w.sched.Now() }

// Debugf logs at debug level when debugging is enabled and reports
// whether it is.
func (w *World) Debugf(format string, args ...any) bool {
	if !w.opts.Debug {
		return false
	}
	if format != "" {
		w.log.Debugf(format, args...)
	}
	return true
}

// AddMap registers m. A map whose id is already registered is ignored.
// The map's layers must match the configured map size.
func (w *World) AddMap(m *Map) error {
	if m == nil {
		return fmt.Errorf("%w: nil map", ErrBadMap)
	}
	if m.Width() != w.opts.MapWidth || m.Height() != w.opts.MapHeight {
		return fmt.Errorf("%w: map %s is %dx%d, world expects %dx%d",
			ErrBadMap, m.ID, m.Width(), m.Height(), w.opts.MapWidth, w.opts.MapHeight)
	}
	if _, ok := w.maps[m.ID]; ok {
		return nil
	}
	w.maps[m.ID] = m
	return nil
}

// ReplaceMap swaps in a new definition for an existing map id. When it
// is the current map its sprites are rebuilt.
func (w *World) ReplaceMap(m *Map) error {
	if _, ok := w.maps[m.ID]; !ok {
		return w.AddMap(m)
	}
	if m.Width() != w.opts.MapWidth || m.Height() != w.opts.MapHeight {
		return fmt.Errorf("%w: map %s is %dx%d, world expects %dx%d",
			ErrBadMap, m.ID, m.Width(), m.Height(), w.opts.MapWidth, w.opts.MapHeight)
	}
	w.maps[m.ID] = m
	if w.current != nil && w.current.ID == m.ID && !w.transitioning {
		return w.SetCurrentMap(m.ID)
	}
	return nil
}

// Map returns a registered map by id.
func (w *World) Map(id string) (*Map, bool) {
	m, ok := w.maps[id]
	return m, ok
}

// MapIDs returns the registered map ids in sorted order.
func (w *World) MapIDs() []string {
	ids := make([]string, 0, len(w.maps))
	for id := range w.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CurrentMap returns the active map, or nil.
func (w *World) CurrentMap() *Map { return w.current }

// SetCurrentMap activates a map: the sprite collection is cleared and the
// map's init hook runs to repopulate it.
func (w *World) SetCurrentMap(id string) error {
	m, ok := w.maps[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMap, id)
	}
	w.current = m
	w.ClearSprites()
	if m.Init != nil {
		w.safeExecute(CodeRuntime, func() error { return m.Init(w, m) })
	}
	return nil
}

// QueueTransition stores t as the pending transition, replacing any other.
func (w *World) QueueTransition(t *MapTransition) {
	if t != nil {
		w.pending = t
	}
}

// PendingTransition returns the queued transition, or nil.
func (w *World) PendingTransition() *MapTransition { return w.pending }

// AddSprite attaches s to the world.
func (w *World) AddSprite(s *Sprite) {
	if s == nil || s.player {
		return
	}
	if s.world == w {
		return
	}
	s.world = w
	w.sprites = append(w.sprites, s)
}

// RemoveSprite detaches s from the world.
func (w *World) RemoveSprite(s *Sprite) {
	if s == nil {
		return
	}
	kept := w.sprites[:0]
	for _, o := range w.sprites {
		if o != s {
			kept = append(kept, o)
		}
	}
	clear(w.sprites[len(kept):])
	w.sprites = kept
	if s.world == w {
		s.world = nil
	}
}

// ClearSprites detaches every sprite except the player.
func (w *World) ClearSprites() {
	for _, s := range w.sprites {
		s.world = nil
	}
	w.sprites = nil
}

// Sprites returns a snapshot of the attached sprites, excluding the player.
func (w *World) Sprites() []*Sprite {
	return append([]*Sprite(nil), w.sprites...)
}

// SpritesAndPlayer returns a snapshot of the sprites followed by the player.
func (w *World) SpritesAndPlayer() []*Sprite {
	out := make([]*Sprite, 0, len(w.sprites)+1)
	out = append(out, w.sprites...)
	if w.player != nil {
		out = append(out, w.player)
	}
	return out
}

// SetPlayer installs the player sprite, replacing any previous one.
func (w *World) SetPlayer(p *Sprite) {
	if p == nil {
		return
	}
	if p.world == w && !p.player {
		w.RemoveSprite(p)
	}
	if w.player != nil && w.player != p {
		w.player.world = nil
	}
	p.player = true
	p.world = w
	w.player = p
}

// Player returns the player sprite, or nil.
func (w *World) Player() *Sprite { return w.player }

// FindSpriteAt returns the first non-player sprite whose hit box contains (x, y).
func (w *World) FindSpriteAt(x, y int) *Sprite {
	for _, s := range w.sprites {
		if s.InHitBox(x, y) {
			return s
		}
	}
	return nil
}

// Damage delivers amount damage from one sprite to another.
func (w *World) Damage(target, from *Sprite, amount int) error {
	if target == nil {
		return nil
	}
	return target.onDamage(from, amount)
}

// Suspend stops per-frame logic. The scheduler keeps ticking.
func (w *World) Suspend() { w.suspended = true }

// Resume restarts per-frame logic.
func (w *World) Resume() { w.suspended = false }

// Suspended reports whether per-frame logic is paused.
func (w *World) Suspended() bool { return w.suspended }

// KeyDown records k as the last key pressed.
func (w *World) KeyDown(k core.Key) { w.lastKey = k }

// KeyUp clears the last key pressed.
func (w *World) KeyUp() { w.lastKey = core.KeyNone }

// LastKey returns the buffered key.
func (w *World) LastKey() core.Key { return w.lastKey }

// DisableInput stops key delivery and drops the buffered key.
func (w *World) DisableInput() {
	w.lastKey = core.KeyNone
	w.inputEnabled = false
}

// EnableInput resumes key delivery.
func (w *World) EnableInput() { w.inputEnabled = true }

// InputEnabled reports whether keys are delivered to the player.
func (w *World) InputEnabled() bool { return w.inputEnabled }

// RandomInt returns a uniform integer in [min, max].
func (w *World) RandomInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + w.rng.Intn(max-min+1)
}

// RandomDirection returns one of the four directions at random.
func (w *World) RandomDirection() core.Direction {
	return core.Direction(w.RandomInt(int(core.DirDown), int(core.DirRight)))
}

func (w *World) randomDelay(min, max time.Duration) time.Duration {
	ms := w.RandomInt(int(min/time.Millisecond), int(max/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
