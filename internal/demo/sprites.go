package demo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
)

// NPC tuning.
const (
	CreatureHP        = 3
	CreatureWalk      = 800 * time.Millisecond
	TalkerWalk        = 350 * time.Millisecond
	HitDuration       = 500 * time.Millisecond
	DeathDuration     = 750 * time.Millisecond
	coinFrames        = 9
	coinFrameInterval = 5
)

// walkCycle paints a character from a sheet with one row per facing and
// three columns: step, stand, step. The step frame alternates every
// stride paints while the sprite moves.
type walkCycle struct {
	painter  *engine.TilePainter
	col, row int
	rows     [5]int // indexed by core.Direction
	stride   int
	frame    int
}

func newWalkCycle(cache *engine.AssetCache, src string, col, row, stride int) *walkCycle {
	return &walkCycle{
		painter: engine.NewTilePainter(cache, src, 0, 0),
		col:     col,
		row:     row,
		rows:    bardRows(),
		stride:  stride,
	}
}

func bardRows() [5]int {
	var r [5]int
	for i, d := range bardFacing {
		r[d] = i
	}
	return r
}

func creatureRows() [5]int {
	var r [5]int
	for i, d := range creatureFacing {
		r[d] = i
	}
	return r
}

func (c *walkCycle) paint(s *engine.Sprite, dst *core.Surface) error {
	x, y := c.col+1, c.row
	if s.Facing.Valid() {
		y += c.rows[s.Facing]
	}
	if s.Moving() {
		x = c.col
		if (c.frame/c.stride)%2 == 1 {
			x = c.col + 2
		}
		c.frame = (c.frame + 1) % 100
	}
	c.painter.Paint(s, dst, x, y)
	return nil
}

// Talker wanders about and shows Lines when the player bumps into it.
// When Hurt is set, attacking it plays a hit effect and shows Hurt.
type Talker struct {
	Lines []string
	Hurt  string

	look *walkCycle
}

func (t *Talker) OnFrame(s *engine.Sprite) error {
	s.Wander(2*time.Second, 5*time.Second)
	return nil
}

func (t *Talker) OnCollide(s, other *engine.Sprite) error {
	if !other.IsPlayer() {
		return nil
	}
	s.World().Debugf("player touched the talker at %d,%d", s.X, s.Y)
	say(s, other, t.Lines...)
	return nil
}

func (t *Talker) OnDamage(s, from *engine.Sprite, _ int) error {
	if t.Hurt == "" || from == nil || !from.IsPlayer() {
		return nil
	}
	hit := hitAnimation(s.World().Assets())
	hit.OnComplete = func(s *engine.Sprite) error {
		say(s, from, t.Hurt)
		return nil
	}
	s.Animate(hit)
	return nil
}

func (t *Talker) Paint(s *engine.Sprite, dst *core.Surface) error {
	return t.look.paint(s, dst)
}

// say suspends s facing listener until the dialog closes.
func say(s, listener *engine.Sprite, lines ...string) {
	w := s.World()
	if w == nil {
		return
	}
	s.Suspend()
	s.FaceSprite(listener)
	w.ShowText(engine.TextOverlay{
		Lines:   lines,
		OnClose: func(*engine.World) error { s.Resume(); return nil },
	})
}

// Creature roams constantly and bites the player on contact. It takes
// three hits and leaves a coin behind.
type Creature struct {
	HP int

	look *walkCycle
}

func (c *Creature) OnFrame(s *engine.Sprite) error {
	if c.HP > 0 {
		s.Wander(time.Second, 0)
	}
	return nil
}

func (c *Creature) OnCollide(s, other *engine.Sprite) error {
	if !other.IsPlayer() || c.HP < 1 {
		return nil
	}
	w := s.World()
	return w.Damage(other, s, w.RandomInt(1, 3))
}

func (c *Creature) OnDamage(s, _ *engine.Sprite, amount int) error {
	if c.HP < 1 {
		return nil
	}
	w := s.World()
	w.Debugf("creature hit for %d", amount)
	c.HP -= amount
	if c.HP > 0 {
		s.Animate(hitAnimation(w.Assets()))
		return nil
	}
	w.Debugf("creature killed")
	s.Animate(deathAnimation(func(s *engine.Sprite) error {
		if w := s.World(); w != nil {
			w.AddSprite(NewCoin(w.Assets(), s.X, s.Y))
		}
		s.Detach()
		return nil
	}))
	return nil
}

func (c *Creature) Paint(s *engine.Sprite, dst *core.Surface) error {
	return c.look.paint(s, dst)
}

// NewCreature returns a creature at pixel position (x, y).
func NewCreature(cache *engine.AssetCache, x, y int) *engine.Sprite {
	s := engine.NewSprite(x, y)
	s.Kind = "creature"
	s.ReverseCollide = true
	s.WalkDuration = CreatureWalk
	look := &walkCycle{
		painter: engine.NewTilePainter(cache, SheetCreature, 32, 36),
		rows:    creatureRows(),
		stride:  5,
	}
	s.Behavior = &Creature{HP: CreatureHP, look: look}
	return s
}

// Coin spins in place and pays one piece of money to the player.
type Coin struct {
	painter *engine.TilePainter
	spin    int
	frame   int
}

// NewCoin returns a non-blocking coin at pixel position (x, y).
func NewCoin(cache *engine.AssetCache, x, y int) *engine.Sprite {
	s := engine.NewSprite(x, y)
	s.Kind = "coin"
	s.Blocking = false
	s.Behavior = &Coin{painter: engine.NewTilePainter(cache, SheetCoin, 0, 0), frame: 4}
	return s
}

func (c *Coin) OnCollide(s, other *engine.Sprite) error {
	hero, ok := other.Behavior.(*Hero)
	if !ok {
		return nil
	}
	hero.AddMoney(s.World(), 1)
	s.Detach()
	return nil
}

func (c *Coin) Paint(s *engine.Sprite, dst *core.Surface) error {
	if c.spin%coinFrameInterval == 0 {
		c.frame = (c.frame + 1) % coinFrames
	}
	c.spin = (c.spin + 1) % 100
	c.painter.Paint(s, dst, c.frame, 0)
	return nil
}

// hitAnimation flashes the hit sheet over the sprite.
func hitAnimation(cache *engine.AssetCache) *engine.TimedAnimation {
	p := engine.NewTilePainter(cache, SheetHit, 0, 0)
	a := engine.NewTimedAnimation(HitDuration)
	a.PaintFunc = func(s *engine.Sprite, dst *core.Surface, frame, frames int) error {
		p.Paint(s, dst, (frames-frame)%3, 0)
		return nil
	}
	return a
}

// deathAnimation spins the sprite through every facing, then calls done.
func deathAnimation(done func(s *engine.Sprite) error) *engine.TimedAnimation {
	a := engine.NewTimedAnimation(DeathDuration)
	a.Step = func(s *engine.Sprite, frame, _ int) {
		if frame%2 == 0 {
			s.Facing = s.Facing%core.DirRight + 1
		}
	}
	a.OnComplete = done
	return a
}

// Kinds returns the sprite kinds the demo world file uses. Scripts are
// compiled through programs.
func Kinds(programs *Programs) mapfile.Kinds {
	return mapfile.Kinds{
		"talker":   newTalker,
		"creature": newCreatureKind,
		"coin": func(w *engine.World, _ *mapfile.File, def mapfile.SpriteDef) (*engine.Sprite, error) {
			return NewCoin(w.Assets(), 0, 0), nil
		},
		"scripted": programs.newScripted,
	}
}

func newCreatureKind(w *engine.World, _ *mapfile.File, _ mapfile.SpriteDef) (*engine.Sprite, error) {
	return NewCreature(w.Assets(), 0, 0), nil
}

func newTalker(w *engine.World, _ *mapfile.File, def mapfile.SpriteDef) (*engine.Sprite, error) {
	col, row, err := sheetCell(def)
	if err != nil {
		return nil, err
	}
	s := engine.NewSprite(0, 0)
	s.Kind = "talker"
	s.WalkDuration = TalkerWalk
	var lines []string
	if text := def.Props["text"]; text != "" {
		lines = strings.Split(text, "\n")
	}
	s.Behavior = &Talker{
		Lines: lines,
		Hurt:  def.Props["hurt"],
		look:  newWalkCycle(w.Assets(), SheetBard, col, row, 10),
	}
	return s, nil
}

// sheetCell reads the col and row props locating a character on the
// bard sheet.
func sheetCell(def mapfile.SpriteDef) (col, row int, err error) {
	for _, p := range []struct {
		key string
		dst *int
	}{{"col", &col}, {"row", &row}} {
		v, ok := def.Props[p.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("prop %s: invalid sheet cell %q", p.key, v)
		}
		*p.dst = n
	}
	return col, row, nil
}
