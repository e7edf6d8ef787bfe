package engine

import (
	"fmt"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// MapTransition links a border tile to another map. It fires when the
// player, standing on (X, Y), tries to walk off the map toward Direction.
type MapTransition struct {
	X, Y      int
	MapID     string
	Direction core.Direction
}

// CheckTrigger reports whether s stands on the trigger tile.
func (t *MapTransition) CheckTrigger(s *Sprite) bool {
	tx, ty := s.Tile()
	return tx == t.X && ty == t.Y
}

// MapInit populates a map's sprites when it becomes current.
type MapInit func(w *World, m *Map) error

// Map is a tile map with three equally sized layers: background,
// walk mask (0 blocks) and foreground.
type Map struct {
	ID          string
	Tileset     Tileset
	Background  [][]int
	Walk        [][]int
	Foreground  [][]int
	Transitions []*MapTransition
	Init        MapInit
}

// NewMap validates the layers and returns a map.
func NewMap(id string, ts Tileset, bg, walk, fg [][]int, init MapInit) (*Map, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrBadMap)
	}
	if ts == nil {
		return nil, fmt.Errorf("%w: map %s has no tileset", ErrBadMap, id)
	}
	w, h, err := gridSize(bg)
	if err != nil {
		return nil, fmt.Errorf("%w: map %s background: %v", ErrBadMap, id, err)
	}
	for name, layer := range map[string][][]int{"walk": walk, "foreground": fg} {
		lw, lh, err := gridSize(layer)
		if err != nil {
			return nil, fmt.Errorf("%w: map %s %s: %v", ErrBadMap, id, name, err)
		}
		if lw != w || lh != h {
			return nil, fmt.Errorf("%w: map %s %s is %dx%d, background is %dx%d", ErrBadMap, id, name, lw, lh, w, h)
		}
	}
	return &Map{ID: id, Tileset: ts, Background: bg, Walk: walk, Foreground: fg, Init: init}, nil
}

func gridSize(g [][]int) (int, int, error) {
	if len(g) == 0 || len(g[0]) == 0 {
		return 0, 0, fmt.Errorf("empty grid")
	}
	w := len(g[0])
	for y, row := range g {
		if len(row) != w {
			return 0, 0, fmt.Errorf("row %d has %d cells, expected %d", y, len(row), w)
		}
	}
	return w, len(g), nil
}

// Width returns the map width in tiles.
func (m *Map) Width() int {
	if len(m.Background) == 0 {
		return 0
	}
	return len(m.Background[0])
}

// Height returns the map height in tiles.
func (m *Map) Height() int {
	return len(m.Background)
}

// AddTransition appends a transition trigger.
func (m *Map) AddTransition(t *MapTransition) {
	if t != nil {
		m.Transitions = append(m.Transitions, t)
	}
}

// CheckTransitions returns the first trigger s stands on whose direction
// matches s's facing, or nil.
func (m *Map) CheckTransitions(s *Sprite) *MapTransition {
	for _, t := range m.Transitions {
		if t.CheckTrigger(s) && (t.Direction == core.DirNone || t.Direction == s.Facing) {
			return t
		}
	}
	return nil
}

// Walkable reports whether the tile nearest (x, y) is passable.
// Tiles outside the grid are not.
func (m *Map) Walkable(x, y int) bool {
	tx, ty := core.TileOf(x, y)
	if ty < 0 || ty >= len(m.Walk) || tx < 0 || tx >= len(m.Walk[ty]) {
		return false
	}
	return m.Walk[ty][tx] != 0
}

// DrawBackground paints the background layer with its top-left at (offX, offY).
func (m *Map) DrawBackground(dst *core.Surface, offX, offY int) error {
	return m.drawLayer(dst, m.Background, offX, offY, false)
}

// DrawForeground paints the foreground layer with its top-left at (offX, offY).
func (m *Map) DrawForeground(dst *core.Surface, offX, offY int) error {
	return m.drawLayer(dst, m.Foreground, offX, offY, true)
}

func (m *Map) drawLayer(dst *core.Surface, layer [][]int, offX, offY int, fg bool) error {
	for y, row := range layer {
		for x, id := range row {
			if err := m.Tileset.DrawTileAt(dst, x*core.TileW+offX, y*core.TileH+offY, id, fg); err != nil {
				return err
			}
		}
	}
	return nil
}
