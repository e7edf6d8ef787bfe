// Package mapfile loads world definitions (tilesets, maps, transitions and
// sprite placements) from YAML and turns them into engine maps.
package mapfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Tileset kinds.
const (
	KindImage = "image"
	KindDraw  = "draw"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid world file")

// File is a parsed world definition.
type File struct {
	Start    StartDef     `yaml:"start"`
	Tilesets []TilesetDef `yaml:"tilesets"`
	Maps     []MapDef     `yaml:"maps"`

	fsys fs.FS  // where sprite scripts are read from
	dir  string // directory of the world file inside fsys
}

// StartDef places the player when a world starts.
type StartDef struct {
	Map    string `yaml:"map"`
	X      int    `yaml:"x"` // tile
	Y      int    `yaml:"y"` // tile
	Facing string `yaml:"facing,omitempty"`
}

// TilesetDef describes an image atlas or a programmatically drawn tileset.
type TilesetDef struct {
	ID         string              `yaml:"id"`
	Kind       string              `yaml:"kind"`
	Source     string              `yaml:"source,omitempty"`     // image: atlas path
	Background map[int][2]int      `yaml:"background,omitempty"` // image: id -> [cell x, cell y]
	Foreground map[int][2]int      `yaml:"foreground,omitempty"`
	Tiles      map[int]DrawTileDef `yaml:"tiles,omitempty"` // draw: id -> shape
}

// DrawTileDef is one tile of a draw tileset.
type DrawTileDef struct {
	Color string `yaml:"color"`
	Shape string `yaml:"shape,omitempty"` // "rect" (default) or "circle"
}

// MapDef is one map of the world. Grids are row-major: grid[y][x].
type MapDef struct {
	ID          string          `yaml:"id"`
	Tileset     string          `yaml:"tileset"`
	Background  [][]int         `yaml:"background"`
	Walk        [][]int         `yaml:"walk"`
	Foreground  [][]int         `yaml:"foreground"`
	Transitions []TransitionDef `yaml:"transitions,omitempty"`
	Sprites     []SpriteDef     `yaml:"sprites,omitempty"`
}

// TransitionDef links a border tile to another map.
type TransitionDef struct {
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Map       string `yaml:"map"`
	Direction string `yaml:"direction"`
}

// SpriteDef places a sprite when its map becomes current.
type SpriteDef struct {
	Kind   string            `yaml:"kind"`
	X      int               `yaml:"x"` // tile
	Y      int               `yaml:"y"` // tile
	Script string            `yaml:"script,omitempty"`
	Props  map[string]string `yaml:"props,omitempty"`
}

// Parse decodes and validates a world definition. Scripts referenced by
// the file cannot be read unless it came from Load or LoadFS.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a world file from disk. Scripts are resolved relative to
// the file's directory.
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filename, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", filename, err)
	}
	f.fsys = os.DirFS(filepath.Dir(filename))
	f.dir = "."
	return f, nil
}

// LoadFS reads a world file from fsys.
func LoadFS(fsys fs.FS, name string) (*File, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", name, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", name, err)
	}
	f.fsys = fsys
	f.dir = path.Dir(name)
	return f, nil
}

// ReadFile reads a file referenced by the world, such as a sprite script.
func (f *File) ReadFile(name string) ([]byte, error) {
	if f.fsys == nil {
		return nil, fmt.Errorf("reading %s: world file has no location", name)
	}
	return fs.ReadFile(f.fsys, path.Join(f.dir, name))
}

// Map returns the definition with the given id.
func (f *File) Map(id string) (*MapDef, bool) {
	for i := range f.Maps {
		if f.Maps[i].ID == id {
			return &f.Maps[i], true
		}
	}
	return nil, false
}

// Size returns the grid size shared by every map, or zeros for an empty file.
func (f *File) Size() (cols, rows int) {
	if len(f.Maps) == 0 {
		return 0, 0
	}
	return gridSize(f.Maps[0].Background)
}

// Validate checks the file for internal consistency: unique ids, equally
// sized rectangular grids, known tilesets and transition targets, valid
// directions, and placements inside the grid.
func (f *File) Validate() error {
	if len(f.Maps) == 0 {
		return fmt.Errorf("%w: no maps", ErrInvalid)
	}

	tilesets := make(map[string]bool, len(f.Tilesets))
	for _, ts := range f.Tilesets {
		if err := ts.validate(); err != nil {
			return err
		}
		if tilesets[ts.ID] {
			return fmt.Errorf("%w: duplicate tileset %q", ErrInvalid, ts.ID)
		}
		tilesets[ts.ID] = true
	}

	maps := make(map[string]bool, len(f.Maps))
	for _, m := range f.Maps {
		if m.ID == "" {
			return fmt.Errorf("%w: map without id", ErrInvalid)
		}
		if maps[m.ID] {
			return fmt.Errorf("%w: duplicate map %q", ErrInvalid, m.ID)
		}
		maps[m.ID] = true
	}

	cols, rows := f.Size()
	for _, m := range f.Maps {
		if !tilesets[m.Tileset] {
			return fmt.Errorf("%w: map %s: unknown tileset %q", ErrInvalid, m.ID, m.Tileset)
		}
		for name, g := range map[string][][]int{"background": m.Background, "walk": m.Walk, "foreground": m.Foreground} {
			c, r := gridSize(g)
			if c == 0 || c != cols || r != rows {
				return fmt.Errorf("%w: map %s: %s grid is %dx%d, expected %dx%d", ErrInvalid, m.ID, name, c, r, cols, rows)
			}
		}
		for _, t := range m.Transitions {
			if !maps[t.Map] {
				return fmt.Errorf("%w: map %s: transition to unknown map %q", ErrInvalid, m.ID, t.Map)
			}
			if _, err := parseDirection(t.Direction); err != nil {
				return fmt.Errorf("%w: map %s: %v", ErrInvalid, m.ID, err)
			}
			if !inGrid(t.X, t.Y, cols, rows) {
				return fmt.Errorf("%w: map %s: transition at (%d, %d) is outside the map", ErrInvalid, m.ID, t.X, t.Y)
			}
		}
		for _, s := range m.Sprites {
			if s.Kind == "" {
				return fmt.Errorf("%w: map %s: sprite without kind", ErrInvalid, m.ID)
			}
			if !inGrid(s.X, s.Y, cols, rows) {
				return fmt.Errorf("%w: map %s: %s at (%d, %d) is outside the map", ErrInvalid, m.ID, s.Kind, s.X, s.Y)
			}
		}
	}

	if f.Start.Map != "" {
		if !maps[f.Start.Map] {
			return fmt.Errorf("%w: start map %q is unknown", ErrInvalid, f.Start.Map)
		}
		if !inGrid(f.Start.X, f.Start.Y, cols, rows) {
			return fmt.Errorf("%w: start (%d, %d) is outside the map", ErrInvalid, f.Start.X, f.Start.Y)
		}
		if f.Start.Facing != "" {
			if _, err := parseDirection(f.Start.Facing); err != nil {
				return fmt.Errorf("%w: start: %v", ErrInvalid, err)
			}
		}
	}
	return nil
}

func (ts TilesetDef) validate() error {
	if ts.ID == "" {
		return fmt.Errorf("%w: tileset without id", ErrInvalid)
	}
	switch ts.Kind {
	case KindImage:
		if ts.Source == "" {
			return fmt.Errorf("%w: tileset %s: image tileset needs a source", ErrInvalid, ts.ID)
		}
	case KindDraw:
		for id, tile := range ts.Tiles {
			if _, err := core.ParseColor(tile.Color); err != nil {
				return fmt.Errorf("%w: tileset %s: tile %d: %v", ErrInvalid, ts.ID, id, err)
			}
			switch tile.Shape {
			case "", "rect", "circle":
			default:
				return fmt.Errorf("%w: tileset %s: tile %d: unknown shape %q", ErrInvalid, ts.ID, id, tile.Shape)
			}
		}
	default:
		return fmt.Errorf("%w: tileset %s: unknown kind %q", ErrInvalid, ts.ID, ts.Kind)
	}
	return nil
}

// parseDirection accepts only the four movement directions.
func parseDirection(s string) (core.Direction, error) {
	d, ok := core.ParseDirection(s)
	if !ok {
		return core.DirNone, fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}

// gridSize returns the size of a rectangular grid, or zeros if it is ragged.
func gridSize(g [][]int) (cols, rows int) {
	if len(g) == 0 {
		return 0, 0
	}
	cols = len(g[0])
	for _, row := range g {
		if len(row) != cols {
			return 0, 0
		}
	}
	return cols, len(g)
}

func inGrid(x, y, cols, rows int) bool {
	return x >= 0 && x < cols && y >= 0 && y < rows
}
