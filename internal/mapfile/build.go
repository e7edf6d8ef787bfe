package mapfile

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
)

// SpriteFactory creates the sprite for one placement. The returned sprite
// is moved to the placement tile and attached by the caller.
type SpriteFactory func(w *engine.World, f *File, def SpriteDef) (*engine.Sprite, error)

// Kinds maps sprite kinds to their factories.
type Kinds map[string]SpriteFactory

// Build creates an engine map per definition. Image atlases are requested
// from cache. Each map's init hook spawns its sprites through kinds; every
// sprite kind used by the file must be present.
func Build(f *File, cache *engine.AssetCache, kinds Kinds) ([]*engine.Map, error) {
	for _, m := range f.Maps {
		for _, s := range m.Sprites {
			if _, ok := kinds[s.Kind]; !ok {
				return nil, fmt.Errorf("%w: map %s: unknown sprite kind %q", ErrInvalid, m.ID, s.Kind)
			}
		}
	}

	tilesets := make(map[string]engine.Tileset, len(f.Tilesets))
	for _, def := range f.Tilesets {
		ts, err := buildTileset(def, cache)
		if err != nil {
			return nil, err
		}
		tilesets[def.ID] = ts
	}

	maps := make([]*engine.Map, 0, len(f.Maps))
	for _, def := range f.Maps {
		m, err := engine.NewMap(def.ID, tilesets[def.Tileset],
			copyGrid(def.Background), copyGrid(def.Walk), copyGrid(def.Foreground),
			spawner(f, def.Sprites, kinds))
		if err != nil {
			return nil, err
		}
		for _, t := range def.Transitions {
			dir, _ := parseDirection(t.Direction)
			m.AddTransition(&engine.MapTransition{X: t.X, Y: t.Y, MapID: t.Map, Direction: dir})
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// Install adds maps to w. With replace set, maps already registered are
// swapped for the new definitions, which is how edited files are reloaded.
func Install(w *engine.World, maps []*engine.Map, replace bool) error {
	var errs []error
	for _, m := range maps {
		var err error
		if replace {
			err = w.ReplaceMap(m)
		} else {
			err = w.AddMap(m)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// spawner returns the init hook placing defs on the map. A failing
// factory stops the remaining placements.
func spawner(f *File, defs []SpriteDef, kinds Kinds) engine.MapInit {
	if len(defs) == 0 {
		return nil
	}
	return func(w *engine.World, m *engine.Map) error {
		for _, def := range defs {
			s, err := kinds[def.Kind](w, f, def)
			if err != nil {
				return fmt.Errorf("map %s: spawn %s: %w", m.ID, def.Kind, err)
			}
			if s == nil {
				continue
			}
			s.UpdateLocation(def.X*core.TileW, def.Y*core.TileH)
			w.AddSprite(s)
		}
		return nil
	}
}

func buildTileset(def TilesetDef, cache *engine.AssetCache) (engine.Tileset, error) {
	switch def.Kind {
	case KindImage:
		if cache == nil {
			return nil, fmt.Errorf("tileset %s: image tilesets need an asset cache", def.ID)
		}
		return engine.NewImageTileset(cache, def.Source, cells(def.Background), cells(def.Foreground)), nil
	case KindDraw:
		return drawTileset(def)
	default:
		return nil, fmt.Errorf("%w: tileset %s: unknown kind %q", ErrInvalid, def.ID, def.Kind)
	}
}

func cells(m map[int][2]int) map[int]engine.Cell {
	out := make(map[int]engine.Cell, len(m))
	for id, c := range m {
		out[id] = engine.Cell{X: c[0], Y: c[1]}
	}
	return out
}

type drawTile struct {
	circle bool
	color  color.RGBA
}

// drawTileset paints each tile as a filled square or a disc inset by
// three pixels. Unknown ids are left empty.
func drawTileset(def TilesetDef) (*engine.DrawTileset, error) {
	tiles := make(map[int]drawTile, len(def.Tiles))
	for id, t := range def.Tiles {
		c, err := core.ParseColor(t.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: tileset %s: tile %d: %v", ErrInvalid, def.ID, id, err)
		}
		tiles[id] = drawTile{circle: t.Shape == "circle", color: c}
	}
	return engine.NewDrawTileset(func(dst *core.Surface, x, y, id int, _ bool) error {
		t, ok := tiles[id]
		if !ok {
			return nil
		}
		if t.circle {
			dst.FillCircle(x+core.TileW/2, y+core.TileH/2, (core.TileW-6)/2, t.color)
		} else {
			dst.FillRect(core.NewRect(x, y, core.TileW, core.TileH), t.color)
		}
		return nil
	}), nil
}

func copyGrid(g [][]int) [][]int {
	out := make([][]int, len(g))
	for y, row := range g {
		out[y] = append([]int(nil), row...)
	}
	return out
}
