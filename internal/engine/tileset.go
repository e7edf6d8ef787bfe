package engine

import (
	"image"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Tileset paints a single tile. Id 0 is transparent; ids the tileset
// cannot paint yet render a solid red block.
type Tileset interface {
	DrawTileAt(dst *core.Surface, x, y, id int, foreground bool) error
}

// DrawFunc paints a non-zero tile id at (x, y).
type DrawFunc func(dst *core.Surface, x, y, id int, foreground bool) error

// DrawTileset paints tiles programmatically.
type DrawTileset struct {
	Draw DrawFunc
}

// NewDrawTileset wraps fn as a tileset.
func NewDrawTileset(fn DrawFunc) *DrawTileset {
	return &DrawTileset{Draw: fn}
}

func (t *DrawTileset) DrawTileAt(dst *core.Surface, x, y, id int, foreground bool) error {
	if id == 0 || t.Draw == nil {
		return nil
	}
	return t.Draw(dst, x, y, id, foreground)
}

// Cell addresses a tile-sized cell in an atlas image.
type Cell struct {
	X, Y int
}

// ImageTileset paints tiles from an atlas image, with separate id to
// cell mappings for the background and foreground layers.
type ImageTileset struct {
	Background map[int]Cell
	Foreground map[int]Cell
	asset      *Asset
}

// NewImageTileset requests the atlas from the cache.
func NewImageTileset(cache *AssetCache, src string, bg, fg map[int]Cell) *ImageTileset {
	return &ImageTileset{Background: bg, Foreground: fg, asset: cache.Request(src)}
}

// Loaded reports whether the atlas is ready.
func (t *ImageTileset) Loaded() bool { return t.asset.Loaded() }

// Source returns the atlas source identifier.
func (t *ImageTileset) Source() string { return t.asset.Source() }

func (t *ImageTileset) DrawTileAt(dst *core.Surface, x, y, id int, foreground bool) error {
	if id == 0 {
		return nil
	}
	mapping := t.Background
	if foreground {
		mapping = t.Foreground
	}
	cell, ok := mapping[id]
	img := t.asset.Image()
	if !ok || img == nil {
		dst.FillRect(core.NewRect(x, y, core.TileW, core.TileH), core.ColorRed)
		return nil
	}
	origin := img.Bounds().Min
	sr := image.Rect(cell.X*core.TileW, cell.Y*core.TileH, (cell.X+1)*core.TileW, (cell.Y+1)*core.TileH).Add(origin)
	dst.DrawImage(img, sr, core.NewRect(x, y, core.TileW, core.TileH))
	return nil
}
