package engine

import (
	"image"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// TilePainter paints one cell of a sprite sheet at a sprite's position.
type TilePainter struct {
	CellW, CellH int
	asset        *Asset
}

// NewTilePainter requests src from the cache. Zero cell sizes become one tile.
func NewTilePainter(cache *AssetCache, src string, cellW, cellH int) *TilePainter {
	if cellW <= 0 {
		cellW = core.TileW
	}
	if cellH <= 0 {
		cellH = core.TileH
	}
	return &TilePainter{CellW: cellW, CellH: cellH, asset: cache.Request(src)}
}

// Loaded reports whether the sheet is ready.
func (p *TilePainter) Loaded() bool { return p.asset.Loaded() }

// Source returns the sheet's source identifier.
func (p *TilePainter) Source() string { return p.asset.Source() }

// Paint blits cell (tileX, tileY) scaled to the sprite's bounds, or the
// placeholder glyph while the sheet is loading.
func (p *TilePainter) Paint(s *Sprite, dst *core.Surface, tileX, tileY int) {
	img := p.asset.Image()
	if img == nil {
		PaintPlaceholder(s, dst)
		return
	}
	origin := img.Bounds().Min
	sr := image.Rect(tileX*p.CellW, tileY*p.CellH, (tileX+1)*p.CellW, (tileY+1)*p.CellH).Add(origin)
	w, h := spriteSize(s)
	dst.DrawImage(img, sr, core.NewRect(s.X, s.Y, w, h))
}

// PaintPlaceholder draws the "no sprite" glyph, a red ring with a slash.
func PaintPlaceholder(s *Sprite, dst *core.Surface) {
	w, h := spriteSize(s)
	dst.StrokeCircle(s.X+w/2, s.Y+h/2, (w-6)/2, 3, core.ColorRed)
	dst.Line(s.X+w-6, s.Y+6, s.X+6, s.Y+h-6, 3, core.ColorRed)
}

// spriteSize returns the sprite's size, one tile for unset dimensions.
func spriteSize(s *Sprite) (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = core.TileW
	}
	if h <= 0 {
		h = core.TileH
	}
	return w, h
}
