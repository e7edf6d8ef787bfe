package demo

import (
	"image/color"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
)

// Image sources of the demo art. The sheets are drawn at startup and
// registered in the world's asset cache, so no files are needed.
const (
	SheetTiles    = "map-tiles.png"
	SheetBard     = "bard.png"
	SheetCreature = "creature.png"
	SheetCoin     = "gold-coin.png"
	SheetHit      = "hit-anim.png"
)

// Outline is the colour every figure is outlined with. Damage flashes
// swap it for red.
var Outline = color.RGBA{R: 7, G: 7, B: 7, A: 255}

var (
	colorWater   = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	colorFoam    = color.RGBA{R: 150, G: 190, B: 240, A: 255}
	colorGrass   = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	colorShrub   = color.RGBA{R: 20, G: 100, B: 40, A: 255}
	colorBerry   = color.RGBA{R: 200, G: 30, B: 60, A: 255}
	colorSkin    = color.RGBA{R: 240, G: 200, B: 160, A: 255}
	colorSlime   = color.RGBA{R: 110, G: 190, B: 60, A: 255}
	colorCoinRim = color.RGBA{R: 184, G: 134, B: 11, A: 255}
	colorSpark   = color.RGBA{R: 255, G: 240, B: 120, A: 255}
)

// Tunic colours of the bard sheet's character groups, left to right,
// top half then bottom half.
var tunics = []color.RGBA{
	{R: 40, G: 70, B: 200, A: 255},  // player
	{R: 128, G: 128, B: 128, A: 255}, // hermit
	{R: 200, G: 120, B: 40, A: 255},  // guide
	{R: 128, G: 40, B: 160, A: 255},  // greeter
	{R: 180, G: 40, B: 40, A: 255},
	{R: 40, G: 150, B: 150, A: 255},
	{R: 220, G: 120, B: 40, A: 255},
	{R: 90, G: 60, B: 30, A: 255},
}

// bardFacing lists the facing drawn by each row of a bard group.
var bardFacing = [4]core.Direction{core.DirDown, core.DirLeft, core.DirRight, core.DirUp}

// creatureFacing lists the facing drawn by each creature sheet row.
var creatureFacing = [4]core.Direction{core.DirUp, core.DirRight, core.DirDown, core.DirLeft}

// RegisterSheets draws the demo art into cache.
func RegisterSheets(cache *engine.AssetCache) {
	cache.Put(SheetTiles, tilesSheet().Image())
	cache.Put(SheetBard, bardSheet().Image())
	cache.Put(SheetCreature, creatureSheet().Image())
	cache.Put(SheetCoin, coinSheet().Image())
	cache.Put(SheetHit, hitSheet().Image())
}

func blank(cols, rows, cellW, cellH int) *core.Surface {
	s := core.NewSurface(cols*cellW, rows*cellH)
	s.Clear(color.Transparent)
	return s
}

// tilesSheet: ground, water, bush, berry bush.
func tilesSheet() *core.Surface {
	s := blank(4, 1, core.TileW, core.TileH)
	s.FillRect(core.NewRect(0, 0, 32, 32), core.ColorTan)
	for _, p := range [][2]int{{6, 7}, {20, 4}, {13, 19}, {25, 25}, {4, 27}} {
		s.FillRect(core.NewRect(p[0], p[1], 2, 2), colorCoinRim)
	}

	s.FillRect(core.NewRect(32, 0, 32, 32), colorWater)
	for y := 6; y < 32; y += 10 {
		s.Line(36, y, 44, y-2, 1, colorFoam)
		s.Line(44, y-2, 52, y, 1, colorFoam)
	}

	s.FillCircle(64+16, 16, 13, colorGrass)
	s.StrokeCircle(64+16, 16, 13, 1, colorShrub)

	s.FillCircle(96+16, 16, 13, colorShrub)
	for _, p := range [][2]int{{10, 10}, {20, 12}, {14, 20}, {22, 22}} {
		s.FillCircle(96+p[0], p[1], 2, colorBerry)
	}
	return s
}

// bardSheet has 12x8 cells of 32x32: four groups of three walk frames
// per half, each group with four facing rows.
func bardSheet() *core.Surface {
	s := blank(12, 8, core.TileW, core.TileH)
	for row := 0; row < 8; row++ {
		for col := 0; col < 12; col++ {
			tunic := tunics[col/3+4*(row/4)]
			figure(s, col*core.TileW, row*core.TileH, tunic, bardFacing[row%4], col%3-1)
		}
	}
	return s
}

// figure draws a person inside the 32x32 cell at (x, y). step shifts
// the legs for walk frames.
func figure(s *core.Surface, x, y int, tunic color.RGBA, facing core.Direction, step int) {
	// legs
	s.FillRect(core.NewRect(x+11, y+23+step, 4, 7-step), Outline)
	s.FillRect(core.NewRect(x+17, y+23-step, 4, 7+step), Outline)
	// body
	s.FillRect(core.NewRect(x+8, y+13, 16, 12), Outline)
	s.FillRect(core.NewRect(x+9, y+14, 14, 10), tunic)
	// head
	s.FillCircle(x+16, y+8, 6, Outline)
	s.FillCircle(x+16, y+8, 5, colorSkin)

	switch facing {
	case core.DirDown:
		s.FillRect(core.NewRect(x+13, y+7, 2, 2), Outline)
		s.FillRect(core.NewRect(x+18, y+7, 2, 2), Outline)
	case core.DirLeft:
		s.FillRect(core.NewRect(x+12, y+7, 2, 2), Outline)
	case core.DirRight:
		s.FillRect(core.NewRect(x+19, y+7, 2, 2), Outline)
	case core.DirUp:
		s.FillCircle(x+16, y+7, 4, tunic)
	}
}

// creatureSheet has 3x4 cells of 32x36.
func creatureSheet() *core.Surface {
	const cellH = 36
	s := blank(3, 4, core.TileW, cellH)
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			x, y := col*core.TileW, row*cellH
			squash := (col - 1) * 2
			s.FillCircle(x+16, y+22+squash, 13-squash, Outline)
			s.FillCircle(x+16, y+22+squash, 12-squash, colorSlime)
			s.FillRect(core.NewRect(x+4, y+30, 24, 5), Outline)
			s.FillRect(core.NewRect(x+5, y+30, 22, 4), colorSlime)

			dx, dy := creatureFacing[row].Delta()
			if creatureFacing[row] != core.DirUp {
				ex, ey := x+16+dx*5, y+20+dy*3
				s.FillRect(core.NewRect(ex-5, ey, 3, 3), Outline)
				s.FillRect(core.NewRect(ex+2, ey, 3, 3), Outline)
			}
		}
	}
	return s
}

// coinSheet has nine frames of a spinning coin.
func coinSheet() *core.Surface {
	s := blank(9, 1, core.TileW, core.TileH)
	widths := []int{10, 8, 5, 2, 1, 2, 5, 8, 10}
	for i, rx := range widths {
		ellipse(s, i*core.TileW+16, 16, rx, 10, colorCoinRim)
		if rx > 2 {
			ellipse(s, i*core.TileW+16, 16, rx-2, 8, core.ColorGold)
		}
	}
	return s
}

func ellipse(s *core.Surface, cx, cy, rx, ry int, c color.Color) {
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if dx*dx*ry*ry+dy*dy*rx*rx <= rx*rx*ry*ry {
				s.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// hitSheet has three frames of a growing spark.
func hitSheet() *core.Surface {
	s := blank(3, 1, core.TileW, core.TileH)
	for i := 0; i < 3; i++ {
		cx, r := i*core.TileW+16, 6+i*4
		s.Line(cx-r, 16, cx+r, 16, 2, core.ColorRed)
		s.Line(cx, 16-r, cx, 16+r, 2, core.ColorRed)
		s.Line(cx-r*2/3, 16-r*2/3, cx+r*2/3, 16+r*2/3, 1, colorSpark)
		s.Line(cx-r*2/3, 16+r*2/3, cx+r*2/3, 16-r*2/3, 1, colorSpark)
	}
	return s
}
