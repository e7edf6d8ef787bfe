package core

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Surface is the drawing target the engine paints every frame into.
// It wraps an RGBA pixel buffer and carries a drawing origin that
// Translate shifts persistently until Restore or ResetOrigin.
//
// All drawing is clipped to the buffer; out-of-bounds calls are silent.
type Surface struct {
	img    *image.RGBA
	ox, oy int
	saved  []image.Point
}

// NewSurface creates a surface with the given pixel dimensions,
// cleared to opaque white.
func NewSurface(width, height int) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	s.Clear(ColorWhite)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.img.Bounds().Dy()
}

// Bounds returns the surface rectangle in untranslated pixel space.
func (s *Surface) Bounds() Rect {
	return NewRect(0, 0, s.Width(), s.Height())
}

// Image exposes the underlying pixel buffer. Front-ends read it to present a frame.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Translate shifts the drawing origin by (dx, dy). The shift accumulates.
func (s *Surface) Translate(dx, dy int) {
	s.ox += dx
	s.oy += dy
}

// Origin returns the current drawing origin.
func (s *Surface) Origin() (int, int) {
	return s.ox, s.oy
}

// Save pushes the current origin onto a stack.
func (s *Surface) Save() {
	s.saved = append(s.saved, image.Pt(s.ox, s.oy))
}

// Restore pops the origin saved by the matching Save. With nothing saved
// the origin is reset to zero.
func (s *Surface) Restore() {
	if len(s.saved) == 0 {
		s.ox, s.oy = 0, 0
		return
	}
	p := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.ox, s.oy = p.X, p.Y
}

// ResetOrigin clears the origin shift and the save stack.
func (s *Surface) ResetOrigin() {
	s.ox, s.oy = 0, 0
	s.saved = s.saved[:0]
}

func (s *Surface) rect(r Rect) image.Rectangle {
	return image.Rect(r.X+s.ox, r.Y+s.oy, r.Right()+s.ox, r.Bottom()+s.oy)
}

// Clear fills the whole buffer with c, ignoring the origin.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Set writes one pixel, blending c over the existing color.
func (s *Surface) Set(x, y int, c color.Color) {
	x += s.ox
	y += s.oy
	if !image.Pt(x, y).In(s.img.Bounds()) {
		return
	}
	r := image.Rect(x, y, x+1, y+1)
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// At returns the pixel at (x, y) in untranslated space.
// Out of bounds returns transparent black.
func (s *Surface) At(x, y int) color.RGBA {
	if !image.Pt(x, y).In(s.img.Bounds()) {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// FillRect fills r with c, alpha-blended over the existing pixels.
func (s *Surface) FillRect(r Rect, c color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	draw.Draw(s.img, s.rect(r).Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeRect draws the outline of r with the given line width.
func (s *Surface) StrokeRect(r Rect, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	s.FillRect(NewRect(r.X, r.Y, r.W, width), c)
	s.FillRect(NewRect(r.X, r.Bottom()-width, r.W, width), c)
	s.FillRect(NewRect(r.X, r.Y+width, width, r.H-2*width), c)
	s.FillRect(NewRect(r.Right()-width, r.Y+width, width, r.H-2*width), c)
}

// FillCircle fills a disc centered at (cx, cy).
func (s *Surface) FillCircle(cx, cy, radius int, c color.Color) {
	if radius < 0 {
		return
	}
	box := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1)
	s.fillPath(box, c, func(z *vector.Rasterizer, x, y float32) {
		traceCircle(z, x, y, float32(radius)+0.5, false)
	}, cx, cy)
}

// StrokeCircle draws a ring of the given width whose outer edge is radius.
func (s *Surface) StrokeCircle(cx, cy, radius, width int, c color.Color) {
	if radius < 0 {
		return
	}
	if width < 1 {
		width = 1
	}
	box := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1)
	s.fillPath(box, c, func(z *vector.Rasterizer, x, y float32) {
		traceCircle(z, x, y, float32(radius)+0.5, false)
		if inner := radius - width; inner >= 0 {
			traceCircle(z, x, y, float32(inner)+0.5, true)
		}
	}, cx, cy)
}

// Line draws a line between two points with square caps.
func (s *Surface) Line(x0, y0, x1, y1, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	pad := width + 1
	box := image.Rect(min(x0, x1)-pad, min(y0, y1)-pad, max(x0, x1)+pad+1, max(y0, y1)+pad+1)
	s.fillPath(box, c, func(z *vector.Rasterizer, x, y float32) {
		dx, dy := float32(x1-x0), float32(y1-y0)
		n := float32(math.Hypot(float64(dx), float64(dy)))
		ux, uy := float32(1), float32(0)
		if n > 0 {
			ux, uy = dx/n, dy/n
		}
		h := float32(width) / 2
		// Along the line and across it, both half a width long.
		ax, ay := ux*h, uy*h
		px, py := -uy*h, ux*h
		bx, by := x+dx, y+dy
		z.MoveTo(x-ax+px, y-ay+py)
		z.LineTo(bx+ax+px, by+ay+py)
		z.LineTo(bx+ax-px, by+ay-py)
		z.LineTo(x-ax-px, y-ay-py)
		z.ClosePath()
	}, x0, y0)
}

// fillPath rasterizes a shape traced around the pixel (ax, ay) and
// paints every pixel of box it covers at least half of. The trace gets
// the center of that pixel in box-local coordinates.
func (s *Surface) fillPath(box image.Rectangle, c color.Color, trace func(z *vector.Rasterizer, x, y float32), ax, ay int) {
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	trace(z, float32(ax-box.Min.X)+0.5, float32(ay-box.Min.Y)+0.5)
	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for y := 0; y < box.Dy(); y++ {
		for x := 0; x < box.Dx(); x++ {
			if mask.AlphaAt(x, y).A >= 0x80 {
				s.Set(box.Min.X+x, box.Min.Y+y, c)
			}
		}
	}
}

// traceCircle adds a closed circle of four cubic arcs. Rings trace the
// hole in the opposite direction.
func traceCircle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	if reverse {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	}
	z.ClosePath()
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847

// DrawImage copies the src region of an image into dst, scaling with
// nearest-neighbour sampling and blending over the existing pixels.
func (s *Surface) DrawImage(src image.Image, sr image.Rectangle, dst Rect) {
	if src == nil || dst.W <= 0 || dst.H <= 0 {
		return
	}
	sr = sr.Intersect(src.Bounds())
	if sr.Empty() {
		return
	}
	draw.NearestNeighbor.Scale(s.img, s.rect(dst), src, sr, draw.Over, nil)
}

// TextHeight is the line height of the built-in font.
const TextHeight = 13

// TextWidth returns the advance width of text in the built-in font.
func TextWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// DrawText renders text with its top-left corner at (x, y) and returns
// the advance width in pixels.
func (s *Surface) DrawText(x, y int, text string, c color.Color) int {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x+s.ox, y+s.oy+face.Ascent),
	}
	d.DrawString(text)
	return d.Dot.X.Ceil() - (x + s.ox)
}

// DrawBoldText renders text twice with a one pixel horizontal offset.
func (s *Surface) DrawBoldText(x, y int, text string, c color.Color) int {
	s.DrawText(x, y, text, c)
	return s.DrawText(x+1, y, text, c) + 1
}

// Recolor replaces every pixel inside r that exactly matches from with to.
func (s *Surface) Recolor(r Rect, from, to color.RGBA) {
	b := s.rect(r).Intersect(s.img.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if s.img.RGBAAt(x, y) == from {
				s.img.SetRGBA(x, y, to)
			}
		}
	}
}
