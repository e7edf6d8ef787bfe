package core

import (
	"image"
	"image/color"
	"testing"
)

func TestNewSurface(t *testing.T) {
	s := NewSurface(64, 48)

	if s.Width() != 64 {
		t.Errorf("Width() = %d, expected 64", s.Width())
	}
	if s.Height() != 48 {
		t.Errorf("Height() = %d, expected 48", s.Height())
	}
	if s.At(10, 10) != ColorWhite {
		t.Errorf("new surface should be white, got %v", s.At(10, 10))
	}
}

func TestSurfaceFillRectClipped(t *testing.T) {
	s := NewSurface(32, 32)

	// Partially off-surface, should not panic
	s.FillRect(NewRect(-10, -10, 20, 20), ColorRed)
	s.FillRect(NewRect(100, 100, 10, 10), ColorRed)

	if s.At(0, 0) != ColorRed {
		t.Errorf("At(0, 0) = %v, expected red", s.At(0, 0))
	}
	if s.At(9, 9) != ColorRed {
		t.Errorf("At(9, 9) = %v, expected red", s.At(9, 9))
	}
	if s.At(10, 10) != ColorWhite {
		t.Errorf("At(10, 10) = %v, expected white", s.At(10, 10))
	}
}

func TestSurfaceTranslate(t *testing.T) {
	s := NewSurface(64, 64)

	s.Save()
	s.Translate(32, 0)
	s.Translate(0, 32)
	if x, y := s.Origin(); x != 32 || y != 32 {
		t.Errorf("Origin() = (%d, %d), expected (32, 32)", x, y)
	}
	s.FillRect(NewRect(0, 0, 1, 1), ColorBlue)
	s.Restore()

	if s.At(32, 32) != ColorBlue {
		t.Errorf("translated fill landed at wrong pixel, At(32, 32) = %v", s.At(32, 32))
	}
	if x, y := s.Origin(); x != 0 || y != 0 {
		t.Errorf("Origin() after Restore = (%d, %d), expected (0, 0)", x, y)
	}
}

func TestSurfaceShapes(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(s *Surface)
		red   []image.Point
		white []image.Point
	}{
		{
			name:  "disc",
			draw:  func(s *Surface) { s.FillCircle(16, 16, 5, ColorRed) },
			red:   []image.Point{{16, 16}, {21, 16}, {16, 11}, {11, 16}},
			white: []image.Point{{22, 16}, {16, 22}, {21, 21}},
		},
		{
			name:  "ring",
			draw:  func(s *Surface) { s.StrokeCircle(16, 16, 10, 3, ColorRed) },
			red:   []image.Point{{26, 16}, {24, 16}, {16, 6}},
			white: []image.Point{{23, 16}, {16, 16}, {27, 16}},
		},
		{
			name:  "thin line",
			draw:  func(s *Surface) { s.Line(4, 10, 20, 10, 1, ColorRed) },
			red:   []image.Point{{4, 10}, {12, 10}, {20, 10}},
			white: []image.Point{{3, 10}, {21, 10}, {12, 11}, {12, 9}},
		},
		{
			name:  "wide diagonal",
			draw:  func(s *Surface) { s.Line(4, 4, 20, 20, 3, ColorRed) },
			red:   []image.Point{{4, 4}, {12, 12}, {13, 12}, {20, 20}},
			white: []image.Point{{20, 12}, {12, 20}},
		},
		{
			name: "follows the origin",
			draw: func(s *Surface) {
				s.Translate(8, 8)
				s.FillCircle(0, 0, 2, ColorRed)
				s.ResetOrigin()
			},
			red:   []image.Point{{8, 8}, {10, 8}},
			white: []image.Point{{0, 0}, {11, 8}},
		},
		{
			name: "clipped at the edge",
			draw: func(s *Surface) {
				s.FillCircle(0, 0, 4, ColorRed)
				s.Line(-10, 31, 40, 31, 1, ColorRed)
			},
			red:   []image.Point{{0, 0}, {3, 0}, {0, 31}, {31, 31}},
			white: []image.Point{{5, 0}, {16, 30}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSurface(32, 32)
			tc.draw(s)
			for _, p := range tc.red {
				if got := s.At(p.X, p.Y); got != ColorRed {
					t.Errorf("At(%d, %d) = %v, expected red", p.X, p.Y, got)
				}
			}
			for _, p := range tc.white {
				if got := s.At(p.X, p.Y); got != ColorWhite {
					t.Errorf("At(%d, %d) = %v, expected white", p.X, p.Y, got)
				}
			}
		})
	}
}

func TestSurfaceTranslucentFill(t *testing.T) {
	s := NewSurface(8, 8)
	s.Clear(ColorBlack)
	s.FillRect(NewRect(0, 0, 8, 8), color.RGBA{R: 128, A: 128})

	got := s.At(4, 4)
	if got.R != 128 || got.A != 255 {
		t.Errorf("alpha fill over black = %v, expected R=128 A=255", got)
	}
}

func TestSurfaceDrawImageScales(t *testing.T) {
	sheet := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		sheet.SetRGBA(2, y, ColorRed)
		sheet.SetRGBA(3, y, ColorRed)
	}

	s := NewSurface(32, 32)
	s.DrawImage(sheet, image.Rect(2, 0, 4, 2), NewRect(0, 0, 32, 32))

	for _, p := range []image.Point{{0, 0}, {31, 31}, {16, 16}} {
		if s.At(p.X, p.Y) != ColorRed {
			t.Errorf("At(%d, %d) = %v, expected red", p.X, p.Y, s.At(p.X, p.Y))
		}
	}
}

func TestSurfaceRecolor(t *testing.T) {
	s := NewSurface(8, 8)
	s.FillRect(NewRect(0, 0, 4, 8), ColorBlack)
	s.Recolor(NewRect(0, 0, 8, 8), ColorBlack, ColorRed)

	if s.At(0, 0) != ColorRed {
		t.Errorf("At(0, 0) = %v, expected recolored red", s.At(0, 0))
	}
	if s.At(6, 0) != ColorWhite {
		t.Errorf("At(6, 0) = %v, expected untouched white", s.At(6, 0))
	}
}

func TestSurfaceDrawText(t *testing.T) {
	s := NewSurface(100, 20)
	w := s.DrawText(2, 2, "hi", ColorBlack)

	if w != TextWidth("hi") {
		t.Errorf("DrawText() width = %d, expected %d", w, TextWidth("hi"))
	}
	found := false
	for y := 0; y < 20 && !found; y++ {
		for x := 0; x < 100; x++ {
			if s.At(x, y) == ColorBlack {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("DrawText() painted no pixels")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"red", ColorRed, false},
		{"#00ff00", color.RGBA{G: 255, A: 255}, false},
		{"#00000080", color.RGBA{A: 128}, false},
		{"chartreuse", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseColor(%q) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}
