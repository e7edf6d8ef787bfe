package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette colors used by the engine's built-in drawing (placeholders,
// fallback tiles, hit boxes, dialogs) and by the demo tilesets.
var (
	ColorWhite     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorBlack     = color.RGBA{A: 255}
	ColorRed       = color.RGBA{R: 255, A: 255}
	ColorHitBox    = color.RGBA{G: 255, A: 255}
	ColorGreen     = color.RGBA{G: 128, A: 255}
	ColorBlue      = color.RGBA{B: 255, A: 255}
	ColorTan       = color.RGBA{R: 210, G: 180, B: 140, A: 255}
	ColorDarkGray  = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	ColorGold      = color.RGBA{R: 255, G: 215, A: 255}
	ColorDialogBkg = color.RGBA{A: 191} // black at 75%
)

var namedColors = map[string]color.RGBA{
	"white":    ColorWhite,
	"black":    ColorBlack,
	"red":      ColorRed,
	"lime":     ColorHitBox,
	"green":    ColorGreen,
	"blue":     ColorBlue,
	"tan":      ColorTan,
	"darkgray": ColorDarkGray,
	"gold":     ColorGold,
}

// ParseColor converts a palette name or a #rrggbb / #rrggbbaa string to a color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(s) == 7 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats a color as #rrggbb, ignoring alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
