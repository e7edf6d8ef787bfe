package engine

import (
	"image/color"
	"math"

	"github.com/vovakirdan/tui-linka/internal/core"
)

const (
	textLineHeight = 14
	textPadding    = 20
)

// TextOverlay is a modal dialog painted over the map.
type TextOverlay struct {
	Lines      []string
	Background color.Color // nil: black at 75%
	Foreground color.Color // nil: white
	// OnClose runs when the overlay is hidden.
	OnClose func(w *World) error
}

// ShowText displays t, replacing any current overlay without closing it.
func (w *World) ShowText(t TextOverlay) {
	if len(t.Lines) == 0 {
		t.Lines = []string{"NO TEXT"}
	}
	w.text = &t
}

// ShowMessage displays lines with the default colors.
func (w *World) ShowMessage(lines ...string) {
	w.ShowText(TextOverlay{Lines: lines})
}

// HideText removes the overlay and runs its close hook. The hook may
// show another overlay.
func (w *World) HideText() {
	t := w.text
	if t == nil {
		return
	}
	w.text = nil
	if t.OnClose != nil {
		w.safeExecute(CodeRuntime, func() error { return t.OnClose(w) })
	}
}

// CurrentText returns the overlay on screen, or nil.
func (w *World) CurrentText() *TextOverlay { return w.text }

// TextBox returns the rectangle the overlay occupies on the surface.
func (w *World) TextBox(t *TextOverlay) core.Rect {
	cw, ch := float64(w.surface.Width()), float64(w.surface.Height())
	return core.NewRect(
		int(math.Round(cw*0.1)), int(math.Round(ch*0.1)),
		int(math.Round(cw*0.8)), len(t.Lines)*textLineHeight+textPadding,
	)
}

// paintText draws the overlay box, its lines and, on alternating
// stretches of frames, a "more" arrow.
func (w *World) paintText(frame int) {
	t := w.text
	var bg, fg color.Color = core.ColorDialogBkg, core.ColorWhite
	if t.Background != nil {
		bg = t.Background
	}
	if t.Foreground != nil {
		fg = t.Foreground
	}
	box := w.TextBox(t)
	dst := w.surface

	dst.Save()
	dst.Translate(box.X, box.Y)
	dst.StrokeRect(core.NewRect(-2, -2, box.W+4, box.H+4), 2, fg)
	dst.FillRect(core.NewRect(0, 0, box.W, box.H), bg)
	for i, line := range t.Lines {
		dst.DrawBoldText(5, 4+i*textLineHeight, line, fg)
	}
	if f := frame % 50; f > 0 && f < 25 {
		cx := box.W / 2
		for dy := 0; dy <= 10; dy++ {
			half := 8 * (10 - dy) / 10
			dst.FillRect(core.NewRect(cx-half, box.H-15+dy, 2*half+1, 1), fg)
		}
	}
	dst.Restore()
}
