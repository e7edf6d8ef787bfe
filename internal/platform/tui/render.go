package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-linka/internal/core"
)

const halfBlock = "▀"

// cellColors is the pair of pixels drawn by one terminal cell.
type cellColors struct {
	top, bottom color.RGBA
}

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("15")).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color(core.Hex(core.ColorDialogBkg))).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderSurface converts an image to rows of half-block cells.
// Each cell covers scale pixels across and 2*scale pixels down; the top
// pixel becomes the foreground and the bottom one the background.
// Adjacent cells with the same colors share one styled run.
func RenderSurface(img *image.RGBA, scale int) string {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	styles := make(map[cellColors]lipgloss.Style)

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 * scale {
		if y > b.Min.Y {
			sb.WriteRune('\n')
		}

		x := b.Min.X
		for x < b.Max.X {
			start := sampleCell(img, x, y, scale)
			n := 0
			for x < b.Max.X && sampleCell(img, x, y, scale) == start {
				n++
				x += scale
			}

			style, ok := styles[start]
			if !ok {
				style = lipgloss.NewStyle().
					Foreground(lipgloss.Color(core.Hex(start.top))).
					Background(lipgloss.Color(core.Hex(start.bottom)))
				styles[start] = style
			}
			sb.WriteString(style.Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}

// sampleCell picks the pixels for the cell whose top-left pixel is (x, y).
func sampleCell(img *image.RGBA, x, y, scale int) cellColors {
	c := cellColors{top: img.RGBAAt(x, y)}
	if by := y + scale; by < img.Bounds().Max.Y {
		c.bottom = img.RGBAAt(x, by)
	} else {
		c.bottom = c.top
	}
	return c
}

// FitScale returns the smallest scale at which a width x height image
// fits in cols x rows terminal cells.
func FitScale(width, height, cols, rows int) int {
	if cols < 1 || rows < 1 {
		return 1
	}
	scale := 1
	for width > cols*scale || height > rows*2*scale {
		scale++
	}
	return scale
}

// RenderDialog draws the dialog lines in a bordered box.
func RenderDialog(lines []string, width int) string {
	style := dialogStyle
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}
