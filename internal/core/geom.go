// Package core provides fundamental types and utilities for the engine.
// It contains no UI dependencies (no Bubble Tea, no ebiten) so the engine
// stays pure and testable.
package core

import (
	"math"
	"strings"
)

// Tile dimensions in pixels. Positions at rest are always multiples of these.
const (
	TileW = 32
	TileH = 32
)

// Direction is a cardinal direction used for facing, movement requests
// and transition edges.
type Direction int

const (
	DirNone Direction = iota
	DirDown
	DirUp
	DirLeft
	DirRight
)

// AllDirections lists the four cardinal directions in declaration order.
var AllDirections = []Direction{DirDown, DirUp, DirLeft, DirRight}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= DirDown && d <= DirRight
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirDown:
		return DirUp
	case DirUp:
		return DirDown
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the pixel offset of a one-tile step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirDown:
		return 0, TileH
	case DirUp:
		return 0, -TileH
	case DirLeft:
		return -TileW, 0
	case DirRight:
		return TileW, 0
	default:
		return 0, 0
	}
}

// ParseDirection converts a name ("up", "Down", "l") to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "d", "s", "south":
		return DirDown, true
	case "up", "u", "n", "north":
		return DirUp, true
	case "left", "l", "w", "west":
		return DirLeft, true
	case "right", "r", "e", "east":
		return DirRight, true
	default:
		return DirNone, false
	}
}

// TileOf converts a pixel coordinate to the nearest tile coordinate.
func TileOf(x, y int) (tx, ty int) {
	return int(math.Round(float64(x) / TileW)), int(math.Round(float64(y) / TileH))
}

// Rect represents an axis-aligned box used for hit boxes and drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Uses standard AABB collision detection.
func (r Rect) Intersects(other Rect) bool {
	// No overlap if one rect is completely to the left, right, above, or below
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
// The test is half-open: the right and bottom edges are outside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := Min(r.X, o.X), Min(r.Y, o.Y)
	x1, y1 := Max(r.Right(), o.Right()), Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
