package engine

import (
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-linka/internal/core"
)

// Frame rate bounds and defaults.
const (
	DefaultFramerate = 30
	MinFramerate     = 10
	MaxFramerate     = 60
	DefaultMapSize   = 8

	// PlayerWalkDuration is the fixed time the player takes to cross one tile.
	PlayerWalkDuration = 80 * time.Millisecond
	// DefaultWalkDuration is a sprite's default time to cross one tile.
	DefaultWalkDuration = 80 * time.Millisecond
	// TransitionStep is the interval between map scroll sub-steps.
	TransitionStep = 30 * time.Millisecond
)

// Options configures a World. Zero values are replaced with defaults.
type Options struct {
	Framerate    int
	MapWidth     int // tiles
	MapHeight    int // tiles
	Debug        bool
	DrawHitBoxes bool
	Seed         int64 // 0 seeds from the clock

	// Assets is the filesystem image sources are loaded from.
	Assets fs.FS
	Logger *log.Logger

	OnInit  func(w *World) error
	OnStart func(w *World) error
	OnStop  func(w *World) error
	OnFrame func(w *World, frame int) error
	// OnError receives every fault raised by a user callback. w is nil
	// for faults raised before the World exists.
	OnError func(w *World, code ErrorCode, err error)
}

func (o Options) normalize() Options {
	switch {
	case o.Framerate == 0:
		o.Framerate = DefaultFramerate
	case o.Framerate < MinFramerate:
		o.Framerate = MinFramerate
	case o.Framerate > MaxFramerate:
		o.Framerate = MaxFramerate
	}
	o.MapWidth = core.Abs(o.MapWidth)
	if o.MapWidth == 0 {
		o.MapWidth = DefaultMapSize
	}
	o.MapHeight = core.Abs(o.MapHeight)
	if o.MapHeight == 0 {
		o.MapHeight = DefaultMapSize
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}
