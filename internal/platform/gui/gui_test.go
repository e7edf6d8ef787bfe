package gui

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/loop"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
)

type stubGame struct {
	reloads int
	err     error
}

func (g *stubGame) ID() string                 { return "stub" }
func (g *stubGame) Title() string              { return "Stub" }
func (g *stubGame) Configure(*engine.Options)  {}
func (g *stubGame) Setup(*engine.World) error  { return nil }
func (g *stubGame) Status() string             { return "HP 9" }
func (g *stubGame) Reload(*engine.World) error { g.reloads++; return g.err }

func newGame(t *testing.T, game *stubGame, watcher *mapfile.Watcher) *Game {
	t.Helper()
	q := loop.NewQueue(loop.NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	logger := log.New(io.Discard)
	w, err := engine.New(engine.Options{MapWidth: 3, MapHeight: 2, Seed: 1, Logger: logger},
		core.NewSurface(3*core.TileW, 2*core.TileH), q)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return NewGame(w, q, game, Options{Watcher: watcher, Logger: logger})
}

func TestReadKeys(t *testing.T) {
	tests := []struct {
		name     string
		pressed  []ebiten.Key
		tapped   []ebiten.Key
		expected core.Key
	}{
		{"nothing", nil, nil, core.KeyNone},
		{"held arrow", []ebiten.Key{ebiten.KeyArrowLeft}, nil, core.KeyLeft},
		{"held wasd", []ebiten.Key{ebiten.KeyD}, nil, core.KeyRight},
		{"tapped space", []ebiten.Key{ebiten.KeySpace}, []ebiten.Key{ebiten.KeySpace}, core.KeyAction},
		{"held space repeats nothing", []ebiten.Key{ebiten.KeySpace}, nil, core.KeyNone},
		{"tap wins over movement", []ebiten.Key{ebiten.KeyW, ebiten.KeyEnter}, []ebiten.Key{ebiten.KeyEnter}, core.KeyConfirm},
		{"unbound key", []ebiten.Key{ebiten.KeyZ}, []ebiten.Key{ebiten.KeyZ}, core.KeyNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := readKeys(tc.pressed, tc.tapped); got != tc.expected {
				t.Errorf("readKeys() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestLayoutMatchesSurface(t *testing.T) {
	g := newGame(t, &stubGame{}, nil)
	w, h := g.Layout(1920, 1080)
	if w != 96 || h != 64 {
		t.Errorf("Layout() = (%d, %d), expected (96, 64)", w, h)
	}
	if g.opts.Scale != 1 {
		t.Errorf("Scale = %d, expected the minimum of 1", g.opts.Scale)
	}
}

func TestWindowTitle(t *testing.T) {
	g := newGame(t, &stubGame{}, nil)
	if got := windowTitle(g.game, g.world); got != "Stub - HP 9" {
		t.Errorf("windowTitle() = %q, expected %q", got, "Stub - HP 9")
	}
}

func TestPollReload(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		err     error
		reloads int
	}{
		{"changed file", "/maps/world.yaml", nil, 1},
		{"broken file", "/maps/world.yaml", errors.New("bad tile"), 1},
		{"no event", "", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			watcher := &mapfile.Watcher{Events: make(chan string, 1), Errors: make(chan error, 1)}
			if tc.event != "" {
				watcher.Events <- tc.event
			}
			game := &stubGame{err: tc.err}
			g := newGame(t, game, watcher)

			g.pollReload()
			if game.reloads != tc.reloads {
				t.Errorf("Reload() ran %d times, expected %d", game.reloads, tc.reloads)
			}
		})
	}
}

func TestPollReloadClosedWatcher(t *testing.T) {
	watcher := &mapfile.Watcher{Events: make(chan string), Errors: make(chan error)}
	close(watcher.Events)
	g := newGame(t, &stubGame{}, watcher)

	g.pollReload()
	if g.opts.Watcher != nil {
		t.Error("a closed watcher should be dropped")
	}
}
