// Package gui hosts a world in a desktop window using Ebitengine.
package gui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/loop"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
	"github.com/vovakirdan/tui-linka/internal/registry"
)

// Options configures the window.
type Options struct {
	Scale   int // window pixels per surface pixel
	Watcher *mapfile.Watcher
	Logger  *log.Logger
}

// Movement keys are delivered for as long as they are held.
var moveKeys = map[ebiten.Key]core.Key{
	ebiten.KeyArrowUp:    core.KeyUp,
	ebiten.KeyW:          core.KeyUp,
	ebiten.KeyArrowDown:  core.KeyDown,
	ebiten.KeyS:          core.KeyDown,
	ebiten.KeyArrowLeft:  core.KeyLeft,
	ebiten.KeyA:          core.KeyLeft,
	ebiten.KeyArrowRight: core.KeyRight,
	ebiten.KeyD:          core.KeyRight,
}

// Tap keys are delivered once per press.
var tapKeys = map[ebiten.Key]core.Key{
	ebiten.KeySpace: core.KeyAction,
	ebiten.KeyEnter: core.KeyConfirm,
}

// readKeys picks the engine key for this update. A freshly tapped key
// wins over a held movement key.
func readKeys(pressed, tapped []ebiten.Key) core.Key {
	for _, k := range tapped {
		if code, ok := tapKeys[k]; ok {
			return code
		}
	}
	for _, k := range pressed {
		if code, ok := moveKeys[k]; ok {
			return code
		}
	}
	return core.KeyNone
}

// Game implements ebiten.Game on top of an engine world.
type Game struct {
	world   *engine.World
	queue   *loop.Queue
	game    registry.Game
	opts    Options
	logger  *log.Logger
	held    bool
	title   string
	pressed []ebiten.Key
	tapped  []ebiten.Key
}

// NewGame wraps a world that has been set up but not started.
func NewGame(world *engine.World, queue *loop.Queue, game registry.Game, opts Options) *Game {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = world.Logger()
	}
	return &Game{
		world:  world,
		queue:  queue,
		game:   game,
		opts:   opts,
		logger: logger,
	}
}

// Update feeds input to the world and runs the tasks that are due.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pressed = inpututil.AppendPressedKeys(g.pressed[:0])
	g.tapped = inpututil.AppendJustPressedKeys(g.tapped[:0])
	switch k := readKeys(g.pressed, g.tapped); {
	case k != core.KeyNone:
		g.world.KeyDown(k)
		g.held = true
	case g.held:
		g.world.KeyUp()
		g.held = false
	}

	g.pollReload()
	g.queue.RunDue(g.queue.Now())

	if title := windowTitle(g.game, g.world); title != g.title {
		g.title = title
		ebiten.SetWindowTitle(title)
	}
	return nil
}

// pollReload applies at most one pending watcher event without blocking.
func (g *Game) pollReload() {
	w := g.opts.Watcher
	if w == nil {
		return
	}
	select {
	case path, ok := <-w.Events:
		if !ok {
			g.opts.Watcher = nil
			return
		}
		r, ok := g.game.(registry.Reloader)
		if !ok {
			g.logger.Warn("world changed, restart to apply", "file", filepath.Base(path))
			return
		}
		if err := r.Reload(g.world); err != nil {
			g.logger.Error("reload failed", "file", filepath.Base(path), "err", err)
			return
		}
		g.logger.Info("reloaded", "file", filepath.Base(path))
	case err, ok := <-w.Errors:
		if ok {
			g.logger.Error("watch failed", "err", err)
		}
	default:
	}
}

// Draw copies the world's surface to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.world.Surface().Image().Pix)
	if g.world.Options().Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%.0f fps  %.0f tps", g.world.ActualFramerate(), ebiten.ActualTPS()))
	}
}

// Layout keeps the logical screen at the surface size; Ebitengine
// scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Surface()
	return s.Width(), s.Height()
}

// windowTitle names the game, the current map and the game's status.
func windowTitle(game registry.Game, w *engine.World) string {
	title := game.Title()
	if cur := w.CurrentMap(); cur != nil {
		title += " - " + cur.ID
	}
	if sr, ok := game.(registry.StatusReporter); ok {
		title += " - " + sr.Status()
	}
	return title
}

// Run opens the window and hosts the world until it is closed.
func Run(world *engine.World, queue *loop.Queue, game registry.Game, opts Options) error {
	g := NewGame(world, queue, game, opts)
	s := world.Surface()
	ebiten.SetWindowSize(s.Width()*g.opts.Scale, s.Height()*g.opts.Scale)
	ebiten.SetWindowTitle(game.Title())

	world.Start()
	err := ebiten.RunGame(g)
	world.Stop()
	return err
}
