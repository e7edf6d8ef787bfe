// Package demo is the built-in world: four maps joined at their edges,
// talking NPCs, creatures that drop coins, a scripted hermit and a
// sword-carrying hero. Its art is drawn in memory at startup.
package demo

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
	"github.com/vovakirdan/tui-linka/internal/registry"
)

// ID is the registry id of the demo world.
const ID = "demo"

// WorldFileName is the world file looked up in a maps directory.
const WorldFileName = "world.yaml"

//go:embed maps
var mapsFS embed.FS

func init() {
	registry.Register(ID, func(o registry.Options) registry.Game {
		return New(o.MapsDir)
	})
}

// LoadWorld reads the world file from mapsDir, or the built-in one when
// mapsDir is empty.
func LoadWorld(mapsDir string) (*mapfile.File, error) {
	if mapsDir == "" {
		return mapfile.LoadFS(mapsFS, "maps/"+WorldFileName)
	}
	return mapfile.Load(filepath.Join(mapsDir, WorldFileName))
}

// Game is one session of the demo world.
type Game struct {
	mapsDir  string
	file     *mapfile.File
	hero     *Hero
	programs *Programs
}

// New returns a session reading maps from mapsDir ("" for the built-in maps).
func New(mapsDir string) *Game {
	return &Game{mapsDir: mapsDir, programs: NewPrograms()}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Title() string { return "Linka demo world" }

// Hero returns the player's behaviour once Setup has run.
func (g *Game) Hero() *Hero { return g.hero }

// Configure makes every start, including restarts after the hero dies,
// begin a fresh game on the start map.
func (g *Game) Configure(opts *engine.Options) {
	next := opts.OnStart
	opts.OnStart = func(w *engine.World) error {
		if err := g.begin(w); err != nil {
			return err
		}
		if next != nil {
			return next(w)
		}
		return nil
	}
}

// Setup draws the demo art, installs the maps and creates the player.
func (g *Game) Setup(w *engine.World) error {
	RegisterSheets(w.Assets())
	maps, f, err := g.build(w)
	if err != nil {
		return err
	}
	if err := mapfile.Install(w, maps, false); err != nil {
		return err
	}
	g.file = f

	g.hero = NewHero(w.Assets())
	p := engine.NewPlayer(0, 0)
	p.Behavior = g.hero
	w.SetPlayer(p)
	return nil
}

// Reload re-reads the world file and its scripts and swaps the maps in
// place. The current map is rebuilt with its sprites; the player stays put.
func (g *Game) Reload(w *engine.World) error {
	g.programs.Reset()
	maps, f, err := g.build(w)
	if err != nil {
		return err
	}
	g.file = f
	return mapfile.Install(w, maps, true)
}

// Status reports the hero's hit points and money.
func (g *Game) Status() string {
	if g.hero == nil {
		return ""
	}
	return fmt.Sprintf("HP %d  $%d", g.hero.HP, g.hero.Money)
}

func (g *Game) build(w *engine.World) ([]*engine.Map, *mapfile.File, error) {
	f, err := LoadWorld(g.mapsDir)
	if err != nil {
		return nil, nil, err
	}
	maps, err := mapfile.Build(f, w.Assets(), Kinds(g.programs))
	if err != nil {
		return nil, nil, err
	}
	return maps, f, nil
}

// begin resets the hero and enters the start map.
func (g *Game) begin(w *engine.World) error {
	if g.file == nil || g.hero == nil {
		return errors.New("demo: world not set up")
	}
	start := g.file.Start
	g.hero.Reset()

	p := w.Player()
	p.StopAnimations()
	p.UpdateLocation(start.X*core.TileW, start.Y*core.TileH)
	p.Facing = core.DirDown
	if d, ok := core.ParseDirection(start.Facing); ok {
		p.Facing = d
	}
	w.EnableInput()
	w.HideText()
	return w.SetCurrentMap(start.Map)
}
