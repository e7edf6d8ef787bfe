package demo

import (
	"fmt"

	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
	"github.com/vovakirdan/tui-linka/internal/script"
)

// Programs compiles sprite scripts once per world file.
type Programs struct {
	compiled map[string]*script.Program
}

// NewPrograms returns an empty script cache.
func NewPrograms() *Programs {
	return &Programs{compiled: make(map[string]*script.Program)}
}

// Get compiles the script at name relative to the world file, or returns
// the program compiled earlier.
func (p *Programs) Get(f *mapfile.File, name string) (*script.Program, error) {
	if prog, ok := p.compiled[name]; ok {
		return prog, nil
	}
	src, err := f.ReadFile(name)
	if err != nil {
		return nil, err
	}
	prog, err := script.Compile(name, string(src))
	if err != nil {
		return nil, err
	}
	p.compiled[name] = prog
	return prog, nil
}

// Reset forgets every compiled program so edited scripts are reloaded.
func (p *Programs) Reset() {
	clear(p.compiled)
}

func (p *Programs) newScripted(w *engine.World, f *mapfile.File, def mapfile.SpriteDef) (*engine.Sprite, error) {
	if def.Script == "" {
		return nil, fmt.Errorf("scripted sprite at %d,%d has no script", def.X, def.Y)
	}
	prog, err := p.Get(f, def.Script)
	if err != nil {
		return nil, err
	}
	col, row, err := sheetCell(def)
	if err != nil {
		return nil, err
	}
	look := newWalkCycle(w.Assets(), SheetBard, col, row, 10)
	b := prog.NewBehavior()
	b.Painter = look.paint

	s := engine.NewSprite(0, 0)
	s.Kind = "scripted"
	s.WalkDuration = TalkerWalk
	s.Behavior = b
	return s, nil
}
