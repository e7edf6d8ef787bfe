// Package registry provides a global registry for playable worlds.
// Worlds register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-linka/internal/engine"
)

// ErrUnknownWorld is returned by Create for ids nobody registered.
var ErrUnknownWorld = errors.New("unknown world")

// Game is a playable world definition. It holds the per-session state
// that lives outside the engine (the hero's purse, loaded map files).
type Game interface {
	// ID returns a unique identifier used on the command line.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Configure adjusts the engine options before the World is created,
	// typically to install lifecycle hooks. Existing hooks must be chained.
	Configure(opts *engine.Options)

	// Setup installs maps, tilesets and the player into a new World.
	// The first map is entered when the World starts.
	Setup(w *engine.World) error
}

// Reloader is implemented by games that can re-read their map files into
// a running World.
type Reloader interface {
	Reload(w *engine.World) error
}

// StatusReporter is implemented by games with a one-line status
// (hit points, money) for the front-end's status bar.
type StatusReporter interface {
	Status() string
}

// Options are passed to every factory.
type Options struct {
	// MapsDir overrides the world's built-in map files.
	MapsDir string
}

// Info contains metadata about a registered world.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new game session.
type Factory func(opts Options) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory to the registry.
// Panics if a world with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: world %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f(Options{}).Title()
}

// List returns information about all registered worlds, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
func Create(id string, opts Options) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: %w %q", ErrUnknownWorld, id)
	}

	return f(opts), nil
}

// Exists checks if a world with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
