package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-linka/internal/engine"
)

type stubGame struct {
	id, title string
	mapsDir   string
}

func (g *stubGame) ID() string                { return g.id }
func (g *stubGame) Title() string             { return g.title }
func (g *stubGame) Configure(*engine.Options) {}
func (g *stubGame) Setup(*engine.World) error { return nil }

func register(t *testing.T, id, title string) {
	t.Helper()
	Register(id, func(o Options) Game { return &stubGame{id: id, title: title, mapsDir: o.MapsDir} })
	t.Cleanup(func() {
		mu.Lock()
		delete(factories, id)
		delete(titles, id)
		mu.Unlock()
	})
}

func TestRegisterAndList(t *testing.T) {
	register(t, "zeta", "Zeta Isle")
	register(t, "alpha", "Alpha Woods")

	list := List()
	var ids []string
	for _, info := range list {
		if info.ID == "alpha" || info.ID == "zeta" {
			ids = append(ids, info.ID)
		}
	}
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "zeta" {
		t.Errorf("List() ids = %v, expected [alpha zeta]", ids)
	}
	for _, info := range list {
		if info.ID == "zeta" && info.Title != "Zeta Isle" {
			t.Errorf("Title = %q, expected %q", info.Title, "Zeta Isle")
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	register(t, "dup", "Dup")
	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate id should panic")
		}
	}()
	Register("dup", func(Options) Game { return &stubGame{id: "dup"} })
}

func TestCreate(t *testing.T) {
	register(t, "cave", "Cave")

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"registered", "cave", false},
		{"unknown", "nowhere", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Create(tc.id, Options{MapsDir: "/tmp/maps"})
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownWorld) {
					t.Errorf("Create() error = %v, expected ErrUnknownWorld", err)
				}
				if Exists(tc.id) {
					t.Error("Exists() = true for an unknown id")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if g.ID() != tc.id {
				t.Errorf("ID() = %q, expected %q", g.ID(), tc.id)
			}
			if sg := g.(*stubGame); sg.mapsDir != "/tmp/maps" {
				t.Errorf("factory got MapsDir %q", sg.mapsDir)
			}
		})
	}
}
