package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-linka/internal/demo"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Show the maps of a world file",
	Long: `Loads and validates a world file and prints its maps: size, tileset,
sprites and the exits to neighbouring maps.

Without --maps the built-in demo world is shown.

Examples:
  linka maps
  linka maps --maps ./my-world`,
	Args: cobra.NoArgs,
	RunE: runMaps,
}

func init() {
	mapsCmd.Flags().StringVar(&flagMaps, "maps", "", "Directory holding "+demo.WorldFileName)
}

func runMaps(cmd *cobra.Command, args []string) error {
	f, err := demo.LoadWorld(flagMaps)
	if err != nil {
		return err
	}
	printMaps(cmd.OutOrStdout(), f)
	return nil
}

// printMaps writes a table of the world's maps.
func printMaps(out io.Writer, f *mapfile.File) {
	start := f.Start
	facing := start.Facing
	if facing == "" {
		facing = "down"
	}
	fmt.Fprintf(out, "Start: %s (%d, %d) facing %s\n\n", start.Map, start.X, start.Y, facing)

	maxIDLen := 2 // "ID" header
	for _, m := range f.Maps {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	fmt.Fprintf(out, "  %-*s  %-6s  %-14s  %-7s  %s\n", maxIDLen, "ID", "Size", "Tileset", "Sprites", "Exits")
	fmt.Fprintf(out, "  %-*s  %-6s  %-14s  %-7s  %s\n", maxIDLen, "--", "----", "-------", "-------", "-----")
	cols, rows := f.Size()
	size := fmt.Sprintf("%dx%d", cols, rows)
	for _, m := range f.Maps {
		fmt.Fprintf(out, "  %-*s  %-6s  %-14s  %-7d  %s\n",
			maxIDLen, m.ID, size, m.Tileset, len(m.Sprites), exits(m.Transitions))
	}
}

// exits summarizes transitions as "direction→map", one per target.
func exits(ts []mapfile.TransitionDef) string {
	if len(ts) == 0 {
		return "-"
	}
	seen := make(map[string]bool)
	var parts []string
	for _, t := range ts {
		exit := t.Direction + "→" + t.Map
		if !seen[exit] {
			seen[exit] = true
			parts = append(parts, exit)
		}
	}
	return strings.Join(parts, ", ")
}
