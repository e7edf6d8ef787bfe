// linka runs tile adventure worlds in the terminal or in a window.
//
// Usage:
//
//	linka list               - List available worlds
//	linka maps               - Show the maps of a world file
//	linka play [world]       - Play a world
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.linka/config.yaml)
//	--log <path>     - Append log output to a file
//	--debug          - Enable debug logging and overlays
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import worlds to register them
	_ "github.com/vovakirdan/tui-linka/internal/demo"
)

var (
	// Global flags
	flagConfig string
	flagLog    string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linka",
	Short: "Linka - a tile adventure engine for the terminal",
	Long: `Linka plays tile-based adventure worlds: walk between maps, talk to
characters and fight creatures, in the terminal or in a desktop window.

Available commands:
  list     - Show all registered worlds
  maps     - Show the maps of a world file
  play     - Play a world

Examples:
  linka list
  linka maps --maps ./my-world
  linka play
  linka play demo --gui
  linka play --maps ./my-world --watch`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "Append log output to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and overlays")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
}

// newLogger creates the command logger writing to w. Debug lines are
// kept when debug is on.
func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "linka",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openLog picks where log output goes. The terminal front-end owns
// stdout and stderr, so without --log its output is discarded.
func openLog(path string, terminal bool) (io.Writer, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if terminal {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}
