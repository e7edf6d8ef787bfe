package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-linka/internal/config"
	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/loop"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
	"github.com/vovakirdan/tui-linka/internal/platform/gui"
	"github.com/vovakirdan/tui-linka/internal/platform/tui"
	"github.com/vovakirdan/tui-linka/internal/registry"
)

var (
	flagGUI      bool
	flagMaps     string
	flagWatch    bool
	flagFPS      int
	flagHitBoxes bool
	flagSeed     int64
	flagScale    int
)

var playCmd = &cobra.Command{
	Use:   "play [world]",
	Short: "Play a world",
	Long: `Start playing the specified world, or the configured one.

Controls:
  Arrows/WASD  - Walk
  Space        - Attack, close dialogs
  Enter        - Confirm
  Ctrl+S       - Screenshot (terminal)
  Q/Ctrl+C     - Quit (Esc in a window)

Examples:
  linka play
  linka play demo --gui
  linka play --maps ./my-world --watch
  linka play --fps 60 --seed 42
  linka play --debug --hitboxes --log linka.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagGUI, "gui", false, "Open a desktop window instead of using the terminal")
	playCmd.Flags().StringVar(&flagMaps, "maps", "", "Load world files from this directory")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload edited world and script files")
	playCmd.Flags().IntVar(&flagFPS, "fps", 30, "Frames per second")
	playCmd.Flags().BoolVar(&flagHitBoxes, "hitboxes", false, "Draw sprite hit boxes (with --debug)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	playCmd.Flags().IntVar(&flagScale, "scale", 0, "Pixels per cell in the terminal or per pixel in a window (0 = config)")
}

// applyFlags lets flags given on the command line override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Engine.Framerate = flagFPS
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flags.Changed("debug") {
		cfg.Debug.Enabled = flagDebug
	}
	if flags.Changed("hitboxes") {
		cfg.Debug.DrawHitBoxes = flagHitBoxes
	}
	if flags.Changed("maps") {
		cfg.World.MapsDir = flagMaps
	}
	if flags.Changed("watch") {
		cfg.World.Watch = flagWatch
	}
	if flags.Changed("scale") {
		if flagGUI {
			cfg.Render.GUIScale = flagScale
		} else {
			cfg.Render.Scale = flagScale
		}
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if len(args) == 1 {
		cfg.World.ID = args[0]
	}

	// Check if world exists
	if !registry.Exists(cfg.World.ID) {
		return fmt.Errorf("unknown world %q, run 'linka list' to see available worlds", cfg.World.ID)
	}

	logOut, closeLog, err := openLog(flagLog, !flagGUI)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(logOut, cfg.Debug.Enabled)

	game, err := registry.Create(cfg.World.ID, registry.Options{MapsDir: cfg.World.MapsDir})
	if err != nil {
		return err
	}

	opts := cfg.EngineOptions()
	opts.Logger = logger
	if cfg.World.MapsDir != "" {
		opts.Assets = os.DirFS(cfg.World.MapsDir)
	}
	game.Configure(&opts)

	queue := loop.NewQueue(nil)
	surface := core.NewSurface(opts.MapWidth*core.TileW, opts.MapHeight*core.TileH)
	world, err := engine.New(opts, surface, queue)
	if err != nil {
		return err
	}
	if err := game.Setup(world); err != nil {
		return fmt.Errorf("set up %s: %w", cfg.World.ID, err)
	}

	var watcher *mapfile.Watcher
	if cfg.World.Watch {
		if cfg.World.MapsDir == "" {
			logger.Warn("built-in maps are not watched, use --maps with --watch")
		} else {
			watcher, err = mapfile.NewWatcher(cfg.World.MapsDir)
			if err != nil {
				return fmt.Errorf("watch %s: %w", cfg.World.MapsDir, err)
			}
			defer watcher.Close()
		}
	}

	logger.Info("starting", "world", cfg.World.ID, "fps", opts.Framerate, "gui", flagGUI)
	if flagGUI {
		return gui.Run(world, queue, game, gui.Options{
			Scale:   cfg.Render.GUIScale,
			Watcher: watcher,
			Logger:  logger,
		})
	}

	// Get terminal size for the initial scale
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	return tui.Run(world, queue, game, tui.Options{
		Scale:   cfg.Render.Scale,
		Width:   width,
		Height:  height,
		Watcher: watcher,
		Logger:  logger,
	})
}
