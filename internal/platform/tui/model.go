package tui

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-linka/internal/config"
	"github.com/vovakirdan/tui-linka/internal/core"
	"github.com/vovakirdan/tui-linka/internal/engine"
	"github.com/vovakirdan/tui-linka/internal/loop"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
	"github.com/vovakirdan/tui-linka/internal/registry"
)

// chromeRows is the number of terminal rows kept free below the canvas
// for the dialog, status line and help.
const chromeRows = 10

// Options configures the terminal front-end.
type Options struct {
	Scale         int // surface pixels per cell column, 0 = fit the terminal
	Width, Height int // terminal size used until the first resize
	Watcher       *mapfile.Watcher
	ScreenshotDir string // defaults to ~/.linka/screenshots
	Logger        *log.Logger
}

// Model is the Bubble Tea model that hosts a running world.
type Model struct {
	world    *engine.World
	queue    *loop.Queue
	game     registry.Game
	opts     Options
	logger   *log.Logger
	keys     KeyMap
	help     help.Model
	scale    int
	width    int
	armed    time.Time // due time of the outstanding wake, zero if none
	notice   string
	failed   bool // notice is an error
	quitting bool
}

// NewModel creates a model for a world that has been set up but not started.
func NewModel(world *engine.World, queue *loop.Queue, game registry.Game, opts Options) Model {
	if opts.ScreenshotDir == "" {
		if dir := config.UserDir(); dir != "" {
			opts.ScreenshotDir = filepath.Join(dir, "screenshots")
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = world.Logger()
	}

	m := Model{
		world:  world,
		queue:  queue,
		game:   game,
		opts:   opts,
		logger: logger,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.resize(opts.Width, opts.Height)
	return m
}

// Init starts the world and the queue pump.
func (m Model) Init() tea.Cmd {
	m.world.Start()
	wake := func() tea.Msg { return WakeMsg{} }
	return tea.Batch(wake, watchCmd(m.opts.Watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case WakeMsg:
		return m.handleWake(msg)

	case ReloadMsg:
		return m.handleReload(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.world.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		path, err := saveScreenshot(m.opts.ScreenshotDir, m.game.ID(), m.world.Surface().Image())
		if err != nil {
			m.setError(fmt.Errorf("screenshot: %w", err))
		} else {
			m.setNotice("saved " + path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Terminals send no key-up events; the engine consumes the key on the
	// next frame and auto-repeat keeps a held key coming.
	if k := m.keys.EngineKey(msg); k != core.KeyNone {
		m.world.KeyDown(k)
	}
	cmd := m.arm()
	return m, cmd
}

// handleWake runs every due task and arms the next wake.
func (m Model) handleWake(msg WakeMsg) (tea.Model, tea.Cmd) {
	if !msg.due.Equal(m.armed) {
		// Superseded by an earlier wake.
		return m, nil
	}
	m.armed = time.Time{}
	m.queue.RunDue(m.queue.Now())
	cmd := m.arm()
	return m, cmd
}

// handleReload rebuilds the world's maps after a watched file changed.
func (m Model) handleReload(msg ReloadMsg) (tea.Model, tea.Cmd) {
	switch r, ok := m.game.(registry.Reloader); {
	case msg.Err != nil:
		m.setError(fmt.Errorf("watch: %w", msg.Err))
	case !ok:
		m.setNotice(filepath.Base(msg.Path) + " changed, restart to apply")
	default:
		if err := r.Reload(m.world); err != nil {
			m.setError(fmt.Errorf("reload %s: %w", filepath.Base(msg.Path), err))
		} else {
			m.setNotice("reloaded " + filepath.Base(msg.Path))
		}
	}
	cmd := m.arm()
	return m, tea.Batch(cmd, watchCmd(m.opts.Watcher))
}

// arm schedules a wake for the earliest queued task unless one is
// already outstanding for that time or sooner.
func (m *Model) arm() tea.Cmd {
	due, ok := m.queue.Next()
	if !ok {
		return nil
	}
	if !m.armed.IsZero() && !due.Before(m.armed) {
		return nil
	}
	m.armed = due
	return wakeCmd(m.queue, due)
}

func (m *Model) resize(cols, rows int) {
	m.width = cols
	m.help.Width = cols
	m.scale = m.opts.Scale
	if m.scale < 1 {
		s := m.world.Surface()
		m.scale = FitScale(s.Width(), s.Height(), cols, rows-chromeRows)
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.failed = false
	m.logger.Info(s)
}

func (m *Model) setError(err error) {
	m.notice = err.Error()
	m.failed = true
	m.logger.Error(err)
}

// View renders the canvas, the open dialog and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(RenderSurface(m.world.Surface().Image(), m.scale))
	if t := m.world.CurrentText(); t != nil {
		sb.WriteRune('\n')
		sb.WriteString(RenderDialog(t.Lines, m.canvasCols()))
	}
	sb.WriteRune('\n')
	sb.WriteString(m.statusLine())
	sb.WriteRune('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) canvasCols() int {
	return (m.world.Surface().Width() + m.scale - 1) / m.scale
}

func (m Model) statusLine() string {
	parts := []string{}
	if cur := m.world.CurrentMap(); cur != nil {
		parts = append(parts, cur.ID)
	}
	parts = append(parts, fmt.Sprintf("%.0f fps", m.world.ActualFramerate()))
	if sr, ok := m.game.(registry.StatusReporter); ok {
		parts = append(parts, sr.Status())
	}
	line := statusStyle.Render(strings.Join(parts, " | "))

	switch {
	case m.notice == "":
	case m.failed:
		line += "  " + errorStyle.Render(m.notice)
	default:
		line += "  " + noticeStyle.Render(m.notice)
	}
	return line
}

// saveScreenshot writes img as a timestamped PNG under dir.
func saveScreenshot(dir, id string, img image.Image) (string, error) {
	if dir == "" {
		return "", errors.New("no screenshot directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", id, timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Run hosts the world in the terminal until the player quits.
func Run(world *engine.World, queue *loop.Queue, game registry.Game, opts Options) error {
	p := tea.NewProgram(
		NewModel(world, queue, game, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	world.Stop()
	return err
}
