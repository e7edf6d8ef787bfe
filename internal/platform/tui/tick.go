// Package tui provides the Bubble Tea front-end for the engine.
// It pumps the task queue, maps keys and draws the surface with
// half-block characters.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-linka/internal/loop"
	"github.com/vovakirdan/tui-linka/internal/mapfile"
)

// WakeMsg is sent when the earliest queued task is due.
type WakeMsg struct {
	due time.Time
}

// ReloadMsg reports a change to a watched map or script file.
type ReloadMsg struct {
	Path string
	Err  error
}

// wakeCmd returns a command that fires when the task due at due should run.
func wakeCmd(q *loop.Queue, due time.Time) tea.Cmd {
	return tea.Tick(due.Sub(q.Now()), func(time.Time) tea.Msg {
		return WakeMsg{due: due}
	})
}

// watchCmd blocks until the watcher reports a change or an error.
// It returns nil once the watcher is closed.
func watchCmd(w *mapfile.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return ReloadMsg{Path: path}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return ReloadMsg{Err: err}
		}
	}
}
