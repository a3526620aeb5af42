// Package tui hosts the snek engine in a Bubble Tea program.
// It handles the terminal UI loop, input mapping, rendering and SSH sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger an engine tick. Owner identifies the model that
// scheduled it so stale ticks from a finished run are dropped.
type TickMsg struct {
	Owner string
	At    time.Time
}

// tickCmd schedules the next tick for owner after interval.
func tickCmd(owner string, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Owner: owner, At: t}
	})
}
