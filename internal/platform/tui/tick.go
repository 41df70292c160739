// Package tui provides the Bubble Tea front end for the snake game.
// It handles the terminal UI loop, key bindings, replay playback and the
// SSH server that hosts the same UI remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent when a game tick is due.
// Gen identifies the timer that scheduled it: pausing, resetting or
// restarting bumps the model's generation, so ticks from a cancelled timer
// arrive with a stale Gen and are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends one TickMsg after interval.
func tickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
