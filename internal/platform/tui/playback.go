package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/core"
	"github.com/vovakirdan/snake/internal/games/snake"
	"github.com/vovakirdan/snake/internal/storage"
)

// PlaybackKeyMap defines the key bindings for replay playback.
type PlaybackKeyMap struct {
	Pause  key.Binding
	Step   key.Binding
	Faster key.Binding
	Slower key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlaybackKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlaybackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPlaybackKeyMap returns default key bindings.
func DefaultPlaybackKeyMap() PlaybackKeyMap {
	return PlaybackKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "step"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// maxPlaybackRate caps the fast-forward multiplier.
const maxPlaybackRate = 8

// PlaybackModel replays a stored run at its recorded speed.
type PlaybackModel struct {
	player   *snake.Player
	entry    storage.ReplayEntry
	screen   *core.Screen
	palette  Palette
	keys     PlaybackKeyMap
	help     help.Model
	gen      int
	rate     int // Playback speed multiplier
	paused   bool
	quitting bool
}

// NewPlaybackModel prepares playback of entry.
func NewPlaybackModel(cfg config.Config, entry storage.ReplayEntry, rt core.RuntimeConfig) PlaybackModel {
	return PlaybackModel{
		player:  snake.NewPlayer(cfg, entry.Journal),
		entry:   entry,
		screen:  core.NewScreen(rt.ScreenW, max(rt.ScreenH-helpHeight, 1)),
		palette: ThemePalette(cfg.Theme),
		keys:    DefaultPlaybackKeyMap(),
		help:    help.New(),
		rate:    1,
	}
}

// Init schedules the first tick.
func (m PlaybackModel) Init() tea.Cmd {
	return m.schedule()
}

// schedule arms the next tick at the engine's interval divided by the rate.
func (m PlaybackModel) schedule() tea.Cmd {
	if m.paused || m.player.Done() {
		return nil
	}
	return tickCmd(m.player.Engine().Interval()/timeDivisor(m.rate), m.gen)
}

// Update handles messages for playback.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			m.gen++
			return m, m.schedule()

		case key.Matches(msg, m.keys.Step):
			if m.paused {
				m.player.Step()
			}
			return m, nil

		case key.Matches(msg, m.keys.Faster):
			m.rate = core.Clamp(m.rate*2, 1, maxPlaybackRate)
			return m, nil

		case key.Matches(msg, m.keys.Slower):
			m.rate = core.Clamp(m.rate/2, 1, maxPlaybackRate)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-helpHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen || m.paused {
			return m, nil
		}
		m.player.Step()
		return m, m.schedule()
	}

	return m, nil
}

// View renders the replayed board and a progress line.
func (m PlaybackModel) View() string {
	if m.quitting {
		return ""
	}

	m.player.Engine().Render(m.screen)

	done, total := m.player.Progress()
	status := fmt.Sprintf("replay %s  tick %d/%d  x%d", shortID(m.entry.ID), done, total, m.rate)
	switch {
	case m.player.Done():
		status += "  finished"
	case m.paused:
		status += "  paused"
	}

	if m.paused {
		m.keys.Pause.SetHelp("space", "resume")
	}
	bar := statusStyle.Render(status) + "  " + helpStyle.Render(m.help.View(m.keys))

	return m.palette.Render(m.screen) + "\n" + bar
}

// RunPlayback plays entry in the terminal until the user quits.
func RunPlayback(cfg config.Config, entry storage.ReplayEntry, rt core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewPlaybackModel(cfg, entry, rt),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

func timeDivisor(rate int) time.Duration {
	return time.Duration(max(rate, 1))
}

// shortID trims a UUID to its first block for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
