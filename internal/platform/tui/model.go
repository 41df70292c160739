package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/core"
	"github.com/vovakirdan/snake/internal/games/snake"
	"github.com/vovakirdan/snake/internal/storage"
)

// helpHeight is the number of rows reserved below the board for the help bar.
const helpHeight = 1

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// Model is the Bubble Tea model for playing snake.
type Model struct {
	engine   *snake.Engine
	screen   *core.Screen
	palette  Palette
	store    *storage.Store
	keys     KeyMap
	help     help.Model
	frontend string // Recorded with saved replays
	player   string

	gen      int        // Timer generation, see TickMsg
	run      *runRecord // Shared by every copy of the model
	quitting bool
}

// runRecord tracks whether the current run has been stored.
type runRecord struct {
	saved    bool
	replayID string
}

// NewModel creates a model with a fresh engine. A zero seed picks one from
// the clock.
func NewModel(cfg config.Config, store *storage.Store, rt core.RuntimeConfig) Model {
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		engine:   snake.New(cfg, rt.Seed),
		screen:   core.NewScreen(rt.ScreenW, max(rt.ScreenH-helpHeight, 1)),
		palette:  ThemePalette(cfg.Theme),
		store:    store,
		keys:     DefaultKeyMap(),
		help:     h,
		frontend: "tui",
		player:   os.Getenv("USER"),
		run:      &runRecord{},
	}
}

// WithSession tags saved replays with the front end and player name.
func (m Model) WithSession(frontend, player string) Model {
	m.frontend = frontend
	m.player = player
	return m
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *snake.Engine {
	return m.engine
}

// ReplayID returns the ID of the last saved replay, if any.
func (m Model) ReplayID() string {
	return m.run.replayID
}

// SaveRun stores the current run unless it is already stored or never
// ticked. Hosts call it when a session ends without the quit key, such as an
// SSH client disconnecting; the model must no longer be running.
func (m Model) SaveRun() {
	m.saveJournal()
}

// Init waits for the player: the game starts in the ready state.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("Snake")
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-helpHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.saveJournal()
		m.quitting = true
		return m, tea.Quit

	case core.ActionToggle:
		wasOver := m.engine.Over()
		m.engine.Toggle()
		if wasOver {
			m.newRun()
		}
		cmd := m.syncTimer()
		return m, cmd

	case core.ActionReset:
		m.saveJournal()
		m.engine.Reset()
		m.newRun()
		cmd := m.syncTimer()
		return m, cmd
	}

	if d, ok := snake.DirectionFromAction(action); ok {
		m.engine.SetDirection(d)
	}
	return m, nil
}

// handleTick advances the engine if the tick belongs to the live timer.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || !m.engine.Running() {
		return m, nil
	}

	res := m.engine.Tick()
	if res.Over {
		m.saveJournal()
		return m, nil
	}

	// Re-arm at the current interval so speed-ups apply immediately
	return m, tickCmd(m.engine.Interval(), m.gen)
}

// syncTimer cancels any outstanding tick and, if the engine is running,
// schedules a new one.
func (m *Model) syncTimer() tea.Cmd {
	m.gen++
	if !m.engine.Running() {
		return nil
	}
	return tickCmd(m.engine.Interval(), m.gen)
}

// newRun clears the per-run bookkeeping.
func (m *Model) newRun() {
	m.run.saved = false
	m.run.replayID = ""
}

// saveJournal stores the current run once. Runs that never ticked are skipped.
func (m *Model) saveJournal() {
	if m.store == nil || m.run.saved {
		return
	}
	j := m.engine.Journal()
	if j.Ticks == 0 {
		return
	}

	id, err := m.store.SaveReplay(storage.ReplayEntry{
		Frontend: m.frontend,
		Player:   m.player,
		Journal:  j,
	})
	if err != nil {
		// Best-effort save, game continues regardless
		return
	}
	m.run.saved = true
	m.run.replayID = id
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.engine.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// toggleLabel names what the toggle key does in the current state.
func toggleLabel(s snake.State) string {
	switch s {
	case snake.StatePlaying:
		return "pause"
	case snake.StatePaused:
		return "resume"
	case snake.StateOver:
		return "play again"
	default:
		return "start"
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.engine.Render(m.screen)

	m.keys.Toggle.SetHelp("space", toggleLabel(m.engine.State()))
	bar := helpStyle.Render(m.help.View(m.keys))
	if m.engine.Over() && m.run.replayID != "" {
		bar += "  " + statusStyle.Render("replay "+m.run.replayID)
	}

	return m.palette.Render(m.screen) + "\n" + bar
}

// Run starts the Bubble Tea program and returns the final model.
func Run(cfg config.Config, store *storage.Store, rt core.RuntimeConfig) (Model, error) {
	model := NewModel(cfg, store, rt)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return model, nil
}
