package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/snek/internal/core"
	"github.com/vovakirdan/snek/internal/game"
	"github.com/vovakirdan/snek/internal/storage"
)

// Publisher receives every snapshot the model renders.
type Publisher interface {
	Publish(game.Snapshot) error
}

// Options configures a play Model.
type Options struct {
	Store      *storage.Store // Optional run history
	Publisher  Publisher      // Optional spectator feed
	Logger     *log.Logger
	Player     string
	Difficulty string
	Width      int
	Height     int
}

// Model is the Bubble Tea model that paces one engine.
type Model struct {
	id       string
	engine   *game.Engine
	opts     Options
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	snap     game.Snapshot
	saved    bool
	lastRun  string
	finished bool // Player declined another run
	quitting bool
	err      error
}

// NewModel creates a play model around engine.
func NewModel(engine *game.Engine, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Player == "" {
		opts.Player = "local"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}

	return Model{
		id:     uuid.NewString(),
		engine: engine,
		opts:   opts,
		screen: core.NewScreen(opts.Width, opts.Height-1),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		snap:   engine.Snapshot(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.id, m.engine.Config().Timing.TickInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Owner != m.id {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionPause:
		m.engine.TogglePause()

	case core.ActionConfirm:
		if m.snap.Status == game.StatusTerminated {
			m.engine.Reset()
			m.saved = false
			m.opts.Logger.Debug("run restarted", "player", m.opts.Player)
		}

	case core.ActionDecline:
		if m.snap.Status == game.StatusTerminated {
			m.finished = true
			return m, tea.Quit
		}

	default:
		if dir, ok := action.Direction(); ok {
			m.engine.SetDirectionIntent(dir)
		}
	}

	m.snap = m.engine.Snapshot()
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	res, err := m.engine.Tick()
	m.snap = res.Snapshot
	if err != nil {
		m.err = err
		m.opts.Logger.Error("engine stopped", "error", err)
		return m, tea.Quit
	}

	if term, ok := res.Terminated(); ok && !m.saved {
		m.recordRun(term)
	}

	if m.opts.Publisher != nil {
		if err := m.opts.Publisher.Publish(m.snap); err != nil {
			m.opts.Logger.Warn("spectator publish failed", "error", err)
		}
	}

	return m, tickCmd(m.id, m.engine.Config().Timing.TickInterval)
}

// recordRun stores a finished run once.
func (m *Model) recordRun(term game.Termination) {
	m.saved = true
	if m.opts.Store == nil {
		return
	}

	id, err := m.opts.Store.SaveRun(storage.Run{
		Player:     m.opts.Player,
		Difficulty: m.opts.Difficulty,
		Score:      term.FinalScore,
		Level:      term.Level,
		Cause:      term.Cause.String(),
		Ticks:      term.Ticks,
		Seed:       m.engine.Seed(),
	})
	if err != nil {
		m.opts.Logger.Warn("could not save run", "error", err)
		return
	}
	m.lastRun = id
}

// View renders the current snapshot and the help line.
func (m Model) View() string {
	if m.quitting || m.finished {
		return ""
	}

	DrawSnapshot(m.screen, m.snap, m.engine.Config().Grid)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the last rendered snapshot.
func (m Model) Snapshot() game.Snapshot {
	return m.snap
}

// LastRunID returns the ID of the most recently saved run, if any.
func (m Model) LastRunID() string {
	return m.lastRun
}

// Finished reports whether the player declined another run.
func (m Model) Finished() bool {
	return m.finished
}

// IsQuitting reports whether the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Err returns the engine error that stopped the model, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts a full-screen Bubble Tea program for engine.
func Run(engine *game.Engine, opts Options) error {
	p := tea.NewProgram(
		NewModel(engine, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
