package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/core"
)

// MenuItem is one entry of the session menu.
type MenuItem struct {
	Title      string
	Preset     config.DifficultyPreset
	Scoreboard bool // Opens run history instead of a game
}

// DefaultMenuItems lists the difficulties followed by the scoreboard.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Title: "Easy     more tail bites, later mines", Preset: config.DifficultyEasy},
		{Title: "Normal   the classic rules", Preset: config.DifficultyNormal},
		{Title: "Hard     fewer tail bites, early mines", Preset: config.DifficultyHard},
		{Title: "High scores", Scoreboard: true},
	}
}

// MenuModel is the session menu shown before each run.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	best     int
	keys     KeyMap
	selected *MenuItem
	quitting bool
}

// NewMenuModel creates a menu. best is shown as the current high score.
func NewMenuModel(width, height, best int) MenuModel {
	return MenuModel{
		items:  DefaultMenuItems(),
		cursor: 1,
		width:  width,
		height: height,
		best:   best,
		keys:   DefaultKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.Action(msg) {
		case core.ActionQuit:
			m.quitting = true
			return m, tea.Quit
		case core.ActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case core.ActionDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case core.ActionConfirm, core.ActionRight:
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("S N E K", m.width))
	b.WriteString("\n\n")
	if m.best > 0 {
		b.WriteString(centerText(fmt.Sprintf("High score: %d", m.best), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen item, or nil while still choosing.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
