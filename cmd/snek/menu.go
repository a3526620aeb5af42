package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snek/internal/platform/tui"
	"github.com/vovakirdan/snek/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a difficulty and browse scores interactively",
	Long: `Start snek in interactive menu mode, the same flow SSH players get.

Use arrow keys or j/k to navigate, Enter to select.
After a run, answer N to return to the menu.

Examples:
  snek menu
  snek menu --config ./my-snek.yaml`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom snek config YAML")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Presets are chosen in the menu, so only the file is loaded here.
	flagDifficulty = "fixed"
	cfg, _, err := loadGameConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger("snek", false)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	model := tui.NewSessionModel(tui.SessionConfig{
		Game:   cfg,
		Store:  store,
		Player: "local",
		Seed:   flagSeed,
		Logger: logger,
		Width:  width,
		Height: height,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fail("%v", err)
	}
	if m, ok := final.(tui.SessionModel); ok && m.Err() != nil {
		fail("%v", m.Err())
	}
}
