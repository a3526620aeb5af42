package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/game"
	"github.com/vovakirdan/snek/internal/platform/tui"
	"github.com/vovakirdan/snek/internal/spectate"
	"github.com/vovakirdan/snek/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run in this terminal.

Controls:
  Arrows/WASD  - Steer (reversing is ignored)
  Esc/P        - Pause
  Y / N        - Try again / give up after a run ends
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 8 tail bites per level, mines from level 8, slower
  normal - 5 tail bites per level, mines from level 6
  hard   - 3 tail bites per level, mines from level 4, faster
  fixed  - Use the loaded config exactly as written

Examples:
  snek play
  snek play --difficulty easy
  snek play --config ./my-snek.yaml --difficulty fixed
  snek play --spectate :8080   # viewers connect to ws://host:8080/watch`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom snek config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a read-only websocket feed on this address")
}

// loadGameConfig resolves --config and --difficulty.
func loadGameConfig() (config.SnekConfig, config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.SnekConfig{}, "", err
	}
	cfg, err := config.LoadSnek(flagConfig)
	if err != nil {
		return config.SnekConfig{}, "", err
	}
	config.ApplySnekPreset(&cfg, preset)
	return cfg, preset, nil
}

func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, preset, err := loadGameConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger("snek", false)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	opts := []game.Option{game.WithLogger(logger)}
	if flagSeed != 0 {
		opts = append(opts, game.WithSeed(flagSeed))
	}
	engine, err := game.New(cfg, opts...)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	width, height := terminalSize()
	playOpts := tui.Options{
		Logger:     logger,
		Difficulty: string(preset),
		Width:      width,
		Height:     height,
	}
	if store != nil {
		playOpts.Store = store
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if flagSpectate != "" {
		hub := spectate.NewHub(logger.WithPrefix("spectate"))
		playOpts.Publisher = hub
		go func() {
			if err := hub.ListenAndServe(ctx, flagSpectate); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
	}

	runErr := tui.Run(engine, playOpts)

	if store != nil {
		if best, err := store.HighScore(); err == nil && best > 0 {
			fmt.Printf("Best score: %d\n", best)
		}
		store.Close()
	}

	if runErr != nil {
		cancel()
		fail("running game: %v", runErr)
	}
}
