// snek is a terminal snake game with run history, SSH hosting and a
// websocket spectator feed.
//
// Usage:
//
//	snek play                - Play in this terminal
//	snek menu                - Pick a difficulty and browse scores interactively
//	snek serve               - Start SSH server for remote play
//	snek scores              - Show run history
//	snek config              - Print the default configuration
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.snek/runs.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Append logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snek",
	Short: "snek - eat apples, dodge mines, don't bite your tail too often",
	Long: `snek is a terminal snake game. The snake grows by eating apples,
may cross its own body a limited number of times per level, and dies on
the walls, on mines (from level 6) or when its tail bites run out.

Available commands:
  play     - Play a run in this terminal
  menu     - Interactive difficulty picker and scoreboard
  serve    - Start SSH server for remote play
  scores   - View run history
  config   - Print the default configuration

Examples:
  snek play
  snek play --difficulty hard --spectate :8080
  snek serve --ssh :2222
  snek scores -i`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snek/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (full-screen commands log nowhere otherwise)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds a logger honoring --log-level. Full-screen commands pass
// toStderr=false so log lines do not tear the alt screen.
func newLogger(prefix string, toStderr bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = io.Discard
	closer := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case toStderr:
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// fail prints an error message and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
