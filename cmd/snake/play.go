package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake/internal/core"
	"github.com/vovakirdan/snake/internal/platform/tui"
	"github.com/vovakirdan/snake/internal/storage"
)

var flagNoReplays bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Arrows/WASD - Steer
  Space/P     - Start, pause, resume
  R           - Reset
  Ctrl+S      - Save a screenshot to ~/.snake/screenshots
  Q/Ctrl+C    - Quit

Every run is recorded to the replay database unless --no-replays is set.

Examples:
  snake play
  snake play --seed 42
  snake play --config ./big-board.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoReplays, "no-replays", false, "Do not record runs")
}

// terminalSize returns the terminal size, or the runtime defaults if stdout
// is not a terminal.
func terminalSize() (int, int) {
	def := core.DefaultConfig()
	width, height := def.ScreenW, def.ScreenH
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	width, height := terminalSize()
	rt := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	var store *storage.Store
	if !flagNoReplays {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
			// Continue without storage - game still works
			store = nil
		}
	}

	final, runErr := tui.Run(cfg, store, rt)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	if id := final.ReplayID(); id != "" {
		fmt.Printf("Last run saved. Watch it with: snake replay %s\n", id)
	}
}
