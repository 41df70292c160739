package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake/internal/core"
	"github.com/vovakirdan/snake/internal/platform/tui"
	"github.com/vovakirdan/snake/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse recorded runs",
	Long: `Show recorded runs, newest first. Pick one with Enter to watch it,
or press x to delete it.

Examples:
  snake replays
  snake replays --plain --limit 5
  snake replays rm 3f2a9c1e-...`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replaysRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysRm,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Watch a recorded run",
	Long: `Replay a recorded run in the terminal at its original speed.

Controls:
  Space  - Pause/resume
  Right  - Step one tick while paused
  +/-    - Faster/slower
  Q/Esc  - Quit

Examples:
  snake replay 3f2a9c1e-5b7d-4c1a-9e0f-2d6b8a4c7e10`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replaysCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain list instead of the interactive browser")
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to list with --plain")
	replaysCmd.AddCommand(replaysRmCmd)
}

// openStore opens the replay database or exits with a message.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runReplays(_ *cobra.Command, _ []string) {
	store := openStore()

	if flagPlain {
		defer store.Close()
		printReplays(store)
		return
	}

	width, height := terminalSize()
	selected, err := tui.RunReplayBrowser(store, width, height)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if selected == nil {
		return
	}

	playEntry(*selected)
}

func printReplays(store *storage.Store) {
	entries, err := store.RecentReplays(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving replays: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No replays recorded yet.")
		return
	}

	fmt.Printf("%-36s  %-12s  %-4s  %-10s  %6s  %5s  %s\n", "ID", "Date", "Via", "Player", "Score", "Ticks", "Outcome")
	for _, e := range entries {
		fmt.Printf("%-36s  %-12s  %-4s  %-10s  %6d  %5d  %s\n",
			e.ID,
			e.CreatedAt.Format("Jan 02 15:04"),
			e.Frontend,
			e.Player,
			e.Journal.Score,
			e.Journal.Ticks,
			e.Outcome,
		)
	}
}

func runReplaysRm(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.DeleteReplay(args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no replay with ID %q\n", args[0])
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", args[0])
}

func runReplay(_ *cobra.Command, args []string) {
	store := openStore()
	entry, err := store.Replay(args[0])
	store.Close()

	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no replay with ID %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'snake replays --plain' to list recorded runs.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	playEntry(*entry)
}

// playEntry replays a run with the current config. Runs recorded with a
// different board or speed settings will not reproduce.
func playEntry(entry storage.ReplayEntry) {
	cfg := loadConfig()
	width, height := terminalSize()

	if err := tui.RunPlayback(cfg, entry, core.RuntimeConfig{ScreenW: width, ScreenH: height}); err != nil {
		fmt.Fprintf(os.Stderr, "Error running replay: %v\n", err)
		os.Exit(1)
	}
}
