package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/platform/web"
	"github.com/vovakirdan/snake/internal/storage"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser version",
	Long: `Start an HTTP server with the browser version of the game.

The game runs on the server; the page draws the board on a canvas
and sends arrow keys and button presses over a WebSocket.

Endpoints:
  GET /                 - Game page
  GET /ws               - WebSocket game session (?name=<player>)
  GET /api/config       - Board size and colours
  GET /api/replays      - Recent runs
  GET /api/replays/{id} - One run with its moves
  GET /healthz          - Liveness check

Examples:
  snake web
  snake web --addr :9000`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (default from config or SNAKE_WEB_ADDR)")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	config.ApplyServerEnv(&cfg)

	addr := cfg.Server.WebAddr
	if flagWebAddr != "" {
		addr = flagWebAddr
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		store = nil
	}

	server := web.NewServer(web.Config{
		Addr:  addr,
		Game:  cfg,
		Store: store,
	})

	fmt.Printf("Serving snake on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := server.ListenAndServe(ctx)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", runErr)
		os.Exit(1)
	}
}
