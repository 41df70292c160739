// snake is the classic snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake play               - Play in the terminal
//	snake serve              - Start SSH server for remote play
//	snake web                - Serve the browser version
//	snake replays            - Browse recorded runs
//	snake replay <id>        - Watch a recorded run
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Game config YAML (default: search ~/.snake, ./configs)
//	--seed <value>  - Set RNG seed for reproducible food placement
//	--db <path>     - Set database path (default: ~/.snake/replays.db)
//
// Flags fall back to SNAKE_CONFIG, SNAKE_SEED and SNAKE_DB, which may also
// be set in a .env file in the working directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake/internal/config"
)

const defaultDBPath = "~/.snake/replays.db"

var (
	// Global flags
	flagConfig string
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal and browser",
	Long: `Snake is the classic grid game: steer the snake to the food, grow,
and avoid the walls and your own tail.

Available commands:
  play     - Play in the terminal
  serve    - Start SSH server for remote play
  web      - Serve the browser version
  replays  - Browse recorded runs
  replay   - Watch a recorded run
  config   - Print the effective configuration

Examples:
  snake play
  snake play --seed 42
  snake serve --ssh :2222
  snake web --addr :8080
  snake replays --plain`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		applyEnv(cmd)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to replay database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// applyEnv fills global flags the user did not set from the environment.
func applyEnv(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("config") {
		flagConfig = config.EnvString(config.EnvConfig, flagConfig)
	}
	if !flags.Changed("seed") {
		flagSeed = config.EnvInt64(config.EnvSeed, flagSeed)
	}
	if !flags.Changed("db") {
		flagDBPath = config.EnvString(config.EnvDB, flagDBPath)
	}
}

// loadConfig loads the game config or exits with a message.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
