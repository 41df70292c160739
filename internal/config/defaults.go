package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Count:  20,
			CellPx: 20,
		},
		Snake: SnakeConfig{
			Start:     [][2]int{{10, 10}, {9, 10}, {8, 10}},
			Direction: "right",
		},
		Scoring: ScoringConfig{
			PointsPerFood: 10,
		},
		Speed: SpeedConfig{
			InitialMs: 150,
			StepMs:    2,
			MinMs:     50,
		},
		Collision: CollisionConfig{
			SelfFromIndex: 4,
		},
		Theme: ThemeConfig{
			Board: "#e8e8e8",
			Head:  "#2E7D32",
			Body:  "#4CAF50",
			Food:  "#F44336",
		},
		Server: ServerConfig{
			SSHAddr:        ":23234",
			WebAddr:        ":8080",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
