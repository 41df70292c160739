// Package config provides YAML-based configuration loading and validation
// for the snake game and its servers.
package config

import "time"

// Config contains all tunables for the game, its look and the servers that
// host it. The defaults reproduce the classic 20x20 browser game.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Snake     SnakeConfig     `yaml:"snake"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Speed     SpeedConfig     `yaml:"speed"`
	Collision CollisionConfig `yaml:"collision"`
	Theme     ThemeConfig     `yaml:"theme"`
	Server    ServerConfig    `yaml:"server"`
}

// GridConfig defines the board.
type GridConfig struct {
	Count  int `yaml:"count" validate:"min=5,max=100"`  // Cells per side
	CellPx int `yaml:"cell_px" validate:"min=4,max=64"` // Browser canvas cell size
}

// SnakeConfig defines the starting snake.
type SnakeConfig struct {
	Start     [][2]int `yaml:"start" validate:"min=1"` // Head first
	Direction string   `yaml:"direction" validate:"oneof=up down left right"`
}

// ScoringConfig defines points per food.
type ScoringConfig struct {
	PointsPerFood int `yaml:"points_per_food" validate:"min=1"`
}

// SpeedConfig defines the tick interval and its linear speed-up.
type SpeedConfig struct {
	InitialMs int `yaml:"initial_ms" validate:"min=1"`
	StepMs    int `yaml:"step_ms" validate:"min=1"`
	MinMs     int `yaml:"min_ms" validate:"min=1,ltefield=InitialMs"`
}

// CollisionConfig defines self-collision rules.
type CollisionConfig struct {
	// SelfFromIndex is the first body index the head can collide with.
	// Segments before it are exempt.
	SelfFromIndex int `yaml:"self_from_index" validate:"min=1"`
}

// ThemeConfig holds the browser colours.
type ThemeConfig struct {
	Board string `yaml:"board" json:"board" validate:"hexcolor"`
	Head  string `yaml:"head" json:"head" validate:"hexcolor"`
	Body  string `yaml:"body" json:"body" validate:"hexcolor"`
	Food  string `yaml:"food" json:"food" validate:"hexcolor"`
}

// ServerConfig holds the SSH and web listener settings.
type ServerConfig struct {
	SSHAddr        string `yaml:"ssh_addr" validate:"required"`
	HostKey        string `yaml:"host_key"`
	WebAddr        string `yaml:"web_addr" validate:"required"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min" validate:"min=1"`
}

// IdleTimeout returns the SSH idle timeout.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMin) * time.Minute
}
