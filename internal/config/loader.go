package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads the game configuration.
// Search order: customPath -> ~/.snake/snake.yaml -> ./configs/snake.yaml -> embedded default.
// Files are overlaid on the defaults, so partial files are fine.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("snake.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "snake.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultSnakeYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and that the starting snake fits the board.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[[2]int]bool, len(c.Snake.Start))
	for i, cell := range c.Snake.Start {
		x, y := cell[0], cell[1]
		if x < 0 || x >= c.Grid.Count || y < 0 || y >= c.Grid.Count {
			return fmt.Errorf("invalid config: snake.start[%d] (%d,%d) is outside the %dx%d grid",
				i, x, y, c.Grid.Count, c.Grid.Count)
		}
		if seen[cell] {
			return fmt.Errorf("invalid config: snake.start[%d] (%d,%d) overlaps another segment", i, x, y)
		}
		seen[cell] = true

		if i > 0 {
			prev := c.Snake.Start[i-1]
			if abs(prev[0]-x)+abs(prev[1]-y) != 1 {
				return fmt.Errorf("invalid config: snake.start[%d] is not adjacent to segment %d", i, i-1)
			}
		}
	}

	// The first move must not fold the head back onto the neck
	if len(c.Snake.Start) > 1 {
		head, neck := c.Snake.Start[0], c.Snake.Start[1]
		dx, dy := directionStep(c.Snake.Direction)
		if head[0]+dx == neck[0] && head[1]+dy == neck[1] {
			return fmt.Errorf("invalid config: snake.direction %q points into snake.start[1]", c.Snake.Direction)
		}
	}

	return nil
}

// directionStep returns the unit step for a direction name. Y grows downwards.
func directionStep(dir string) (dx, dy int) {
	switch dir {
	case "up":
		return 0, -1
	case "down":
		return 0, 1
	case "left":
		return -1, 0
	case "right":
		return 1, 0
	}
	return 0, 0
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", filename)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
