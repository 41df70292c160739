package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate, got %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML should parse, got %v", err)
	}

	def := Default()
	if cfg.Grid != def.Grid {
		t.Errorf("Grid = %+v, expected %+v", cfg.Grid, def.Grid)
	}
	if cfg.Speed != def.Speed {
		t.Errorf("Speed = %+v, expected %+v", cfg.Speed, def.Speed)
	}
	if cfg.Scoring != def.Scoring {
		t.Errorf("Scoring = %+v, expected %+v", cfg.Scoring, def.Scoring)
	}
	if cfg.Collision != def.Collision {
		t.Errorf("Collision = %+v, expected %+v", cfg.Collision, def.Collision)
	}
	if cfg.Theme != def.Theme {
		t.Errorf("Theme = %+v, expected %+v", cfg.Theme, def.Theme)
	}
	if len(cfg.Snake.Start) != 3 || cfg.Snake.Start[0] != [2]int{10, 10} {
		t.Errorf("Snake.Start = %v, expected [[10 10] [9 10] [8 10]]", cfg.Snake.Start)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	data := []byte("grid:\n  count: 30\nspeed:\n  initial_ms: 200\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Grid.Count != 30 {
		t.Errorf("Grid.Count = %d, expected 30", cfg.Grid.Count)
	}
	if cfg.Speed.InitialMs != 200 {
		t.Errorf("Speed.InitialMs = %d, expected 200", cfg.Speed.InitialMs)
	}
	// Untouched fields keep their defaults
	if cfg.Speed.MinMs != 50 {
		t.Errorf("Speed.MinMs = %d, expected default 50", cfg.Speed.MinMs)
	}
	if cfg.Scoring.PointsPerFood != 10 {
		t.Errorf("Scoring.PointsPerFood = %d, expected default 10", cfg.Scoring.PointsPerFood)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() with a missing custom path should fail")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "grid: [", "failed to parse"},
		{"grid too small", "grid:\n  count: 2\n", "Count"},
		{"min above initial", "speed:\n  initial_ms: 40\n  min_ms: 50\n", "MinMs"},
		{"bad direction", "snake:\n  direction: sideways\n", "Direction"},
		{"bad colour", "theme:\n  head: green\n", "Head"},
		{"start outside grid", "snake:\n  start: [[25, 1]]\n", "outside"},
		{"start overlaps", "snake:\n  start: [[3, 3], [3, 3]]\n", "overlaps"},
		{"start not adjacent", "snake:\n  start: [[3, 3], [5, 3]]\n", "adjacent"},
		{"direction into neck", "snake:\n  direction: left\n", "points into"},
		{"no speed-up", "speed:\n  step_ms: 0\n", "StepMs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tc.yaml)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestIdleTimeout(t *testing.T) {
	cfg := Default()
	if got := cfg.Server.IdleTimeout().Minutes(); got != 30 {
		t.Errorf("IdleTimeout() = %.0fm, expected 30m", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv(EnvWebAddr, ":9999")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvDB, "")

	cfg := Default()
	ApplyServerEnv(&cfg)
	if cfg.Server.WebAddr != ":9999" {
		t.Errorf("WebAddr = %q, expected :9999", cfg.Server.WebAddr)
	}
	if cfg.Server.SSHAddr != ":23234" {
		t.Errorf("SSHAddr = %q, expected default", cfg.Server.SSHAddr)
	}
	if got := EnvInt64(EnvSeed, 0); got != 42 {
		t.Errorf("EnvInt64() = %d, expected 42", got)
	}
	if got := EnvString(EnvDB, "fallback"); got != "fallback" {
		t.Errorf("EnvString() = %q, expected fallback for empty value", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SNAKE_TEST_DOTENV=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SNAKE_TEST_DOTENV") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv("SNAKE_TEST_DOTENV"); got != "hello" {
		t.Errorf("SNAKE_TEST_DOTENV = %q, expected hello", got)
	}

	// Missing files are ignored
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}
