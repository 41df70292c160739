package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that provide defaults for command-line flags.
const (
	EnvConfig  = "SNAKE_CONFIG"
	EnvDB      = "SNAKE_DB"
	EnvSeed    = "SNAKE_SEED"
	EnvSSHAddr = "SNAKE_SSH_ADDR"
	EnvWebAddr = "SNAKE_WEB_ADDR"
)

// LoadDotEnv loads variables from the given .env files (default ./.env).
// A missing file is not an error; variables already set in the process win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// EnvString returns the value of key, or fallback if unset or empty.
func EnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt64 returns the integer value of key, or fallback if unset or invalid.
func EnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// ApplyServerEnv overrides listener addresses from the environment.
func ApplyServerEnv(cfg *Config) {
	cfg.Server.SSHAddr = EnvString(EnvSSHAddr, cfg.Server.SSHAddr)
	cfg.Server.WebAddr = EnvString(EnvWebAddr, cfg.Server.WebAddr)
}
