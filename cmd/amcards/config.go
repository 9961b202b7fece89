package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Env is the CLI configuration read from the environment.
type Env struct {
	AccessToken string        `env:"AMCARDS_ACCESS_TOKEN,required"`
	BaseURL     string        `env:"AMCARDS_BASE_URL" envDefault:"https://amcards.com"`
	Timeout     time.Duration `env:"AMCARDS_TIMEOUT" envDefault:"30s"`
	Initiator   string        `env:"AMCARDS_INITIATOR" envDefault:"amcards-cli"`
	LogLevel    string        `env:"AMCARDS_LOG_LEVEL" envDefault:"warn"`
}

// loadEnv loads dotenvPath into the process environment when the file exists,
// then parses Env. Variables already set take precedence over the file.
func loadEnv(dotenvPath string) (*Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	cfg := &Env{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid AMCARDS_TIMEOUT: %v", cfg.Timeout)
	}
	return cfg, nil
}

// newLogger writes JSON records at level to w. Unknown levels mean info.
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With(slog.String("service", "amcards-cli"))
}
