// Package config reads runtime settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/game"
)

// Environment variables
const (
	EnvLogLevel    = "PEGPLAY_LOG_LEVEL"
	EnvAddr        = "PEGPLAY_ADDR"
	EnvLayout      = "PEGPLAY_LAYOUT"
	EnvHistory     = "PEGPLAY_HISTORY"
	EnvDataDir     = "PEGPLAY_DATA_DIR"
	EnvPersistMemo = "PEGPLAY_PERSIST_MEMO"
	EnvCPUProfile  = "CPUPROFILE"
)

// Config holds the settings shared by the GUI, the CLI and the server.
type Config struct {
	LogLevel    zerolog.Level
	Addr        string
	Layout      string
	HistorySize int
	DataDir     string // empty means the platform data directory
	PersistMemo bool
	CPUProfile  string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    zerolog.InfoLevel,
		Addr:        ":8080",
		Layout:      board.DefaultLayout,
		HistorySize: game.DefaultHistorySize,
		PersistMemo: true,
	}
}

// Load reads .env (if any) and the environment on top of Default.
// Unparseable values are logged and ignored.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	if v := getenv(EnvLogLevel); v != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			cfg.LogLevel = lvl
		} else {
			log.Warn().Str("value", v).Msg("invalid " + EnvLogLevel)
		}
	}
	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvLayout); v != "" {
		cfg.Layout = v
	}
	if v := getenv(EnvHistory); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistorySize = n
		} else {
			log.Warn().Str("value", v).Msg("invalid " + EnvHistory)
		}
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvPersistMemo); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PersistMemo = b
		} else {
			log.Warn().Str("value", v).Msg("invalid " + EnvPersistMemo)
		}
	}
	cfg.CPUProfile = getenv(EnvCPUProfile)

	return cfg
}

// SetupLogging installs the global zerolog level and a console writer
// when console is true. The server keeps JSON output.
func (c Config) SetupLogging(console bool) {
	zerolog.SetGlobalLevel(c.LogLevel)
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}
