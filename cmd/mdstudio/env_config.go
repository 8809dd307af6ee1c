package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdstudio/internal/config"
)

// envPrefix is the prefix of every mdstudio environment variable.
const envPrefix = "MDSTUDIO_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // MDSTUDIO_CONFIG: config file name or path
	Addr       string // MDSTUDIO_ADDR: listen address
	Debounce   string // MDSTUDIO_DEBOUNCE: preview debounce
	Style      string // MDSTUDIO_STYLE: style name
	OutputDir  string // MDSTUDIO_OUTPUT_DIR: export command output directory
	Timeout    string // MDSTUDIO_TIMEOUT: browser timeout
	Workers    int    // MDSTUDIO_WORKERS: browser instances
}

// knownEnvVars lists valid MDSTUDIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSTUDIO_CONFIG":     true,
	"MDSTUDIO_ADDR":       true,
	"MDSTUDIO_DEBOUNCE":   true,
	"MDSTUDIO_STYLE":      true,
	"MDSTUDIO_OUTPUT_DIR": true,
	"MDSTUDIO_TIMEOUT":    true,
	"MDSTUDIO_WORKERS":    true,
	"MDSTUDIO_CONTAINER":  true, // doctor only
}

// loadEnvConfig reads configuration from environment variables.
// Durations are kept as text and checked by Config.Validate.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDSTUDIO_CONFIG"),
		Addr:       os.Getenv("MDSTUDIO_ADDR"),
		Debounce:   os.Getenv("MDSTUDIO_DEBOUNCE"),
		Style:      os.Getenv("MDSTUDIO_STYLE"),
		OutputDir:  os.Getenv("MDSTUDIO_OUTPUT_DIR"),
		Timeout:    os.Getenv("MDSTUDIO_TIMEOUT"),
	}

	// Parse int for workers
	if workers := os.Getenv("MDSTUDIO_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MDSTUDIO_* variable.
func warnUnknownEnvVars(log *slog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies set environment values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by the command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Debounce != "" {
		cfg.Editor.Debounce = env.Debounce
	}
	if env.Style != "" {
		cfg.Preview.Style = env.Style
	}
	if env.OutputDir != "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.Timeout != "" {
		cfg.Export.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
}
