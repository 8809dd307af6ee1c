// Package config loads and validates the editor configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdstudio/internal/dateutil"
	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDirName is the directory under the user config dir searched by name.
const appDirName = "mdstudio"

// Defaults.
const (
	DefaultAddr           = "127.0.0.1:8420"
	DefaultMaxUploadBytes = 10 << 20
	DefaultDebounce       = "300ms"
	DefaultStyle          = "default"
	DefaultMarginMM       = 20.0
	DefaultTOCTitle       = "Tabla de Contenidos"
	DefaultFilePrefix     = "documento"
	DefaultTimeout        = "30s"
)

// Field limits.
const (
	MaxTextLength       = 500  // header/footer
	MaxTOCTitleLength   = 100  // TOC title
	MaxPrefixLength     = 64   // file name prefix
	MaxPathLength       = 4096 // directories
	MaxMarginMM         = 100.0
	MaxWorkers          = 8
	MaxDebounce         = 10 * time.Second
	MaxTimeout          = 10 * time.Minute
	MaxUploadBytesLimit = 100 << 20
)

// Config holds all configuration for the editor and the export command.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Editor  EditorConfig  `yaml:"editor"`
	Preview PreviewConfig `yaml:"preview"`
	Export  ExportConfig  `yaml:"export"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// ServerConfig defines the local HTTP listener.
type ServerConfig struct {
	Addr           string `yaml:"addr"`           // host:port, loopback by default
	MaxUploadBytes int64  `yaml:"maxUploadBytes"` // file load limit
}

// EditorConfig defines input handling.
type EditorConfig struct {
	Debounce string `yaml:"debounce"` // Go duration, e.g. "300ms"
	Welcome  bool   `yaml:"welcome"`  // seed the document with the welcome text
}

// PreviewConfig defines preview rendering.
type PreviewConfig struct {
	Strict bool   `yaml:"strict"` // allowlist sanitization after the guard
	Style  string `yaml:"style"`  // style name in assets (default: "default")
}

// ExportConfig defines export defaults. The editor page may override the
// margin, header, footer and TOC per export.
type ExportConfig struct {
	MarginMM   float64 `yaml:"marginMM"`
	Header     string  `yaml:"header"`
	Footer     string  `yaml:"footer"` // may contain {page} and {pages}
	IncludeTOC bool    `yaml:"includeTOC"`
	TOCTitle   string  `yaml:"tocTitle"`
	FilePrefix string  `yaml:"filePrefix"`
	DateFormat string  `yaml:"dateFormat"` // YYYY, YY, MM, DD tokens
	OutputDir  string  `yaml:"outputDir"`  // export command only
	Timeout    string  `yaml:"timeout"`    // per browser call, Go duration
	Workers    int     `yaml:"workers"`    // browser pool size, 0 = auto
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Editor: EditorConfig{
			Debounce: DefaultDebounce,
			Welcome:  true,
		},
		Preview: PreviewConfig{
			Style: DefaultStyle,
		},
		Export: ExportConfig{
			MarginMM:   DefaultMarginMM,
			TOCTitle:   DefaultTOCTitle,
			FilePrefix: DefaultFilePrefix,
			DateFormat: dateutil.DefaultDateFormat,
			Timeout:    DefaultTimeout,
		},
	}
}

// DebounceDuration returns the parsed editor debounce.
// Call Validate first; an invalid value yields zero.
func (c *Config) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Editor.Debounce)
	return d
}

// TimeoutDuration returns the parsed export timeout.
// Call Validate first; an invalid value yields zero.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Export.Timeout)
	return d
}

// Validate checks every field against its bounds.
// Called automatically by LoadConfig, but available for callers that build
// or override a Config by hand.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr cannot be empty", ErrInvalidValue)
	}
	if c.Server.MaxUploadBytes <= 0 || c.Server.MaxUploadBytes > MaxUploadBytesLimit {
		return fmt.Errorf("%w: server.maxUploadBytes must be between 1 and %d, got %d",
			ErrInvalidValue, MaxUploadBytesLimit, c.Server.MaxUploadBytes)
	}

	if err := validateDuration("editor.debounce", c.Editor.Debounce, MaxDebounce); err != nil {
		return err
	}
	if err := validateDuration("export.timeout", c.Export.Timeout, MaxTimeout); err != nil {
		return err
	}

	if c.Preview.Style == "" {
		return fmt.Errorf("%w: preview.style cannot be empty", ErrInvalidValue)
	}

	if c.Export.MarginMM < 0 || c.Export.MarginMM > MaxMarginMM {
		return fmt.Errorf("%w: export.marginMM must be between 0 and %.0f, got %.2f",
			ErrInvalidValue, MaxMarginMM, c.Export.MarginMM)
	}
	if err := validateFieldLength("export.header", c.Export.Header, MaxTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.footer", c.Export.Footer, MaxTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.tocTitle", c.Export.TOCTitle, MaxTOCTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.filePrefix", c.Export.FilePrefix, MaxPrefixLength); err != nil {
		return err
	}
	if c.Export.FilePrefix == "" || strings.ContainsAny(c.Export.FilePrefix, "/\\\x00") {
		return fmt.Errorf("%w: export.filePrefix %q is not a valid file name", ErrInvalidValue, c.Export.FilePrefix)
	}
	if _, err := dateutil.ParseDateFormat(c.Export.DateFormat); err != nil {
		return fmt.Errorf("export.dateFormat: %w", err)
	}
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if c.Export.Workers < 0 || c.Export.Workers > MaxWorkers {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d",
			ErrInvalidValue, MaxWorkers, c.Export.Workers)
	}

	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

// validateDuration checks that value parses and lies in (0, max].
func validateDuration(fieldName, value string, max time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d <= 0 || d > max {
		return fmt.Errorf("%w: %s must be between 0 and %s, got %s", ErrInvalidValue, fieldName, max, d)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing search path for name.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
