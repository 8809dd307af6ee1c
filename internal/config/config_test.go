package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.DebounceDuration() != 300*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, want 300ms", cfg.DebounceDuration())
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 30s", cfg.TimeoutDuration())
	}
	if cfg.Export.MarginMM != 20 {
		t.Errorf("Export.MarginMM = %v, want 20", cfg.Export.MarginMM)
	}
	if cfg.Export.FilePrefix != "documento" {
		t.Errorf("Export.FilePrefix = %q, want documento", cfg.Export.FilePrefix)
	}
	if cfg.Export.TOCTitle != "Tabla de Contenidos" {
		t.Errorf("Export.TOCTitle = %q", cfg.Export.TOCTitle)
	}
	if !strings.HasPrefix(cfg.Server.Addr, "127.0.0.1:") {
		t.Errorf("Server.Addr = %q, want loopback", cfg.Server.Addr)
	}
	if !cfg.Editor.Welcome {
		t.Error("Editor.Welcome = false, want true")
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: unexpected error %v", err)
	}
	if err := validateFieldLength("f", "12345678901", 10); !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("value over limit: error = %v, want ErrFieldTooLong", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, ErrInvalidValue},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, ErrInvalidValue},
		{"huge upload limit", func(c *Config) { c.Server.MaxUploadBytes = MaxUploadBytesLimit + 1 }, ErrInvalidValue},
		{"bad debounce", func(c *Config) { c.Editor.Debounce = "soon" }, ErrInvalidValue},
		{"zero debounce", func(c *Config) { c.Editor.Debounce = "0s" }, ErrInvalidValue},
		{"long debounce", func(c *Config) { c.Editor.Debounce = "1m" }, ErrInvalidValue},
		{"bad timeout", func(c *Config) { c.Export.Timeout = "-1s" }, ErrInvalidValue},
		{"empty style", func(c *Config) { c.Preview.Style = "" }, ErrInvalidValue},
		{"negative margin", func(c *Config) { c.Export.MarginMM = -1 }, ErrInvalidValue},
		{"margin too large", func(c *Config) { c.Export.MarginMM = 101 }, ErrInvalidValue},
		{"header too long", func(c *Config) { c.Export.Header = strings.Repeat("h", MaxTextLength+1) }, ErrFieldTooLong},
		{"footer too long", func(c *Config) { c.Export.Footer = strings.Repeat("f", MaxTextLength+1) }, ErrFieldTooLong},
		{"toc title too long", func(c *Config) { c.Export.TOCTitle = strings.Repeat("t", MaxTOCTitleLength+1) }, ErrFieldTooLong},
		{"prefix with separator", func(c *Config) { c.Export.FilePrefix = "../doc" }, ErrInvalidValue},
		{"empty prefix", func(c *Config) { c.Export.FilePrefix = "" }, ErrInvalidValue},
		{"too many workers", func(c *Config) { c.Export.Workers = MaxWorkers + 1 }, ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Export.Workers = -1 }, ErrInvalidValue},
		{"valid margin zero", func(c *Config) { c.Export.MarginMM = 0 }, nil},
		{"valid custom date", func(c *Config) { c.Export.DateFormat = "DD.MM.YYYY" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_DateFormat(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Export.DateFormat = "YYYY/MM/DD"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "export.dateFormat") {
		t.Errorf("Validate() error = %v, want export.dateFormat error", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "work.yaml", `
export:
  footer: "Pág. {page}/{pages}"
  includeTOC: true
preview:
  strict: true
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Export.Footer != "Pág. {page}/{pages}" || !cfg.Export.IncludeTOC || !cfg.Preview.Strict {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.Export.MarginMM != DefaultMarginMM || cfg.Editor.Debounce != DefaultDebounce {
			t.Errorf("defaults lost: %+v", cfg)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "export:\n  margn: 10\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "export:\n  marginMM: 500\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.yaml")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("missing name lists search paths", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("surely-not-a-config-name-7f3a")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "surely-not-a-config-name-7f3a.yaml") {
			t.Errorf("error should list tried paths: %v", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least local paths", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local paths first, got %v", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "mdstudio/work.y") {
			t.Errorf("user path %q not under mdstudio dir", p)
		}
	}
}
