package main

import (
	"errors"

	"github.com/alnah/go-mdstudio/internal/config"
)

// defaultConfigName is looked up when neither --config nor MDSTUDIO_CONFIG
// is given. A missing default file is not an error.
const defaultConfigName = "mdstudio"

// loadSettings resolves the configuration of a command from the config
// file and the environment. Flags are applied by the caller, which then
// validates the result.
func loadSettings(f commonFlags) (*config.Config, error) {
	env := loadEnvConfig()

	name := f.config
	if name == "" {
		name = env.ConfigPath
	}

	explicit := name != ""
	if !explicit {
		name = defaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if explicit || !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// applyRendererFlags applies pipeline flags over cfg.
func applyRendererFlags(f rendererFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Preview.Style = f.style
	}
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
	if f.strict {
		cfg.Preview.Strict = true
	}
	if f.tocTitle != "" {
		cfg.Export.TOCTitle = f.tocTitle
	}
}
