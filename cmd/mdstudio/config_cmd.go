package main

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdstudio/internal/yamlutil"
)

// runConfigCmd prints the effective configuration as YAML, after the config
// file and the environment are applied.
func runConfigCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	common := &commonFlags{}
	addCommonFlags(fs, common)
	fs.Usage = func() { printConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	cfg, err := loadSettings(*common)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}
