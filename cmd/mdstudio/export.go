package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/config"
)

// outputDirPerm is the mode of a created output directory.
const outputDirPerm = 0o750

// artifactPerm is the mode of written export files.
const artifactPerm = 0o644

// runExport exports one markdown file to each requested format.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, files, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: usage: mdstudio export <file.md> [flags]", ErrNoInput)
	}
	if len(files) > 1 {
		return fmt.Errorf("%w: export takes one file, got %d", ErrUsage, len(files))
	}
	input := files[0]

	formats, err := parseFormats(f.formats)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(f.common)
	if err != nil {
		return err
	}
	applyExportFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := mdstudio.ExportOptions{
		MarginMM:   cfg.Export.MarginMM,
		Header:     cfg.Export.Header,
		Footer:     cfg.Export.Footer,
		IncludeTOC: cfg.Export.IncludeTOC,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	log := newLogger(env.Stderr, f.common.verbose, f.common.quiet)
	warnUnknownEnvVars(log)

	st, err := newStack(cfg, env, log, stackOptions{checkBrowser: needsBrowser(formats)})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing renderers", "error", err)
		}
	}()

	if err := st.editor.Start(ctx); err != nil {
		return err
	}
	if _, err := st.loadFile(ctx, input, cfg.Server.MaxUploadBytes); err != nil {
		return err
	}

	outDir := cfg.Export.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, outputDirPerm); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrWriteOutput, outDir, err)
	}

	for _, format := range formats {
		art, err := st.editor.Export(ctx, format, opts)
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, art.Name)
		if err := os.WriteFile(path, art.Data, artifactPerm); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", input, path)
		}
	}

	return nil
}

// parseFormats parses format names, dropping duplicates and keeping order.
func parseFormats(names []string) ([]mdstudio.Format, error) {
	seen := make(map[mdstudio.Format]bool, len(names))
	formats := make([]mdstudio.Format, 0, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		format, err := mdstudio.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		formats = append(formats, format)
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no export format given", ErrUsage)
	}
	return formats, nil
}

// needsBrowser reports whether any format is rendered by Chrome.
func needsBrowser(formats []mdstudio.Format) bool {
	for _, f := range formats {
		if f == mdstudio.FormatPDF || f == mdstudio.FormatPNG {
			return true
		}
	}
	return false
}

// applyExportFlags applies export flags over cfg.
func applyExportFlags(f *exportFlags, cfg *config.Config) {
	applyRendererFlags(f.renderer, cfg)
	if f.output != "" {
		cfg.Export.OutputDir = f.output
	}
	if f.marginSet {
		cfg.Export.MarginMM = f.margin
	}
	if f.header != "" {
		cfg.Export.Header = f.header
	}
	if f.footer != "" {
		cfg.Export.Footer = f.footer
	}
	if f.toc {
		cfg.Export.IncludeTOC = true
	}
}
