package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// stack is the editor wired to its renderers, as both commands use it.
type stack struct {
	editor *mdstudio.Editor
	pool   *mdstudio.RendererPool
	loader assets.AssetLoader
	log    *slog.Logger
}

// stackOptions selects how the stack is built.
type stackOptions struct {
	text         string // initial document
	checkBrowser bool   // add Chrome to the dependencies checked by Start
}

// newStack builds the pipeline from a validated cfg. Close releases it.
func newStack(cfg *config.Config, env *Environment, log *slog.Logger, opts stackOptions) (*stack, error) {
	loader, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	css, err := loader.LoadStyle(cfg.Preview.Style)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", cfg.Preview.Style, err)
	}

	poolSize := mdstudio.ResolvePoolSize(cfg.Export.Workers)
	log.Debug("renderer pool", "size", poolSize, "timeout", cfg.TimeoutDuration())
	pool := mdstudio.NewRendererPool(poolSize, cfg.TimeoutDuration())

	exporter := mdstudio.NewExporter(pool, pool, nil,
		mdstudio.WithStyle(css),
		mdstudio.WithNamer(mdstudio.Namer{
			Prefix:     cfg.Export.FilePrefix,
			DateFormat: cfg.Export.DateFormat,
			Now:        env.Now,
		}),
	)

	editorOpts := []mdstudio.EditorOption{
		mdstudio.WithPreviewer(mdstudio.NewPreviewer(pipeline.NewRenderer(), pipeline.NewGuard(cfg.Preview.Strict))),
		mdstudio.WithDebounce(cfg.DebounceDuration()),
		mdstudio.WithInitialText(opts.text),
		mdstudio.WithTOCTitle(cfg.Export.TOCTitle),
		mdstudio.WithLogger(log),
	}
	if opts.checkBrowser {
		editorOpts = append(editorOpts, mdstudio.WithDependencies(pool))
	}

	return &stack{
		editor: mdstudio.NewEditor(exporter, editorOpts...),
		pool:   pool,
		loader: loader,
		log:    log,
	}, nil
}

// loadFile replaces the editor document with the file at path.
func (s *stack) loadFile(ctx context.Context, path string, maxBytes int64) (mdstudio.View, error) {
	f, err := os.Open(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return mdstudio.View{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer f.Close()

	view, err := s.editor.Load(ctx, f, maxBytes, filepath.Dir(path))
	if err != nil {
		return mdstudio.View{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return view, nil
}

// Close stops the editor and the browsers.
func (s *stack) Close() error {
	return errors.Join(s.editor.Close(), s.pool.Close())
}
