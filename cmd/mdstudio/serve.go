package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/hints"
	"github.com/alnah/go-mdstudio/internal/server"
	"github.com/alnah/go-mdstudio/internal/watch"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// runServe starts the editor service and blocks until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(f.common)
	if err != nil {
		return err
	}
	applyServeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(env.Stderr, f.common.verbose, f.common.quiet)
	warnUnknownEnvVars(log)

	text := ""
	if cfg.Editor.Welcome {
		text = mdstudio.WelcomeText
	}

	st, err := newStack(cfg, env, log, stackOptions{text: text, checkBrowser: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing editor", "error", err)
		}
	}()

	// A missing browser leaves the page up with the dependency error shown.
	if err := st.editor.Start(ctx); err != nil {
		log.Warn("editor not ready", "error", err, "hint", strings.TrimPrefix(hints.ForBrowserConnect(), "\n  hint: "))
	}

	if f.watch != "" {
		w, err := startWatch(ctx, st, f.watch, cfg.Server.MaxUploadBytes)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	srv, err := server.New(st.editor, server.Options{
		Assets:         st.loader,
		Style:          cfg.Preview.Style,
		MarginMM:       cfg.Export.MarginMM,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	ln, err := env.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	return serveUntilDone(ctx, ln, srv, st, env, log)
}

// serveUntilDone serves on ln until ctx is done, then shuts down gracefully.
func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler, st *stack, env *Environment, log *slog.Logger) error {
	httpSrv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	// Closing the editor ends the event streams; other requests get the
	// shutdown grace period.
	httpSrv.RegisterOnShutdown(func() { _ = st.editor.Close() })

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	fmt.Fprintf(env.Stdout, "mdstudio listening on http://%s\n", ln.Addr())
	log.Info("server started", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
		return httpSrv.Close()
	}
	return nil
}

// startWatch loads path into the editor and reloads it on every change.
func startWatch(ctx context.Context, st *stack, path string, maxBytes int64) (*watch.Watcher, error) {
	if _, err := st.loadFile(ctx, path, maxBytes); err != nil {
		if !isBrowserError(err) {
			return nil, err
		}
		st.log.Warn("file not loaded", "path", path, "error", err)
	}

	w, err := watch.New(path, func(ctx context.Context, p string) error {
		_, err := st.loadFile(ctx, p, maxBytes)
		return err
	}, watch.WithLogger(st.log))
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return w, nil
}

// applyServeFlags applies serve flags over cfg.
func applyServeFlags(f *serveFlags, cfg *config.Config) {
	applyRendererFlags(f.renderer, cfg)
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.debounce != "" {
		cfg.Editor.Debounce = f.debounce
	}
	if f.noWelcome {
		cfg.Editor.Welcome = false
	}
}
