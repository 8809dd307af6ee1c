package main

import (
	"fmt"
	"io"
	"log/slog"
)

// newLogger returns the CLI logger: text records on w, debug with verbose,
// warnings and errors only with quiet.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// procsLogger adapts log to the printf logger automaxprocs expects.
// Messages are dropped unless verbose.
func procsLogger(log *slog.Logger, verbose bool) func(string, ...any) {
	if !verbose {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	}
}
