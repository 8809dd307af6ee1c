package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		verbose, quiet bool
		wantDebug      bool
		wantInfo       bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"verbose wins", true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := newLogger(&buf, tt.verbose, tt.quiet)
			log.Debug("debug-line")
			log.Info("info-line")
			log.Warn("warn-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if !strings.Contains(out, "warn-line") {
				t.Error("warnings must always be logged")
			}
		})
	}
}

func TestProcsLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, true, false)

	procsLogger(log, false)("maxprocs: %d", 4)
	if buf.Len() != 0 {
		t.Errorf("quiet procs logger wrote %q", buf.String())
	}

	procsLogger(log, true)("maxprocs: %d", 4)
	if !strings.Contains(buf.String(), "maxprocs: 4") {
		t.Errorf("procs logger output = %q", buf.String())
	}
}
