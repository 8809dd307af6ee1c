package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mdstudio "github.com/alnah/go-mdstudio"
)

// errorPayload is the data of an error event.
type errorPayload struct {
	Message string `json:"message"`
}

// handleEvents streams editor events as Server-Sent Events. The current view
// is sent first so a new page starts in sync.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.log.Error("SSE: ResponseWriter doesn't support flushing")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable proxy buffering

	events, unsubscribe := s.editor.Subscribe()
	defer unsubscribe()

	// Send initial comment to establish connection
	fmt.Fprint(w, ": connected\n\n")
	view := s.editor.View()
	if err := writeEvent(w, mdstudio.Event{Type: mdstudio.EventPreview, View: &view}); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(s.opts.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				s.log.Debug("SSE client gone", "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// writeEvent writes ev as one SSE message named after its type.
func writeEvent(w io.Writer, ev mdstudio.Event) error {
	var payload any
	switch ev.Type {
	case mdstudio.EventPreview:
		payload = ev.View
	case mdstudio.EventError:
		payload = errorPayload{Message: ev.Message}
	case mdstudio.EventBusy:
		payload = ev.Button
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Type, err)
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}
