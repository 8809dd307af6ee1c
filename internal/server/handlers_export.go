package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mdstudio "github.com/alnah/go-mdstudio"
)

// maxOptionsBytes bounds the export options body.
const maxOptionsBytes = 64 << 10

// exportErrorResponse is returned when an export fails. Alert is the message
// the page shows to the user.
type exportErrorResponse struct {
	Error string `json:"error"`
	Alert string `json:"alert,omitempty"`
}

// handleExport runs an export and streams the artifact as an attachment.
// The body holds optional JSON ExportOptions; an empty body means defaults.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := mdstudio.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	opts := mdstudio.DefaultExportOptions()
	opts.MarginMM = s.opts.MarginMM

	dec := json.NewDecoder(io.LimitReader(r.Body, maxOptionsBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid export options: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := opts.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	art, err := s.editor.Export(r.Context(), format, opts)
	if err != nil {
		if exportErr, ok := mdstudio.IsExportError(err); ok {
			writeJSON(w, http.StatusInternalServerError, exportErrorResponse{
				Error: exportErr.Error(),
				Alert: exportErr.Alert(),
			})
			return
		}
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", art.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		s.log.Warn("writing artifact", "file", art.Name, "error", err)
	}
}
