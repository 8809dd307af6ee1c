package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/fileutil"
)

// InputSeqHeader carries the client's edit number on PUT /api/document.
const InputSeqHeader = "X-Input-Seq"

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// documentResponse carries the document text and its view.
type documentResponse struct {
	Text string        `json:"text"`
	View mdstudio.View `json:"view"`
}

// tocEntry is one outline entry.
type tocEntry struct {
	Index int    `json:"index"`
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// tocResponse is the outline of the live view.
type tocResponse struct {
	HTML    string     `json:"html"`
	Entries []tocEntry `json:"entries"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, documentResponse{
		Text: s.editor.Text(),
		View: s.editor.View(),
	})
}

// handlePutDocument takes the raw editor text as the request body. An
// InputSeqHeader numbers the edit so a late request cannot overwrite a newer
// one.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var seq uint64
	if raw := r.Header.Get(InputSeqHeader); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			jsonError(w, "invalid "+InputSeqHeader+" header", http.StatusBadRequest)
			return
		}
		seq = n
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1)

	text, err := fileutil.ReadText(r.Body, s.opts.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	if seq > 0 {
		err = s.editor.InputSeq(seq, text)
	} else {
		err = s.editor.Input(text)
	}
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadFile replaces the document with an uploaded text file.
func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	view, err := s.editor.Load(r.Context(), file, s.opts.MaxUploadBytes, "")
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{Text: s.editor.Text(), View: view})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	view, err := s.editor.Clear(r.Context())
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{View: view})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.View())
}

func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	toc, err := s.editor.TOC()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := tocResponse{HTML: toc.Fragment, Entries: make([]tocEntry, len(toc.Anchors))}
	for i, a := range toc.Anchors {
		resp.Entries[i] = tocEntry(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps editor errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, mdstudio.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, mdstudio.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.Is(err, mdstudio.ErrInvalidMargin):
		return http.StatusBadRequest
	case errors.Is(err, fileutil.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, fileutil.ErrNotUTF8):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, mdstudio.ErrDependencyMissing), errors.Is(err, mdstudio.ErrEditorClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
