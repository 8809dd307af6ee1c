// Package server exposes an Editor to the browser page over HTTP.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// Defaults.
const (
	DefaultTitle          = "Conversor Universal Premium"
	DefaultMaxUploadBytes = 10 << 20
	DefaultKeepAlive      = 10 * time.Second
)

// Editor is the application state the server drives.
type Editor interface {
	Status() mdstudio.Status
	Text() string
	View() mdstudio.View
	TOC() (pipeline.TOC, error)
	Input(text string) error
	InputSeq(seq uint64, text string) error
	Load(ctx context.Context, r io.Reader, maxBytes int64, sourceDir string) (mdstudio.View, error)
	Clear(ctx context.Context) (mdstudio.View, error)
	Export(ctx context.Context, f mdstudio.Format, opts mdstudio.ExportOptions) (*mdstudio.Artifact, error)
	Subscribe() (<-chan mdstudio.Event, func())
}

// Compile-time interface check.
var _ Editor = (*mdstudio.Editor)(nil)

// Options configures a Server.
type Options struct {
	Title          string             // page title, empty means DefaultTitle
	Assets         assets.AssetLoader // nil means embedded assets
	Style          string             // document style name, empty means default
	MarginMM       float64            // initial margin control value
	MaxUploadBytes int64              // file load and input limit
	KeepAlive      time.Duration      // SSE keepalive interval
	Logger         *slog.Logger
}

// Server is the HTTP front end of the editor.
type Server struct {
	router  chi.Router
	editor  Editor
	page    *template.Template
	css     string
	opts    Options
	log     *slog.Logger
	webRoot http.Handler
}

// New creates a Server and loads the page template and document style.
func New(editor Editor, opts Options) (*Server, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Assets == nil {
		opts.Assets = assets.NewEmbeddedLoader()
	}
	if opts.Style == "" {
		opts.Style = assets.DefaultStyleName
	}
	if opts.MarginMM == 0 {
		opts.MarginMM = mdstudio.DefaultMarginMM
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = DefaultKeepAlive
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	tmplText, err := opts.Assets.LoadTemplate(assets.EditorTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	page, err := template.New(assets.EditorTemplateName).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	css, err := opts.Assets.LoadStyle(opts.Style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}

	s := &Server{
		editor:  editor,
		page:    page,
		css:     css,
		opts:    opts,
		log:     opts.Logger,
		webRoot: http.StripPrefix("/assets/", http.FileServerFS(assets.Web())),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CrossOriginGuard(s.log))

	r.Get("/", s.handleIndex)
	r.Get("/assets/*", s.webRoot.ServeHTTP)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Get("/document", s.handleGetDocument)
		r.Put("/document", s.handlePutDocument)
		r.Post("/document/file", s.handleLoadFile)
		r.Post("/clear", s.handleClear)

		r.Get("/preview", s.handlePreview)
		r.Get("/toc", s.handleTOC)
		r.Get("/events", s.handleEvents)

		r.Post("/export/{format}", s.handleExport)
	})

	s.router = r
}

// pageData fills the editor page template.
type pageData struct {
	Title       string
	DocumentCSS template.CSS
	MarginMM    float64
	Buttons     []mdstudio.ButtonState
	Text        string
	Preview     template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: s.opts.Title,
		// Loaded from embedded or operator-provided style files.
		DocumentCSS: template.CSS(s.css), // #nosec G203
		MarginMM:    s.opts.MarginMM,
		Buttons:     s.editor.Status().Buttons,
		Text:        s.editor.Text(),
		// The view has been through the guard.
		Preview: template.HTML(s.editor.View().HTML), // #nosec G203
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error("rendering page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.Status())
}
