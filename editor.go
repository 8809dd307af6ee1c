package mdstudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-mdstudio/internal/debounce"
	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// subscriberBuffer is the number of events a slow subscriber may lag behind
// before its oldest events are dropped.
const subscriberBuffer = 16

// ExportError is returned by Editor.Export when an export fails or panics.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Alert returns the message shown to the user.
func (e *ExportError) Alert() string {
	return fmt.Sprintf("Ocurrió un error durante la exportación a %s.", e.Format)
}

// Status is the readiness of the editor and the state of its buttons.
type Status struct {
	Ready   bool          `json:"ready"`
	Error   string        `json:"error,omitempty"`
	Buttons []ButtonState `json:"buttons"`
}

// Editor holds the application state: the document, the live view, the
// pending render, the button states and the export pipeline.
// All methods are safe for concurrent use.
type Editor struct {
	doc       *Document
	previewer *Previewer
	exporter  *Exporter
	debouncer *debounce.Debouncer
	busy      *BusyRegistry
	deps      []Dependency
	tocTitle  string
	logger    *slog.Logger

	// renderMu serializes renders so views are published in input order.
	// renderedRev is the document revision of the last successful render.
	renderMu    sync.Mutex
	renderedRev uint64

	viewMu sync.RWMutex
	view   View

	stateMu sync.RWMutex
	ready   bool
	depErr  error

	subMu  sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// EditorOption configures an Editor.
type EditorOption func(*editorConfig)

type editorConfig struct {
	previewer *Previewer
	delay     time.Duration
	text      string
	tocTitle  string
	logger    *slog.Logger
	deps      []Dependency
	buttons   []ButtonState
}

// WithPreviewer sets the preview pipeline.
func WithPreviewer(p *Previewer) EditorOption {
	return func(c *editorConfig) {
		c.previewer = p
	}
}

// WithDebounce sets the quiet period before an input is rendered.
func WithDebounce(d time.Duration) EditorOption {
	return func(c *editorConfig) {
		c.delay = d
	}
}

// WithInitialText replaces the welcome text.
func WithInitialText(text string) EditorOption {
	return func(c *editorConfig) {
		c.text = text
	}
}

// WithTOCTitle sets the heading of the table of contents.
func WithTOCTitle(title string) EditorOption {
	return func(c *editorConfig) {
		c.tocTitle = title
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) EditorOption {
	return func(c *editorConfig) {
		c.logger = l
	}
}

// WithDependencies sets the collaborators checked by Start.
func WithDependencies(deps ...Dependency) EditorOption {
	return func(c *editorConfig) {
		c.deps = deps
	}
}

// WithButtons sets the buttons and their idle labels.
func WithButtons(buttons []ButtonState) EditorOption {
	return func(c *editorConfig) {
		c.buttons = buttons
	}
}

// NewEditor creates an Editor that exports through exporter.
// Call Start before serving it.
func NewEditor(exporter *Exporter, opts ...EditorOption) *Editor {
	cfg := editorConfig{
		delay:    debounce.DefaultDelay,
		text:     WelcomeText,
		tocTitle: pipeline.DefaultTOCTitle,
		buttons:  DefaultButtons(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.previewer == nil {
		cfg.previewer = NewPreviewer(nil, nil)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	e := &Editor{
		doc:       NewDocument(cfg.text),
		previewer: cfg.previewer,
		exporter:  exporter,
		debouncer: debounce.New(cfg.delay),
		deps:      cfg.deps,
		tocTitle:  cfg.tocTitle,
		logger:    cfg.logger,
		subs:      make(map[chan Event]struct{}),
	}
	e.busy = NewBusyRegistry(cfg.buttons, func(s ButtonState) {
		e.publish(Event{Type: EventBusy, Button: &s})
	})
	return e
}

// Start checks the dependencies and renders the initial document.
// When a dependency is missing the view shows DependencyErrorMessage, the
// editor stays not ready and the joined dependency errors are returned.
func (e *Editor) Start(ctx context.Context) error {
	if err := CheckDependencies(ctx, e.deps...); err != nil {
		e.logger.Error("dependency check failed", "error", err)

		e.stateMu.Lock()
		e.depErr = err
		e.stateMu.Unlock()

		e.setView(`<p class="error">` + DependencyErrorMessage + `</p>`)
		e.publish(Event{Type: EventError, Message: DependencyErrorMessage})
		return err
	}

	e.stateMu.Lock()
	e.ready = true
	e.depErr = nil
	e.stateMu.Unlock()

	_, err := e.render(ctx)
	return err
}

// Ready reports whether Start found every dependency.
func (e *Editor) Ready() bool {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.ready
}

// Status returns the readiness and the button states.
func (e *Editor) Status() Status {
	e.stateMu.RLock()
	st := Status{Ready: e.ready}
	if e.depErr != nil {
		st.Error = DependencyErrorMessage
	}
	e.stateMu.RUnlock()

	st.Buttons = e.busy.States()
	return st
}

// Text returns the document text.
func (e *Editor) Text() string {
	return e.doc.Text()
}

// View returns the live view.
func (e *Editor) View() View {
	e.viewMu.RLock()
	defer e.viewMu.RUnlock()
	return e.view
}

// TOC builds the outline of the live view without anchoring it.
func (e *Editor) TOC() (pipeline.TOC, error) {
	return pipeline.BuildTOC(e.View().HTML, e.tocTitle)
}

// Input records an edit and schedules a debounced render. Only the last
// edit of a burst is rendered.
func (e *Editor) Input(text string) error {
	if err := e.usable(); err != nil {
		return err
	}

	e.doc.Set(text)
	e.debouncer.Trigger(func() {
		_, _ = e.render(context.Background())
	})
	return nil
}

// InputSeq is Input for numbered edits. Clients number their edits in
// increasing order; an edit older than the last applied one is dropped
// without error, so requests that overtake each other cannot roll the
// document back.
func (e *Editor) InputSeq(seq uint64, text string) error {
	if err := e.usable(); err != nil {
		return err
	}

	if !e.doc.SetSeq(seq, text) {
		e.logger.Debug("stale edit dropped", "seq", seq)
		return nil
	}
	e.debouncer.Trigger(func() {
		_, _ = e.render(context.Background())
	})
	return nil
}

// Load replaces the document with the UTF-8 text read from r, at most
// maxBytes, and renders it immediately. sourceDir resolves relative image
// paths in exports and may be empty.
func (e *Editor) Load(ctx context.Context, r io.Reader, maxBytes int64, sourceDir string) (View, error) {
	if err := e.usable(); err != nil {
		return View{}, err
	}

	text, err := fileutil.ReadText(r, maxBytes)
	if err != nil {
		return View{}, err
	}

	e.debouncer.Cancel()
	e.doc.Replace(text, sourceDir)
	return e.render(ctx)
}

// Clear empties the document and renders the empty preview immediately.
// Clear has no busy state.
func (e *Editor) Clear(ctx context.Context) (View, error) {
	if err := e.usable(); err != nil {
		return View{}, err
	}

	e.debouncer.Cancel()
	e.doc.Clear()
	return e.render(ctx)
}

// Export runs the export of format f. A pending or running render is
// completed first so the view matches the text.
//
// Returns ErrBusy while an export of f is in flight. Any other failure,
// including a panic, is logged and returned as *ExportError. The button is
// back to Idle when Export returns.
func (e *Editor) Export(ctx context.Context, f Format, opts ExportOptions) (art *Artifact, err error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err := e.usable(); err != nil {
		return nil, err
	}

	release, err := e.busy.Begin(f.ButtonID())
	if err != nil {
		return nil, err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExportPanicked, r)
		}
		if err != nil {
			e.logger.Error("export failed", "format", f.String(), "error", err)
			art = nil
			err = &ExportError{Format: f, Err: err}
		}
	}()

	e.debouncer.Flush()
	e.syncView(ctx)

	src, err := e.snapshot(f, opts)
	if err != nil {
		return nil, err
	}

	art, err = e.exporter.Export(ctx, f, src, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported", "format", f.String(), "file", art.Name, "bytes", len(art.Data))
	return art, nil
}

// snapshot copies the state an export of f reads.
//
// For a PDF with a table of contents the outline is built from the live
// view, the anchors are applied to the live view, the anchored view is
// republished, and only then copied for the export.
func (e *Editor) snapshot(f Format, opts ExportOptions) (Source, error) {
	src := Source{
		Text:      e.doc.Text(),
		SourceDir: e.doc.SourceDir(),
	}

	if f != FormatPDF || !opts.IncludeTOC {
		src.View = e.View().HTML
		return src, nil
	}

	e.viewMu.Lock()
	toc, err := pipeline.BuildTOC(e.view.HTML, e.tocTitle)
	if err != nil {
		e.viewMu.Unlock()
		return Source{}, fmt.Errorf("building TOC: %w", err)
	}
	if toc.Empty() {
		src.View = e.view.HTML
		e.viewMu.Unlock()
		return src, nil
	}

	anchored, err := pipeline.ApplyAnchors(e.view.HTML, toc.Anchors)
	if err != nil {
		e.viewMu.Unlock()
		return Source{}, fmt.Errorf("applying anchors: %w", err)
	}
	e.view = View{HTML: anchored, Version: e.view.Version + 1}
	live := e.view
	e.viewMu.Unlock()

	e.publish(Event{Type: EventPreview, View: &live})

	src.View = live.HTML
	src.TOC = toc.Fragment
	return src, nil
}

// syncView waits for a render already running and renders again when the
// view is still behind the document. A failed render leaves the last good
// view in place.
func (e *Editor) syncView(ctx context.Context) {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	if e.renderedRev == e.doc.Revision() {
		return
	}
	_, _ = e.renderLocked(ctx)
}

// render renders the current document and publishes the view. A failure is
// logged and published as an error event; the last good view is kept.
func (e *Editor) render(ctx context.Context) (View, error) {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return e.renderLocked(ctx)
}

// renderLocked is render with renderMu held.
func (e *Editor) renderLocked(ctx context.Context) (View, error) {
	text, rev := e.doc.Snapshot()
	html, err := e.previewer.Render(ctx, text)
	if err != nil {
		e.logger.Error("preview render failed", "error", err)
		e.publish(Event{Type: EventError, Message: err.Error()})
		return e.View(), err
	}
	e.renderedRev = rev
	return e.setView(html), nil
}

// setView replaces the live view and publishes it.
func (e *Editor) setView(html string) View {
	e.viewMu.Lock()
	e.view = View{HTML: html, Version: e.view.Version + 1}
	v := e.view
	e.viewMu.Unlock()

	e.publish(Event{Type: EventPreview, View: &v})
	return v
}

// usable returns an error when the editor cannot take actions.
func (e *Editor) usable() error {
	e.subMu.Lock()
	closed := e.closed
	e.subMu.Unlock()
	if closed {
		return ErrEditorClosed
	}

	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if !e.ready {
		if e.depErr != nil {
			return e.depErr
		}
		return fmt.Errorf("%w: editor not started", ErrDependencyMissing)
	}
	return nil
}

// Subscribe returns a channel of state changes and a function that
// unsubscribes. The channel is closed on unsubscribe or Close. A subscriber
// that falls behind loses its oldest events.
func (e *Editor) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	e.subMu.Lock()
	if e.closed {
		e.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	e.subs[ch] = struct{}{}
	e.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			if _, ok := e.subs[ch]; ok {
				delete(e.subs, ch)
				close(ch)
			}
		})
	}
}

// publish delivers ev to every subscriber without blocking.
func (e *Editor) publish(ev Event) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	for ch := range e.subs {
		select {
		case ch <- ev:
			continue
		default:
		}

		// Full: drop the oldest event to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close stops the pending render and closes every subscription.
// Exports already running finish normally.
func (e *Editor) Close() error {
	e.debouncer.Stop()

	e.subMu.Lock()
	defer e.subMu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	for ch := range e.subs {
		close(ch)
	}
	e.subs = nil
	return nil
}

// IsExportError reports whether err came from an export failure, and
// returns it.
func IsExportError(err error) (*ExportError, bool) {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr, true
	}
	return nil, false
}
