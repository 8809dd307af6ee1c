package mdstudio

import (
	"context"
	"strings"
	"sync"

	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Test Fakes
// ---------------------------------------------------------------------------

// fakeRenderer records the pages it is asked to compose.
// When gate is set, calls block until it is closed or ctx is done.
type fakeRenderer struct {
	mu       sync.Mutex
	pdfPages []string
	pdfOpts  []PDFOptions
	pngPages []string
	pngOpts  []RasterOptions
	closed   int

	err      error
	panicMsg string
	gate     chan struct{}
	started  chan struct{}
}

func (f *fakeRenderer) PDF(ctx context.Context, page string, opts PDFOptions) ([]byte, error) {
	f.mu.Lock()
	f.pdfPages = append(f.pdfPages, page)
	f.pdfOpts = append(f.pdfOpts, opts)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeRenderer) PNG(ctx context.Context, page string, opts RasterOptions) ([]byte, error) {
	f.mu.Lock()
	f.pngPages = append(f.pngPages, page)
	f.pngOpts = append(f.pngOpts, opts)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return []byte("\x89PNG fake"), nil
}

func (f *fakeRenderer) wait(ctx context.Context) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.err
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeRenderer) lastPDF() (string, PDFOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pdfPages) == 0 {
		return "", PDFOptions{}
	}
	return f.pdfPages[len(f.pdfPages)-1], f.pdfOpts[len(f.pdfOpts)-1]
}

func (f *fakeRenderer) lastPNG() (string, RasterOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pngPages) == 0 {
		return "", RasterOptions{}
	}
	return f.pngPages[len(f.pngPages)-1], f.pngOpts[len(f.pngOpts)-1]
}

// fakeDocx records the paragraphs it is given.
type fakeDocx struct {
	mu         sync.Mutex
	paragraphs []string
	err        error
}

func (f *fakeDocx) DOCX(paragraphs []string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paragraphs = append([]string(nil), paragraphs...)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("PK fake"), nil
}

// fakeDependency is a collaborator with a fixed check result.
type fakeDependency struct {
	name string
	err  error
}

func (f fakeDependency) Name() string                { return f.name }
func (f fakeDependency) Check(context.Context) error { return f.err }

// slowMarkdown renders with goldmark but holds any text containing marker
// until gate is closed, signalling started first.
type slowMarkdown struct {
	marker  string
	gate    chan struct{}
	started chan struct{}
}

func (s *slowMarkdown) Render(ctx context.Context, content string) (string, error) {
	if strings.Contains(content, s.marker) {
		s.started <- struct{}{}
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return pipeline.NewRenderer().Render(ctx, content)
}
