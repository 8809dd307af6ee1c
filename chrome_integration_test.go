//go:build integration

package mdstudio

// Notes:
// - Requires a local Chrome/Chromium (or ROD_BROWSER_BIN); skipped otherwise.
// - Run with: go test -tags integration -run Integration ./...

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alnah/go-mdstudio/internal/pipeline"
)

const integrationTimeout = 60 * time.Second

func newIntegrationPool(t *testing.T) *RendererPool {
	t.Helper()

	if _, err := LookupBrowser(); err != nil {
		t.Skipf("no browser: %v", err)
	}

	p := NewRendererPool(1, integrationTimeout)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestChrome_PDF_Integration(t *testing.T) {
	p := newIntegrationPool(t)

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	page := pipeline.WrapDocument(pipeline.Page{
		Title:     "prueba",
		BodyClass: pipeline.PrintClass,
		Body:      "<h1>Hola</h1><p>mundo</p>",
	})

	data, err := p.PDF(ctx, page, PDFOptions{
		MarginIn: 20 / mmPerInch,
		Stamp:    pipeline.Stamp{Header: "Informe", Footer: "Pág. {page}/{pages}"},
	})
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("PDF() output does not start with %%PDF-: %q", data[:min(len(data), 16)])
	}
}

func TestChrome_PNG_Integration(t *testing.T) {
	p := newIntegrationPool(t)

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	page := pipeline.WrapDocument(pipeline.Page{
		BodyClass: pipeline.PrintClass,
		Body:      "<h1>Hola</h1>",
	})

	data, err := p.PNG(ctx, page, RasterOptions{})
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("PNG() output is not a PNG")
	}
}
