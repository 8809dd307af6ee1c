package mdstudio

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// Source is the document state an export reads. The Editor takes it as a
// snapshot, so handlers never see later edits.
type Source struct {
	Text      string // raw editor text
	View      string // live view; already anchored when TOC is set
	TOC       string // fragment prepended to the PDF body
	SourceDir string // resolves relative image paths, may be empty
}

// Exporter turns a Source into an Artifact, one handler per Format.
type Exporter struct {
	pdf    PDFComposer
	raster Rasterizer
	docx   DocumentComposer
	namer  Namer
	css    string
	breaks []pipeline.BreakMode
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithNamer sets the file naming rule.
func WithNamer(n Namer) ExporterOption {
	return func(e *Exporter) {
		e.namer = n
	}
}

// WithStyle sets the style sheet of PDF and PNG pages.
func WithStyle(css string) ExporterOption {
	return func(e *Exporter) {
		e.css = css
	}
}

// WithBreakModes sets the PDF page-break policies.
func WithBreakModes(modes ...pipeline.BreakMode) ExporterOption {
	return func(e *Exporter) {
		e.breaks = modes
	}
}

// NewExporter creates an Exporter. A nil docx composer means DocxComposer.
func NewExporter(pdf PDFComposer, raster Rasterizer, docx DocumentComposer, opts ...ExporterOption) *Exporter {
	if docx == nil {
		docx = DocxComposer{}
	}

	e := &Exporter{
		pdf:    pdf,
		raster: raster,
		docx:   docx,
		breaks: pipeline.DefaultBreakModes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName returns the name an export of f would get now.
func (e *Exporter) FileName(f Format) (string, error) {
	return e.namer.FileName(f)
}

// Export produces the artifact of format f.
func (e *Exporter) Export(ctx context.Context, f Format, src Source, opts ExportOptions) (*Artifact, error) {
	name, err := e.namer.FileName(f)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch f {
	case FormatPDF:
		data, err = e.exportPDF(ctx, name, src, opts)
	case FormatDOCX:
		data, err = e.exportDOCX(src)
	case FormatPNG:
		data, err = e.exportPNG(ctx, name, src)
	case FormatTXT, FormatMD:
		data = []byte(pipeline.Clean(src.Text))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Name:     name,
		MIMEType: f.MIMEType(),
		Data:     data,
	}, nil
}

// exportPDF prints the TOC followed by the view on A4 pages.
func (e *Exporter) exportPDF(ctx context.Context, title string, src Source, opts ExportOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if e.pdf == nil {
		return nil, fmt.Errorf("%w: no PDF composer", ErrDependencyMissing)
	}

	body, err := pipeline.RewriteRelativePaths(src.TOC+src.View, src.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting image paths: %w", err)
	}

	page := pipeline.WrapDocument(pipeline.Page{
		Title:     title,
		CSS:       e.css + pipeline.PageBreakCSS(e.breaks),
		BodyClass: pipeline.PrintClass,
		Body:      body,
	})

	return e.pdf.PDF(ctx, page, PDFOptions{
		MarginIn: opts.MarginInches(),
		Stamp:    pipeline.Stamp{Header: opts.Header, Footer: opts.Footer},
		Scale:    RasterScale,
	})
}

// exportDOCX writes one paragraph per line of the cleaned text.
func (e *Exporter) exportDOCX(src Source) ([]byte, error) {
	return e.docx.DOCX(pipeline.SplitLines(pipeline.Clean(src.Text)))
}

// exportPNG rasterizes the view in print styling. src.View is copied into a
// disposable page; the live view is untouched.
func (e *Exporter) exportPNG(ctx context.Context, title string, src Source) ([]byte, error) {
	if e.raster == nil {
		return nil, fmt.Errorf("%w: no rasterizer", ErrDependencyMissing)
	}

	body, err := pipeline.RewriteRelativePaths(src.View, src.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting image paths: %w", err)
	}

	page := pipeline.WrapDocument(pipeline.Page{
		Title:     title,
		CSS:       e.css,
		BodyClass: pipeline.PrintClass,
		Body:      body,
	})

	return e.raster.PNG(ctx, page, RasterOptions{
		Scale:    RasterScale,
		Selector: PreviewSelector,
	})
}
