package mdstudio

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/pipeline"
	"github.com/alnah/go-mdstudio/internal/process"
)

// PDFComposer renders a standalone HTML page to a PDF document.
type PDFComposer interface {
	PDF(ctx context.Context, page string, opts PDFOptions) ([]byte, error)
}

// Rasterizer renders an element of a standalone HTML page to a PNG image.
type Rasterizer interface {
	PNG(ctx context.Context, page string, opts RasterOptions) ([]byte, error)
}

// pageRenderer is one browser able to compose and rasterize pages.
// It is not safe for concurrent use; RendererPool hands out one per call.
type pageRenderer interface {
	PDFComposer
	Rasterizer
	Close() error
}

// Compile-time interface check.
var _ pageRenderer = (*chromeRenderer)(nil)

// Browser environment variables, shared with the doctor command.
const (
	EnvBrowserBin = "ROD_BROWSER_BIN"
	EnvCI         = "CI"
)

// A4 portrait in inches.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

// RasterScale is the device scale factor for PNG output and for images
// embedded in PDF pages.
const RasterScale = 2.0

// A4 at 96 dpi, the CSS pixel size of a printed page.
const (
	viewportWidthPx  = 794
	viewportHeightPx = 1123
)

// PreviewSelector selects the element holding the view in a wrapped page.
const PreviewSelector = "main.preview"

// PDFOptions holds the per-export PDF settings.
type PDFOptions struct {
	MarginIn float64        // all four sides
	Stamp    pipeline.Stamp // running header and footer
	Scale    float64        // device scale factor, 0 means RasterScale
}

// RasterOptions holds the PNG settings.
type RasterOptions struct {
	Scale    float64 // device scale factor, 0 means RasterScale
	Selector string  // element to capture, empty means PreviewSelector
}

// chromeRenderer implements pageRenderer with headless Chrome via go-rod.
// The browser is started lazily on first use.
type chromeRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newChromeRenderer creates a chromeRenderer whose page loads are bounded by
// timeout.
func newChromeRenderer(timeout time.Duration) *chromeRenderer {
	return &chromeRenderer{timeout: timeout}
}

// LookupBrowser returns the Chrome binary a renderer would launch.
// ROD_BROWSER_BIN wins over the system lookup. The lookup never downloads a
// browser.
func LookupBrowser() (string, error) {
	if bin := os.Getenv(EnvBrowserBin); bin != "" {
		if !fileutil.FileExists(bin) {
			return "", fmt.Errorf("%w: %s=%s does not exist", ErrDependencyMissing, EnvBrowserBin, bin)
		}
		return bin, nil
	}

	path, found := launcher.LookPath()
	if !found {
		return "", fmt.Errorf("%w: Chrome/Chromium not found", ErrDependencyMissing)
	}
	return path, nil
}

// ensureBrowser lazily launches and connects to the browser.
func (r *chromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	bin, err := LookupBrowser()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBrowserConnect, err)
	}

	l := launcher.New().Bin(bin).Headless(true)

	// NoSandbox required for CI and containerized environments
	if os.Getenv(EnvCI) == "true" || os.Getenv(EnvBrowserBin) != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources and kills any leftover Chrome children.
func (r *chromeRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		_ = process.KillTree(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// PDF composes page as an A4 portrait document.
func (r *chromeRenderer) PDF(ctx context.Context, page string, opts PDFOptions) ([]byte, error) {
	var data []byte
	err := r.withPage(ctx, page, opts.Scale, func(p *rod.Page) error {
		reader, err := p.PDF(buildPDFOptions(opts))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
		}

		data, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
		}
		return nil
	})
	return data, err
}

// PNG captures the selected element of page on a white background.
func (r *chromeRenderer) PNG(ctx context.Context, page string, opts RasterOptions) ([]byte, error) {
	selector := opts.Selector
	if selector == "" {
		selector = PreviewSelector
	}

	var data []byte
	err := r.withPage(ctx, page, opts.Scale, func(p *rod.Page) error {
		white := 1.0
		if err := (proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{R: 255, G: 255, B: 255, A: &white},
		}).Call(p); err != nil {
			return fmt.Errorf("%w: setting background: %v", ErrRasterize, err)
		}

		el, err := p.Element(selector)
		if err != nil {
			return fmt.Errorf("%w: element %q: %v", ErrRasterize, selector, err)
		}

		data, err = el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRasterize, err)
		}
		return nil
	})
	return data, err
}

// withPage writes page to a temporary file, opens it at the print viewport
// and calls fn once it has loaded. Loading from a file keeps file:// image
// URLs working.
func (r *chromeRenderer) withPage(ctx context.Context, page string, scale float64, fn func(*rod.Page) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer p.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	p = p.Context(ctx).Timeout(timeout)

	if scale <= 0 {
		scale = RasterScale
	}
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidthPx,
		Height:            viewportHeightPx,
		DeviceScaleFactor: scale,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := p.Navigate("file://" + tmpPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(p)
}

// buildPDFOptions constructs proto.PagePrintToPDF for an A4 portrait page
// with equal margins and the running header and footer.
func buildPDFOptions(opts PDFOptions) *proto.PagePrintToPDF {
	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(opts.MarginIn),
		MarginBottom:    floatPtr(opts.MarginIn),
		MarginLeft:      floatPtr(opts.MarginIn),
		MarginRight:     floatPtr(opts.MarginIn),
		PrintBackground: true,
	}

	if !opts.Stamp.Empty() {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = opts.Stamp.HeaderTemplate(opts.MarginIn)
		pdfOpts.FooterTemplate = opts.Stamp.FooterTemplate(opts.MarginIn)
	}

	return pdfOpts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
