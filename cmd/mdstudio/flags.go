package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// rendererFlags holds flags of the preview and export pipeline.
type rendererFlags struct {
	style    string
	timeout  string
	workers  int
	strict   bool
	tocTitle string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	renderer  rendererFlags
	addr      string
	watch     string
	debounce  string
	noWelcome bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	renderer  rendererFlags
	formats   []string
	output    string
	margin    float64
	marginSet bool
	header    string
	footer    string
	toc       bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addRendererFlags adds pipeline flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.style, "style", "", "style name for preview and exports")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser timeout per export (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser instances (0 = auto)")
	fs.BoolVar(&f.strict, "strict", false, "allowlist sanitization of the preview")
	fs.StringVar(&f.tocTitle, "toc-title", "", "table of contents heading")
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8420)")
	fs.StringVar(&f.watch, "watch", "", "markdown file to load and reload on change")
	fs.StringVar(&f.debounce, "debounce", "", "quiet period before a preview render (e.g., 300ms)")
	fs.BoolVar(&f.noWelcome, "no-welcome", false, "start with an empty document")

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)

	fs.Usage = func() { printServeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &exportFlags{}

	fs.StringSliceVarP(&f.formats, "format", "f", []string{"pdf"}, "export formats: pdf, docx, png, txt, md")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.Float64Var(&f.margin, "margin", 0, "PDF margin in millimeters (0-100)")
	fs.StringVar(&f.header, "header", "", "PDF page header")
	fs.StringVar(&f.footer, "footer", "", "PDF page footer, {page} and {pages} are replaced")
	fs.BoolVar(&f.toc, "toc", false, "prepend a table of contents to the PDF")

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)

	fs.Usage = func() { printExportUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.marginSet = fs.Changed("margin")

	return f, fs.Args(), nil
}

// usageError marks a flag parsing error as a usage error. Help requests
// pass through unchanged.
func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
