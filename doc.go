// Package mdstudio is a local markdown editor backend: it keeps the document
// being edited, renders a guarded HTML preview, and exports the document to
// PDF, DOCX, PNG, TXT and MD.
//
// # Quick Start
//
// Build an exporter around a browser pool, wrap it in an editor and start it:
//
//	pool := mdstudio.NewRendererPool(mdstudio.ResolvePoolSize(0), 30*time.Second)
//	defer pool.Close()
//
//	exporter := mdstudio.NewExporter(pool, pool, nil)
//	editor := mdstudio.NewEditor(exporter, mdstudio.WithDependencies(pool))
//	defer editor.Close()
//
//	if err := editor.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	art, err := editor.Export(ctx, mdstudio.FormatPDF, mdstudio.ExportOptions{
//	    MarginMM:   20,
//	    Footer:     "Pág. {page}/{pages}",
//	    IncludeTOC: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(art.Name, art.Data, 0o644)
//
// # Preview Pipeline
//
// Every render runs these stages on the document text:
//
//  1. Clean: strip a leading front-matter block and surrounding whitespace
//  2. Line-ending normalization
//  3. Markdown to HTML via Goldmark (GFM, footnotes, syntax highlighting)
//  4. Guard: remove script and iframe elements and on* attributes
//
// Editor.Input debounces renders; Load and Clear render immediately.
// Views and button states are pushed to Editor.Subscribe channels.
//
// # Exports
//
// Each Format has one handler. PDF and PNG go through headless Chrome
// (go-rod) and wrap the view in a print-styled page. DOCX writes one
// paragraph per line of the cleaned text. TXT and MD write the cleaned text.
// Files are named <prefix>-<YYYY-MM-DD>.<ext> from the UTC date.
//
// An export marks its own button busy; a second export of the same format
// returns ErrBusy until the first one returns. Failures come back as
// *ExportError, whose Alert method gives the user-facing message.
package mdstudio
