package mdstudio

import "errors"

// Sentinel errors for editor and export operations.
var (
	ErrBusy           = errors.New("export already in progress")
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrInvalidMargin  = errors.New("invalid margin")
	ErrEmptyDocument  = errors.New("document is empty")
	ErrEditorClosed   = errors.New("editor is closed")
	ErrExportPanicked = errors.New("export panicked")

	// Browser collaborator errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrRasterize      = errors.New("PNG rasterization failed")
	ErrPoolClosed     = errors.New("renderer pool is closed")

	// Word-processor collaborator errors.
	ErrDocxGeneration = errors.New("DOCX generation failed")

	// ErrDependencyMissing indicates a required collaborator is unavailable.
	ErrDependencyMissing = errors.New("required dependency is missing")
)
