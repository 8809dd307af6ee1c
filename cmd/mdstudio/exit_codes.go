package main

import (
	"context"
	"errors"
	"os"
	"syscall"

	mdstudio "github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/assets"
	"github.com/alnah/go-mdstudio/internal/config"
	"github.com/alnah/go-mdstudio/internal/dateutil"
	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/hints"
)

// Exit codes for the mdstudio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// CLI sentinel errors.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no input file")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if isBrowserError(err) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrFileTooLarge) ||
		errors.Is(err, fileutil.ErrNotUTF8) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, mdstudio.ErrUnknownFormat) ||
		errors.Is(err, mdstudio.ErrInvalidMargin) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) {
		return ExitUsage
	}

	return ExitGeneral
}

// isBrowserError reports whether err comes from the Chrome renderer or its
// absence.
func isBrowserError(err error) bool {
	return errors.Is(err, mdstudio.ErrDependencyMissing) ||
		errors.Is(err, mdstudio.ErrBrowserConnect) ||
		errors.Is(err, mdstudio.ErrPageCreate) ||
		errors.Is(err, mdstudio.ErrPageLoad) ||
		errors.Is(err, mdstudio.ErrPDFGeneration) ||
		errors.Is(err, mdstudio.ErrRasterize)
}

// isAddressInUse reports whether err is a listen failure on a taken port.
func isAddressInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

// hintFor returns the actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case isBrowserError(err):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyles())
	case errors.Is(err, mdstudio.ErrUnknownFormat):
		return hints.ForUnknownFormat(mdstudio.FormatNames())
	case isAddressInUse(err):
		return hints.ForAddressInUse()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
