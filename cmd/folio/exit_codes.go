package main

import (
	"context"
	"errors"
	"os"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/contact"
	"github.com/alnah/go-folio/internal/hints"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/portfolio"
	"github.com/alnah/go-folio/viewer"
)

// Exit codes for the folio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, unwritable output
	ExitBackend = 4 // MuPDF or Chrome could not render
	ExitNetwork = 5 // Document download failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors first: a missing local document is a FetchError wrapping
	// fs.ErrNotExist and belongs here, not with network failures.
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWritePage) ||
		errors.Is(err, ErrWriteResume) ||
		errors.Is(err, portfolio.ErrNotFound) ||
		errors.Is(err, portfolio.ErrEmptyStorePath) {
		return ExitIO
	}

	// Network errors (exit 5)
	if errors.Is(err, folio.ErrFetch) ||
		errors.Is(err, folio.ErrDocumentTooLarge) {
		return ExitNetwork
	}

	// Backend errors (exit 4)
	if errors.Is(err, folio.ErrDecode) ||
		errors.Is(err, folio.ErrRender) ||
		errors.Is(err, folio.ErrEncode) ||
		errors.Is(err, resume.ErrBrowserConnect) ||
		errors.Is(err, resume.ErrPageCreate) ||
		errors.Is(err, resume.ErrPageLoad) ||
		errors.Is(err, resume.ErrPDFGeneration) {
		return ExitBackend
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, folio.ErrEmptyURL) ||
		errors.Is(err, folio.ErrInvalidScale) ||
		errors.Is(err, folio.ErrInvalidFormat) ||
		errors.Is(err, folio.ErrPageOutOfRange) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, viewer.ErrUnknownKey) ||
		errors.Is(err, portfolio.ErrStoreParse) ||
		errors.Is(err, portfolio.ErrMissingField) ||
		errors.Is(err, portfolio.ErrFieldTooLong) ||
		errors.Is(err, portfolio.ErrInvalidLevel) ||
		errors.Is(err, portfolio.ErrInvalidValue) ||
		errors.Is(err, contact.ErrInvalidConfig) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint to print under err, or "".
func hintFor(err error) string {
	var fe *folio.FetchError
	if errors.As(err, &fe) && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, folio.ErrDocumentTooLarge) {
		return hints.ForFetch(fe.StatusCode)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, folio.ErrDecode):
		return hints.ForDecode()
	case errors.Is(err, resume.ErrBrowserConnect):
		return hints.ForBrowserConnect(hints.DetectHost())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, ErrWritePage), errors.Is(err, ErrWriteResume):
		return hints.ForOutputDirectory()
	case errors.Is(err, contact.ErrSend):
		return hints.ForMail()
	}
	return ""
}
