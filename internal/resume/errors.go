package resume

import "errors"

// Sentinel errors for resume generation.
var (
	ErrNilPortfolio   = errors.New("portfolio cannot be nil")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrTemplate       = errors.New("resume template invalid")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrPoolClosed     = errors.New("generator pool closed")
)
