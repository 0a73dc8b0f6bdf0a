package main

// Notes:
// - exitCodeFor: we test sentinel errors from every package the CLI calls,
//   plus wrapped errors to verify the errors.Is() chain works correctly.
// - hintFor: we test that the error kinds with a known remedy get a hint.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/contact"
	"github.com/alnah/go-folio/internal/resume"
	"github.com/alnah/go-folio/portfolio"
	"github.com/alnah/go-folio/viewer"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	missingLocal := &folio.FetchError{URL: "resume.pdf", Err: os.ErrNotExist}
	notFound := &folio.FetchError{URL: "https://example.com/resume.pdf", StatusCode: http.StatusNotFound}

	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"write page", ErrWritePage, ExitIO},
		{"write resume", ErrWriteResume, ExitIO},
		{"portfolio not found", portfolio.ErrNotFound, ExitIO},
		{"missing local document", missingLocal, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Network errors (exit 5)
		{"fetch", folio.ErrFetch, ExitNetwork},
		{"fetch 404", notFound, ExitNetwork},
		{"document too large", folio.ErrDocumentTooLarge, ExitNetwork},

		// Backend errors (exit 4)
		{"decode", folio.ErrDecode, ExitBackend},
		{"render", folio.ErrRender, ExitBackend},
		{"encode", folio.ErrEncode, ExitBackend},
		{"page error", &folio.PageError{Index: 2, Stage: folio.ErrRender, Err: errors.New("boom")}, ExitBackend},
		{"browser connect", resume.ErrBrowserConnect, ExitBackend},
		{"pdf generation", resume.ErrPDFGeneration, ExitBackend},
		{"wrapped decode", fmt.Errorf("rasterize: %w", folio.ErrDecode), ExitBackend},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config field too long", config.ErrFieldTooLong, ExitUsage},
		{"config invalid value", config.ErrInvalidValue, ExitUsage},
		{"empty url", folio.ErrEmptyURL, ExitUsage},
		{"invalid scale", folio.ErrInvalidScale, ExitUsage},
		{"invalid format", folio.ErrInvalidFormat, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"unknown key", viewer.ErrUnknownKey, ExitUsage},
		{"invalid level", portfolio.ErrInvalidLevel, ExitUsage},
		{"missing field", portfolio.ErrMissingField, ExitUsage},
		{"mail config", contact.ErrInvalidConfig, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	for name, code := range map[string]int{"ExitIO": ExitIO, "ExitBackend": ExitBackend, "ExitNetwork": ExitNetwork} {
		if code >= 126 {
			t.Errorf("%s = %d, should be < 126", name, code)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
		contains string
	}{
		{
			name:     "404 fetch",
			err:      &folio.FetchError{URL: "https://x/resume.pdf", StatusCode: http.StatusNotFound},
			wantHint: true,
			contains: "resumeLink",
		},
		{
			name:     "network fetch",
			err:      fmt.Errorf("%w: dial tcp", &folio.FetchError{URL: "https://x/resume.pdf"}),
			wantHint: true,
			contains: "network",
		},
		{
			name:     "missing local file has no fetch hint",
			err:      &folio.FetchError{URL: "resume.pdf", Err: os.ErrNotExist},
			wantHint: false,
		},
		{
			name: "oversized local file has no network hint",
			err: &folio.FetchError{URL: "resume.pdf",
				Err: fmt.Errorf("%w: 4096 bytes (max 1024)", folio.ErrDocumentTooLarge)},
			wantHint: false,
		},
		{
			name:     "timeout",
			err:      fmt.Errorf("rasterize: %w", context.DeadlineExceeded),
			wantHint: true,
		},
		{
			name:     "write page",
			err:      ErrWritePage,
			wantHint: true,
		},
		{
			name:     "style not found lists styles",
			err:      assets.ErrStyleNotFound,
			wantHint: true,
			contains: "classic",
		},
		{
			name:     "unrelated error",
			err:      errors.New("nope"),
			wantHint: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.wantHint && got == "" {
				t.Fatalf("hintFor(%v) = \"\", want a hint", tt.err)
			}
			if !tt.wantHint && got != "" {
				t.Fatalf("hintFor(%v) = %q, want none", tt.err, got)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("hintFor(%v) = %q, want it to contain %q", tt.err, got, tt.contains)
			}
		})
	}
}
