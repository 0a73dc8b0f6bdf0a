package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Sentinel errors for rasterization.
var (
	ErrEmptyURL         = errors.New("document URL cannot be empty")
	ErrInvalidScale     = errors.New("invalid scale")
	ErrFetch            = errors.New("failed to fetch document")
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
	ErrDecode           = errors.New("failed to decode document")
	ErrNoPages          = errors.New("document has no pages")
	ErrRender           = errors.New("failed to render page")
	ErrEncode           = errors.New("failed to encode page image")

	// Option and lookup errors.
	ErrInvalidFormat  = errors.New("invalid image format")
	ErrPageOutOfRange = errors.New("page index out of range")
)

// FetchError describes a failed document fetch.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%v: %s: HTTP %d: %v", ErrFetch, e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: %s: HTTP %d %s", ErrFetch, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", ErrFetch, e.URL, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrFetch, e.URL)
}

// Unwrap exposes both ErrFetch and the underlying cause to errors.Is.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// NotFound reports whether the document URL answered 404 or the local file is missing.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || errors.Is(e.Err, fs.ErrNotExist)
}

// PageError describes a failure on a single page. The whole rasterization
// still fails; the index only tells the caller where it stopped.
type PageError struct {
	Index int
	Stage error // ErrRender or ErrEncode
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%v: page %d: %v", e.Stage, e.Index+1, e.Err)
}

func (e *PageError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}
