package folio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/logging"
)

// ImageFormat selects the encoding of rasterized pages.
type ImageFormat string

// Supported page image formats.
const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// ParseImageFormat accepts "png", "jpeg" or "jpg" (case-insensitive).
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q (must be png or jpeg)", ErrInvalidFormat, s)
}

// MIMEType returns the media type used in data URIs and HTTP responses.
func (f ImageFormat) MIMEType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension without the dot.
func (f ImageFormat) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// RasterPage is one document page rendered to a bitmap and encoded.
// Pages are read-only once produced.
type RasterPage struct {
	Index  int         // 0-based position in the document
	Width  int         // pixels
	Height int         // pixels
	Format ImageFormat // encoding of Image
	Image  []byte      // encoded bitmap
}

// DataURI returns the page as a directly displayable data URI.
func (p RasterPage) DataURI() string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(p.Format.MIMEType()) + base64.StdEncoding.EncodedLen(len(p.Image)))
	b.WriteString("data:")
	b.WriteString(p.Format.MIMEType())
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(p.Image))
	return b.String()
}

// Decode decodes the encoded bitmap back into an image.
func (p RasterPage) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(p.Image))
	if err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", p.Index+1, err)
	}
	return img, nil
}

// Document is the immutable result of rasterizing one document URL.
type Document struct {
	URL   string
	Scale float64
	Pages []RasterPage
}

// PageCount returns the number of rasterized pages.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Page returns the page at index.
func (d *Document) Page(index int) (RasterPage, error) {
	if index < 0 || index >= d.PageCount() {
		return RasterPage{}, fmt.Errorf("%w: %d (document has %d pages)", ErrPageOutOfRange, index, d.PageCount())
	}
	return d.Pages[index], nil
}

// Rasterization defaults.
const (
	// DefaultScale is the resolution multiplier used by the resume viewer.
	DefaultScale = 2.4

	// PointsPerInch is the PDF user-space unit; scale 1.0 renders one pixel per point.
	PointsPerInch = 72.0

	// DefaultMaxDocumentSize caps fetched documents (50MB).
	DefaultMaxDocumentSize int64 = 50 << 20

	// DefaultJPEGQuality is used when FormatJPEG is selected without a quality.
	DefaultJPEGQuality = 90
)

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// rasterConfig holds internal configuration for Rasterizer.
type rasterConfig struct {
	format      ImageFormat
	jpegQuality int
	workers     int
	maxSize     int64
}

// WithFormat sets the page image encoding.
// Panics on an unknown format (programmer error).
func WithFormat(f ImageFormat) Option {
	if f != FormatPNG && f != FormatJPEG {
		panic("folio: WithFormat requires FormatPNG or FormatJPEG")
	}
	return func(r *Rasterizer) {
		r.cfg.format = f
	}
}

// WithJPEGQuality sets the JPEG quality (1-100). Ignored for PNG.
func WithJPEGQuality(q int) Option {
	if q < 1 || q > 100 {
		panic("folio: WithJPEGQuality must be between 1 and 100")
	}
	return func(r *Rasterizer) {
		r.cfg.jpegQuality = q
	}
}

// WithWorkers enables bounded parallel page rendering.
// 1 (the default) renders strictly sequentially; 0 resolves from GOMAXPROCS.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("folio: WithWorkers must not be negative")
	}
	return func(r *Rasterizer) {
		r.cfg.workers = ResolveWorkers(n)
	}
}

// WithMaxDocumentSize caps how many bytes a fetched document may have.
func WithMaxDocumentSize(n int64) Option {
	if n <= 0 {
		panic("folio: WithMaxDocumentSize must be positive")
	}
	return func(r *Rasterizer) {
		r.cfg.maxSize = n
	}
}

// WithHTTPClient sets the client used for http(s) document URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Rasterizer) {
		r.client = c
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client.
// Rasterize itself has no deadline; wrap the context for that.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("folio: WithTimeout duration must be positive")
	}
	return func(r *Rasterizer) {
		r.client = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger for rasterization progress.
func WithLogger(l logging.Logger) Option {
	return func(r *Rasterizer) {
		if l != nil {
			r.logger = l
		}
	}
}
