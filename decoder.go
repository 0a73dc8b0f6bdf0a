package folio

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// pageDecoder opens a paged document held in memory.
type pageDecoder interface {
	Open(data []byte) (pageSource, error)
}

// pageSource renders individual pages of an opened document.
// A source is used by one goroutine at a time.
type pageSource interface {
	NumPages() int
	// Render rasterizes page index at dpi. The returned image is owned by the caller.
	Render(index int, dpi float64) (image.Image, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ pageDecoder = fitzDecoder{}
	_ pageSource  = (*fitzSource)(nil)
)

// fitzDecoder decodes PDF (and the other formats MuPDF understands) via go-fitz.
type fitzDecoder struct{}

func (fitzDecoder) Open(data []byte) (pageSource, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &fitzSource{doc: doc}, nil
}

type fitzSource struct {
	doc *fitz.Document
}

func (s *fitzSource) NumPages() int {
	return s.doc.NumPage()
}

// Render draws the page into an RGBA pixmap sized from the page's own bounds,
// so pages of different physical sizes keep the same pixels-per-point.
func (s *fitzSource) Render(index int, dpi float64) (image.Image, error) {
	img, err := s.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *fitzSource) Close() error {
	return s.doc.Close()
}

// dpiForScale converts a rendering multiplier into MuPDF's dots-per-inch.
func dpiForScale(scale float64) float64 {
	return PointsPerInch * scale
}
