package folio

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Thumbnail returns a downscaled copy of page no wider than maxWidth,
// keeping the aspect ratio and the page's encoding. Pages already narrow
// enough are returned unchanged.
func Thumbnail(page RasterPage, maxWidth int) (RasterPage, error) {
	if maxWidth <= 0 {
		return RasterPage{}, fmt.Errorf("thumbnail width must be positive, got %d", maxWidth)
	}
	if page.Width <= maxWidth {
		return page, nil
	}

	src, err := page.Decode()
	if err != nil {
		return RasterPage{}, err
	}

	b := src.Bounds()
	height := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	encoded, err := encodeImage(dst, page.Format, DefaultJPEGQuality)
	if err != nil {
		return RasterPage{}, &PageError{Index: page.Index, Stage: ErrEncode, Err: err}
	}

	return RasterPage{
		Index:  page.Index,
		Width:  maxWidth,
		Height: height,
		Format: page.Format,
		Image:  encoded,
	}, nil
}
