package folio

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

// pngEncoder trades a little size for speed; pages are re-rendered on demand anyway.
var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// encodeImage encodes img in the requested format.
func encodeImage(img image.Image, format ImageFormat, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if jpegQuality <= 0 {
			jpegQuality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	default:
		if err := pngEncoder.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
