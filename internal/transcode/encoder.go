package transcode

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gen2brain/webp"
)

// Encoder writes an image in one target codec.
type Encoder interface {
	Name() string
	// Extension is the canonical file extension, with the leading dot.
	Extension() string
	Encode(w io.Writer, img image.Image, quality int) error
}

// EncoderFor returns the encoder registered for a format name.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "webp", "":
		return WebPEncoder{}, nil
	case "jpeg", "jpg":
		return JPEGEncoder{}, nil
	case "png":
		return PNGEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported target format %q", format)
	}
}

// WebPEncoder produces lossy WebP at the requested quality.
type WebPEncoder struct{}

func (WebPEncoder) Name() string      { return "webp" }
func (WebPEncoder) Extension() string { return ".webp" }

func (WebPEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, webp.Options{Quality: quality})
}

type JPEGEncoder struct{}

func (JPEGEncoder) Name() string      { return "jpeg" }
func (JPEGEncoder) Extension() string { return ".jpg" }

func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// PNGEncoder is lossless; quality selects the compression effort instead.
type PNGEncoder struct{}

func (PNGEncoder) Name() string      { return "png" }
func (PNGEncoder) Extension() string { return ".png" }

func (PNGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	enc := png.Encoder{CompressionLevel: pngCompression(quality)}
	return enc.Encode(w, img)
}

func pngCompression(quality int) png.CompressionLevel {
	switch {
	case quality >= 90:
		return png.BestSpeed
	case quality <= 30:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
