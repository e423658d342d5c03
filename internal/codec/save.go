package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/image-dither/internal/raster"
)

// JPEGQuality is used when saving to .jpg/.jpeg.
const JPEGQuality = 95

// EncoderFor picks an output encoder from the file extension of path.
// Supported extensions are .png, .jpg, .jpeg and .bmp.
func EncoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(JPEGQuality), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", filepath.Ext(path))
	}
}

// Save encodes b and writes it to path.
func Save(path string, b *raster.Buffer) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, ToImage(b), enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodePNG writes b as PNG.
func EncodePNG(w io.Writer, b *raster.Buffer) error {
	if err := imgio.PNGEncoder()(w, ToImage(b)); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
