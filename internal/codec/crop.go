package codec

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-dither/internal/raster"
)

// Crop extracts the region (x1,y1)-(x2,y2), with x2/y2 exclusive.
func Crop(b *raster.Buffer, x1, y1, x2, y2 int) (*raster.Buffer, error) {
	if x1 < 0 || y1 < 0 || x2 > b.Width() || y2 > b.Height() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, b.Width(), b.Height())
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(ToImage(b), image.Rect(x1, y1, x2, y2))
	return fromResampled(cropped, b.Channels())
}

// CropQuadrant extracts a named region: top-left, top-right, bottom-left,
// bottom-right, top-half, bottom-half, left-half, right-half or center.
func CropQuadrant(b *raster.Buffer, region string) (*raster.Buffer, error) {
	w, h := b.Width(), b.Height()
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}
	return Crop(b, x1, y1, x2, y2)
}

// Fit scales b down with a Lanczos filter so it fits inside maxWidth x
// maxHeight, keeping the aspect ratio. A zero limit leaves that axis
// unconstrained. Buffers that already fit are returned unchanged.
func Fit(b *raster.Buffer, maxWidth, maxHeight int) (*raster.Buffer, error) {
	if maxWidth < 0 || maxHeight < 0 {
		return nil, fmt.Errorf("invalid size limit %dx%d", maxWidth, maxHeight)
	}
	if maxWidth == 0 {
		maxWidth = b.Width()
	}
	if maxHeight == 0 {
		maxHeight = b.Height()
	}
	if b.Width() <= maxWidth && b.Height() <= maxHeight {
		return b, nil
	}

	resized := imaging.Fit(ToImage(b), maxWidth, maxHeight, imaging.Lanczos)
	return fromResampled(resized, b.Channels())
}

// fromResampled converts imaging's NRGBA output back to the channel layout
// of the buffer it came from.
func fromResampled(img image.Image, channels int) (*raster.Buffer, error) {
	tmp, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	if tmp.Channels() == channels {
		return tmp, nil
	}
	out, err := raster.New(tmp.Width(), tmp.Height(), channels)
	if err != nil {
		return nil, err
	}
	if err := raster.Transform(tmp, out, func(p raster.Pixel) raster.Pixel { return p }); err != nil {
		return nil, err
	}
	return out, nil
}
