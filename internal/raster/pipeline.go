package raster

import "fmt"

// Generate overwrites every pixel with fn(pos).
func Generate(b *Buffer, fn func(pos Pos) Pixel) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetRGBA(x, y, fn(Pos{x, y}))
		}
	}
}

// MapSample overwrites every pixel with fn(pos, current).
//
// The current value is read immediately before the write at the same
// coordinate. If fn reads other coordinates of b, it sees whatever the scan
// has already written there.
func MapSample(b *Buffer, fn func(pos Pos, p Pixel) Pixel) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetRGBA(x, y, fn(Pos{x, y}, b.RGBA(x, y)))
		}
	}
}

// Visit calls fn for every pixel without modifying b. The first error
// returned by fn stops the scan and is returned as-is.
func Visit(b *Buffer, fn func(pos Pos, p Pixel) error) error {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if err := fn(Pos{x, y}, b.RGBA(x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Transform writes fn(src pixel) into dst for every coordinate of src.
// src and dst may be the same buffer.
func Transform(src, dst *Buffer, fn func(p Pixel) Pixel) error {
	return TransformSample(src, dst, func(_ Pos, p Pixel) Pixel { return fn(p) })
}

// TransformSample writes fn(pos, src pixel) into dst for every coordinate of
// src. src and dst may be the same buffer.
func TransformSample(src, dst *Buffer, fn func(pos Pos, p Pixel) Pixel) error {
	if src.width != dst.width || src.height != dst.height {
		return fmt.Errorf("%w: transform %dx%d into %dx%d", ErrInvalidDimensions,
			src.width, src.height, dst.width, dst.height)
	}
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			dst.SetRGBA(x, y, fn(Pos{x, y}, src.RGBA(x, y)))
		}
	}
	return nil
}
