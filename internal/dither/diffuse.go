package dither

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-dither/internal/raster"
)

// ErrDimensionMismatch is returned when source and destination differ in
// size or channel count.
var ErrDimensionMismatch = errors.New("source and destination dimensions differ")

// QuantiseFunc maps a pixel to its nearest representable value.
type QuantiseFunc func(p raster.Pixel) raster.Pixel

// Residual is the quantization error, per color component, that the kernel
// pushed past the edges of the image.
type Residual struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Diffuse dithers src into dst using error diffusion.
//
// dst is first overwritten with a copy of src and then scanned in raster
// order. At each pixel the accumulated value p is quantised to q, q is
// written back, and the error p-q is added to every kernel target still
// ahead of the scan. Targets receive contributions from several earlier
// pixels before their own turn comes. Only color components carry error;
// alpha is written as 1.0.
//
// quantise is called exactly once per pixel. Non-finite values returned by
// quantise are stored as-is.
func Diffuse(src, dst *raster.Buffer, quantise QuantiseFunc, kernel Kernel) (Residual, error) {
	var res Residual
	if !src.SameShape(dst) {
		return res, fmt.Errorf("%w: %s vs %s", ErrDimensionMismatch, src, dst)
	}
	if err := kernel.Validate(); err != nil {
		return res, err
	}

	if err := dst.CopyFrom(src); err != nil {
		return res, err
	}

	raster.MapSample(dst, func(pos raster.Pos, p raster.Pixel) raster.Pixel {
		q := quantise(p).Opaque()
		e := p.Sub(q)
		dst.SetRGBA(pos.X, pos.Y, q)

		for _, t := range kernel.Taps {
			x, y := pos.X+t.DX, pos.Y+t.DY
			share := e.Scale(kernel.Share(t))
			if !dst.In(x, y) {
				res.R += share.R
				res.G += share.G
				res.B += share.B
				continue
			}
			dst.SetRGBA(x, y, dst.RGBA(x, y).Add(share).Opaque())
		}
		return q
	})
	return res, nil
}

// Ditherer bundles a kernel and a quantiser.
type Ditherer struct {
	Kernel   Kernel
	Quantise QuantiseFunc
}

// New returns a Ditherer using the Floyd-Steinberg kernel and a 1-bit
// threshold at 0.5.
func New() *Ditherer {
	return &Ditherer{
		Kernel:   DefaultKernel,
		Quantise: Threshold(DefaultThreshold),
	}
}

// Dither allocates a destination with the same shape as src and diffuses
// into it.
func (d *Ditherer) Dither(src *raster.Buffer) (*raster.Buffer, error) {
	dst, err := raster.New(src.Width(), src.Height(), src.Channels())
	if err != nil {
		return nil, err
	}
	if _, err := Diffuse(src, dst, d.Quantise, d.Kernel); err != nil {
		return nil, err
	}
	return dst, nil
}

// QuantiseOnly applies the quantiser to every pixel of src without diffusing
// any error.
func (d *Ditherer) QuantiseOnly(src *raster.Buffer) (*raster.Buffer, error) {
	dst, err := raster.New(src.Width(), src.Height(), src.Channels())
	if err != nil {
		return nil, err
	}
	if err := raster.Transform(src, dst, func(p raster.Pixel) raster.Pixel {
		return d.Quantise(p).Opaque()
	}); err != nil {
		return nil, err
	}
	return dst, nil
}
