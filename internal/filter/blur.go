package filter

import (
	"fmt"

	"github.com/ironsheep/image-dither/internal/raster"
)

// BoxBlur returns a new buffer where every pixel is the mean of the
// (2*radius+1)² window around it, alpha included.
//
// Window cells outside the image read as transparent black and still count
// towards the mean, so edges darken slightly.
func BoxBlur(src *raster.Buffer, radius int) (*raster.Buffer, error) {
	if radius < 0 {
		return nil, fmt.Errorf("blur radius must be >= 0, got %d", radius)
	}
	dst, err := raster.New(src.Width(), src.Height(), src.Channels())
	if err != nil {
		return nil, err
	}

	side := 2*radius + 1
	denom := float64(side * side)

	err = raster.Visit(src, func(pos raster.Pos, _ raster.Pixel) error {
		var sum raster.Pixel
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				p := src.RGBA(pos.X+dx, pos.Y+dy)
				sum.R += p.R
				sum.G += p.G
				sum.B += p.B
				sum.A += p.A
			}
		}
		dst.SetRGBA(pos.X, pos.Y, raster.Pixel{
			R: sum.R / denom,
			G: sum.G / denom,
			B: sum.B / denom,
			A: sum.A / denom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
