package dither

import "github.com/ironsheep/image-dither/internal/raster"

// Rec. 709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luminance returns the weighted grey value of p. Pixels that are already
// grey return their value unchanged; the weights do not sum to exactly 1 in
// floating point.
func Luminance(p raster.Pixel) float64 {
	if p.R == p.G && p.G == p.B {
		return p.R
	}
	return lumaR*p.R + lumaG*p.G + lumaB*p.B
}

// Greyscale replaces every pixel of b with its luminance, in place.
// Alpha is preserved.
func Greyscale(b *raster.Buffer) {
	raster.MapSample(b, func(_ raster.Pos, p raster.Pixel) raster.Pixel {
		g := raster.Grey(Luminance(p))
		g.A = p.A
		return g
	})
}
