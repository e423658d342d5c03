package dither

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-dither/internal/raster"
)

// DefaultThreshold is the cut-off of the default 1-bit quantiser.
const DefaultThreshold = 0.5

// Threshold returns a 1-bit greyscale quantiser: values of R at or above t
// become white, everything else black. Feed it greyscale pixels.
func Threshold(t float64) QuantiseFunc {
	return func(p raster.Pixel) raster.Pixel {
		if p.R < t {
			return raster.Grey(0)
		}
		return raster.Grey(1)
	}
}

// Levels returns a quantiser that snaps each color component to one of n
// evenly spaced values in [0,1].
func Levels(n int) (QuantiseFunc, error) {
	if n < 2 {
		return nil, fmt.Errorf("levels must be at least 2, got %d", n)
	}
	steps := float64(n - 1)
	snap := func(v float64) float64 {
		v = math.Round(v*steps) / steps
		return math.Max(0, math.Min(1, v))
	}
	return func(p raster.Pixel) raster.Pixel {
		return raster.Pixel{R: snap(p.R), G: snap(p.G), B: snap(p.B), A: 1}
	}, nil
}

// Palette is a fixed set of output colors.
type Palette []colorful.Color

// ParsePalette builds a palette from "#RRGGBB" strings.
func ParsePalette(hex []string) (Palette, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	p := make(Palette, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", h, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// Quantiser returns a quantiser mapping every pixel to the perceptually
// nearest palette entry, measured as distance in CIE L*a*b*. Components are
// clamped to [0,1] before the lookup since accumulated error may push them
// out of gamut.
func (pal Palette) Quantiser() QuantiseFunc {
	return func(p raster.Pixel) raster.Pixel {
		c := colorful.Color{R: p.R, G: p.G, B: p.B}.Clamped()
		best := pal[0]
		bestDist := math.Inf(1)
		for _, entry := range pal {
			if d := c.DistanceLab(entry); d < bestDist {
				best, bestDist = entry, d
			}
		}
		return raster.Pixel{R: best.R, G: best.G, B: best.B, A: 1}
	}
}
