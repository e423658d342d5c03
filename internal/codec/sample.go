package codec

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-dither/internal/raster"
)

// HSLColor is a color in HSL space: hue in degrees, saturation and
// lightness in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorSample describes one pixel of a buffer.
type ColorSample struct {
	Label string `json:"label,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`

	// Hex is "#rrggbb" after 8-bit encoding, alpha excluded.
	Hex string `json:"hex"`

	// Bytes holds the encoded R, G, B, A values.
	Bytes [4]uint8 `json:"bytes"`

	// Value holds the normalized R, G, B, A samples as stored.
	Value raster.Pixel `json:"value"`

	HSL HSLColor `json:"hsl"`
}

// SamplePoint is a coordinate with an optional label.
type SamplePoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// Sample reads the pixel at (x, y). Unlike Buffer.RGBA, coordinates outside
// the buffer are an error.
func Sample(b *raster.Buffer, x, y int) (*ColorSample, error) {
	if !b.In(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	p := b.RGBA(x, y)
	r8, g8, b8, a8 := ToByte(p.R), ToByte(p.G), ToByte(p.B), ToByte(p.A)
	c := colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ColorSample{
		X:     x,
		Y:     y,
		Hex:   c.Hex(),
		Bytes: [4]uint8{r8, g8, b8, a8},
		Value: p,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}

// SampleMany reads every point in order. Any point outside the buffer fails
// the whole call.
func SampleMany(b *raster.Buffer, points []SamplePoint) ([]ColorSample, error) {
	out := make([]ColorSample, 0, len(points))
	for _, pt := range points {
		s, err := Sample(b, pt.X, pt.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", pt.X, pt.Y, err)
		}
		s.Label = pt.Label
		out = append(out, *s)
	}
	return out, nil
}
