package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when a buffer is created with a
	// non-positive size or an unsupported channel count.
	ErrInvalidDimensions = errors.New("invalid buffer dimensions")

	// ErrDivideByZero is returned by Normalize when the buffer maximum is 0.
	ErrDivideByZero = errors.New("normalize: maximum sample is zero")
)

// Pixel is a normalized RGBA color. Components are not clamped.
type Pixel struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Grey returns an opaque pixel with all color components set to v.
func Grey(v float64) Pixel {
	return Pixel{R: v, G: v, B: v, A: 1}
}

// Add returns p + q on the color components, keeping p's alpha.
func (p Pixel) Add(q Pixel) Pixel {
	return Pixel{R: p.R + q.R, G: p.G + q.G, B: p.B + q.B, A: p.A}
}

// Sub returns p - q on the color components, keeping p's alpha.
func (p Pixel) Sub(q Pixel) Pixel {
	return Pixel{R: p.R - q.R, G: p.G - q.G, B: p.B - q.B, A: p.A}
}

// Scale multiplies the color components by k, keeping alpha.
func (p Pixel) Scale(k float64) Pixel {
	return Pixel{R: p.R * k, G: p.G * k, B: p.B * k, A: p.A}
}

// Opaque returns p with alpha forced to 1.
func (p Pixel) Opaque() Pixel {
	p.A = 1
	return p
}

// Pos is a pixel coordinate. (0,0) is the top-left corner.
type Pos struct {
	X, Y int
}

// Buffer owns a contiguous block of normalized samples.
type Buffer struct {
	width    int
	height   int
	channels int
	pix      []float64
}

// New allocates a zeroed buffer.
//
// Width and height must be positive and channels must be 1, 3 or 4.
func New(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !ValidChannels(channels) {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidDimensions, channels)
	}
	return &Buffer{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]float64, width*height*channels),
	}, nil
}

// FromSamples wraps an existing sample slice. The slice is owned by the
// returned buffer afterwards.
func FromSamples(width, height, channels int, samples []float64) (*Buffer, error) {
	b, err := New(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(samples) != len(b.pix) {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidDimensions,
			len(samples), width, height, channels)
	}
	b.pix = samples
	return b, nil
}

// ValidChannels reports whether n is a supported channel count.
func ValidChannels(n int) bool {
	return n == 1 || n == 3 || n == 4
}

func (b *Buffer) Width() int    { return b.width }
func (b *Buffer) Height() int   { return b.height }
func (b *Buffer) Channels() int { return b.channels }

// Len is the number of samples (width*height*channels).
func (b *Buffer) Len() int { return len(b.pix) }

// Samples exposes the underlying storage in index order. Callers must not
// retain it past the buffer owner's scope.
func (b *Buffer) Samples() []float64 { return b.pix }

// SameShape reports whether o has the same width, height and channel count.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.width == o.width && b.height == o.height && b.channels == o.channels
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.pix = make([]float64, len(b.pix))
	copy(c.pix, b.pix)
	return &c
}

// CopyFrom overwrites b with the samples of src. Shapes must match.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if !b.SameShape(src) {
		return fmt.Errorf("%w: %s vs %s", ErrInvalidDimensions, b, src)
	}
	copy(b.pix, src.pix)
	return nil
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.channels)*b.width + x*b.channels
}

// Get returns a copy of the samples at (x, y), one per channel.
// Out of bounds it returns all zeros.
func (b *Buffer) Get(x, y int) []float64 {
	out := make([]float64, b.channels)
	if !b.In(x, y) {
		return out
	}
	i := b.offset(x, y)
	copy(out, b.pix[i:i+b.channels])
	return out
}

// Set writes up to Channels() samples at (x, y). Out of bounds is a no-op.
func (b *Buffer) Set(x, y int, samples []float64) {
	if !b.In(x, y) {
		return
	}
	i := b.offset(x, y)
	copy(b.pix[i:i+b.channels], samples)
}

// RGB returns the color components at (x, y).
func (b *Buffer) RGB(x, y int) (r, g, bl float64) {
	p := b.RGBA(x, y)
	return p.R, p.G, p.B
}

// RGBA returns the pixel at (x, y). Buffers without an alpha channel read as
// opaque. Out of bounds returns the zero Pixel.
func (b *Buffer) RGBA(x, y int) Pixel {
	if !b.In(x, y) {
		return Pixel{}
	}
	i := b.offset(x, y)
	switch b.channels {
	case 1:
		return Grey(b.pix[i])
	case 3:
		return Pixel{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: 1}
	default:
		return Pixel{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
	}
}

// SetRGB writes the color components at (x, y), leaving alpha untouched.
func (b *Buffer) SetRGB(x, y int, r, g, bl float64) {
	if !b.In(x, y) {
		return
	}
	i := b.offset(x, y)
	if b.channels == 1 {
		b.pix[i] = r
		return
	}
	b.pix[i] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
}

// SetRGBA writes p at (x, y). Alpha is dropped unless the buffer has four
// channels.
func (b *Buffer) SetRGBA(x, y int, p Pixel) {
	if !b.In(x, y) {
		return
	}
	b.SetRGB(x, y, p.R, p.G, p.B)
	if b.channels == 4 {
		b.pix[b.offset(x, y)+3] = p.A
	}
}

// FlipVertical mirrors the buffer top to bottom in place.
func (b *Buffer) FlipVertical() {
	row := b.width * b.channels
	tmp := make([]float64, row)
	for y := 0; y < b.height/2; y++ {
		top := b.pix[y*row : (y+1)*row]
		bottom := b.pix[(b.height-1-y)*row : (b.height-y)*row]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// FlipHorizontal mirrors the buffer left to right in place.
func (b *Buffer) FlipHorizontal() {
	c := b.channels
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width/2; x++ {
			l := b.offset(x, y)
			r := b.offset(b.width-1-x, y)
			for k := 0; k < c; k++ {
				b.pix[l+k], b.pix[r+k] = b.pix[r+k], b.pix[l+k]
			}
		}
	}
}

// Max returns the largest sample in the buffer.
func (b *Buffer) Max() float64 {
	m := b.pix[0]
	for _, v := range b.pix[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Normalize divides every sample by the buffer-wide maximum.
//
// Returns ErrDivideByZero when the maximum is exactly 0, leaving the buffer
// unchanged.
func (b *Buffer) Normalize() error {
	if len(b.pix) == 0 {
		return ErrDivideByZero
	}
	m := b.Max()
	if m == 0 {
		return ErrDivideByZero
	}
	for i, v := range b.pix {
		b.pix[i] = v / m
	}
	return nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("raster.Buffer{width: %d, height: %d, channels: %d, size: %d}",
		b.width, b.height, b.channels, len(b.pix))
}
