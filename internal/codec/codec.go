package codec

import (
	"fmt"

	"github.com/ironsheep/image-dither/internal/raster"
)

// DecodeError reports source data that could not be turned into a buffer.
// It is fatal for the operation; nothing is retried.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode converts interleaved 8-bit samples (row-major, no padding) into a
// normalized buffer, dividing every sample by 255.
func Decode(samples []byte, width, height, channels int) (*raster.Buffer, error) {
	pix := make([]float64, len(samples))
	for i, s := range samples {
		pix[i] = float64(s) / 255.0
	}
	b, err := raster.FromSamples(width, height, channels, pix)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return b, nil
}

// Encode converts a buffer back to interleaved 8-bit samples. Each sample is
// multiplied by 255, clamped to [0,255] and truncated. The clamp matters:
// dithering leaves values outside [0,1] in intermediate buffers.
func Encode(b *raster.Buffer) []byte {
	out := make([]byte, b.Len())
	for i, v := range b.Samples() {
		out[i] = ToByte(v)
	}
	return out
}

// ToByte applies the 8-bit conversion rule of Encode to a single sample.
func ToByte(v float64) byte {
	v *= 255.0
	// NaN fails both comparisons and lands on 0.
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
