// Package sink writes single-channel 8-bit samples to a byte stream.
//
// The stream carries nothing but the samples in raster order: no header,
// no framing and no acknowledgment. Optionally the stream is compressed with
// zstd, in which case the reader must decompress before interpreting it.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/image-dither/internal/codec"
	"github.com/ironsheep/image-dither/internal/raster"
)

// Compression selects the stream encoding.
type Compression int

const (
	None Compression = iota
	Zstd
)

// ParseCompression maps "", "none" and "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("unknown compression: %s", s)
	}
}

func (c Compression) String() string {
	if c == Zstd {
		return "zstd"
	}
	return "none"
}

// Write streams one byte per pixel of b to w. The byte is taken from the R
// component, so colour buffers should be converted to greyscale first.
func Write(w io.Writer, b *raster.Buffer, c Compression) error {
	var zw *zstd.Encoder
	if c == Zstd {
		var err error
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = zw
	}

	bw := bufio.NewWriter(w)
	err := raster.Visit(b, func(_ raster.Pos, p raster.Pixel) error {
		return bw.WriteByte(codec.ToByte(p.R))
	})
	if err == nil {
		err = bw.Flush()
	}
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

// WriteFile writes the stream for b to a new file at path.
func WriteFile(path string, b *raster.Buffer, c Compression) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, b, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Bytes returns what Write would produce without compression.
func Bytes(b *raster.Buffer) []byte {
	out := make([]byte, 0, b.Width()*b.Height())
	_ = raster.Visit(b, func(_ raster.Pos, p raster.Pixel) error {
		out = append(out, codec.ToByte(p.R))
		return nil
	})
	return out
}
