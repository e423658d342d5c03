package codec

import (
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // Register BMP format decoder

	"github.com/ironsheep/image-dither/internal/raster"
)

// DecodeImage reads an encoded image (PNG, JPEG, GIF, BMP) and converts it to a
// normalized buffer. EXIF orientation is applied for JPEG input.
//
// Parse failures are returned as *DecodeError.
func DecodeImage(r io.Reader) (*raster.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return FromImage(img)
}

// ChannelsOf picks the channel count for an image: 1 for greyscale types,
// 3 when every pixel is opaque and 4 otherwise.
func ChannelsOf(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		if o.Opaque() {
			return 3
		}
		return 4
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return 4
			}
		}
	}
	return 3
}

// FromImage converts any image.Image to a buffer via 8-bit non-premultiplied
// samples, so the result matches what Decode would give for the same bytes.
func FromImage(img image.Image) (*raster.Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	channels := ChannelsOf(img)

	samples := make([]byte, 0, w*h*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if channels == 1 {
				samples = append(samples, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
				continue
			}
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			samples = append(samples, c.R, c.G, c.B)
			if channels == 4 {
				samples = append(samples, c.A)
			}
		}
	}
	return Decode(samples, w, h, channels)
}

// ToImage encodes b into an 8-bit image: *image.Gray for one channel,
// opaque *image.RGBA for three and *image.NRGBA for four.
func ToImage(b *raster.Buffer) image.Image {
	data := Encode(b)
	rect := image.Rect(0, 0, b.Width(), b.Height())

	switch b.Channels() {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, data)
		return img
	case 3:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i < len(data); i, j = i+3, j+4 {
			img.Pix[j+0] = data[i+0]
			img.Pix[j+1] = data[i+1]
			img.Pix[j+2] = data[i+2]
			img.Pix[j+3] = 0xff
		}
		return img
	default:
		img := image.NewNRGBA(rect)
		copy(img.Pix, data)
		return img
	}
}
