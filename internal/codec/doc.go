// Package codec moves pixels between 8-bit storage and normalized buffers.
//
// Decode divides each 8-bit sample by 255; Encode multiplies by 255, clamps
// to [0,255] and truncates. Samples produced by Encode survive a further
// Decode/Encode round trip byte for byte.
//
// File formats are handled by external libraries: decoding goes through
// github.com/disintegration/imaging (PNG, JPEG with EXIF orientation, GIF,
// BMP) and encoding through github.com/anthonynsimon/bild/imgio (PNG, JPEG,
// BMP). Crop and Fit also use imaging and convert back to the channel layout
// of their input.
//
// # Channel Selection
//
// Decoded files keep their natural layout: greyscale images become 1-channel
// buffers, opaque images 3-channel and images with transparency 4-channel.
//
// # Error Handling
//
// Data that cannot be parsed yields *DecodeError. I/O failures such as a
// missing file are wrapped with fmt.Errorf and are not DecodeErrors.
package codec
