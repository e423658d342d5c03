// Package raster provides the normalized floating-point pixel buffer and the
// raster-order traversals every transform in this module is built on.
//
// # Pixel Representation
//
// A Buffer stores samples as float64 values nominally in [0,1], where 0 is
// black/transparent and 1 is full intensity/opaque. Values are not clamped
// inside the buffer: error diffusion may push samples outside [0,1] while a
// scan is in progress. Clamping happens only when converting back to 8-bit
// samples in the codec package.
//
// Samples are interleaved and row-major with no padding:
//
//	index(x, y, c) = (y*channels)*width + x*channels + c
//
// # Boundary Policy
//
// Reads outside [0,width)×[0,height) return the zero Pixel (fully transparent
// black) and writes outside the buffer are silently discarded. Kernels that
// reach past an edge therefore need no special casing.
//
// # Channel Layouts
//
//   - 1 channel: grey. RGB/RGBA reads replicate the grey value, writes store R.
//   - 3 channels: RGB. Alpha reads as 1.0, alpha writes are dropped.
//   - 4 channels: RGBA.
//
// # Traversal Order
//
// Generate, MapSample, Visit, Transform and TransformSample always scan
// y in [0,height) in the outer loop and x in [0,width) in the inner loop.
// In-place traversals read the buffer as it is at the moment of the read,
// so a callback that looks at an already-visited coordinate sees the
// overwritten value.
//
// # Thread Safety
//
// Buffers have a single owner. No method is safe for concurrent mutation.
package raster
