// Package dither reduces continuous-tone buffers to a small palette while
// preserving tonal gradients.
//
// # Error Diffusion
//
// Diffuse scans the destination in raster order. Each pixel is quantised and
// the difference between its accumulated value and the quantised value is
// spread to neighbours further along the scan according to a Kernel. A
// pixel's decision, once made, is never revisited, but its accumulated value
// may collect error from several earlier pixels before its own turn.
//
// # Kernels
//
// Kernels are plain data: a list of (dx, dy, weight) taps over a divisor.
// Every tap must lie strictly ahead of the current pixel in raster order.
//
//   - floyd-steinberg: 4 taps over 16
//   - minimized-average-error (jarvis-judice-ninke): 12 taps over 48
//   - stucki: 12 taps over 42
//   - burkes: 7 taps over 32
//   - sierra3: 10 taps over 32
//   - sierra-lite: 3 taps over 4
//   - atkinson: 6 taps over 8, propagates 6/8 of the error
//
// # Quantisers
//
// A QuantiseFunc maps one pixel to a representable value. Threshold is a
// 1-bit greyscale cut, Levels snaps components to n evenly spaced values and
// Palette picks the nearest color in CIE L*a*b* space.
package dither
