// Package filter holds small transforms built on the raster pipeline:
// box blur and line/triangle rasterisation.
package filter
