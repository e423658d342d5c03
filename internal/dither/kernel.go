package dither

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// ErrInvalidKernel is returned by Kernel.Validate.
var ErrInvalidKernel = errors.New("invalid diffusion kernel")

// Tap is one entry of a diffusion kernel: the share Weight/Divisor of the
// quantization error at (x, y) is added to (x+DX, y+DY).
type Tap struct {
	DX     int     `json:"dx"`
	DY     int     `json:"dy"`
	Weight float64 `json:"weight"`
}

// Kernel is an error diffusion matrix expressed as data.
//
// Weights are numerators over Divisor. Total is the documented sum of the
// numerators; most kernels propagate the whole error (Total == Divisor) but
// some, like Atkinson, deliberately drop part of it.
type Kernel struct {
	Name    string
	Divisor float64
	Total   float64
	Taps    []Tap
}

// Share returns the fraction of the error carried by t.
func (k Kernel) Share(t Tap) float64 {
	return t.Weight / k.Divisor
}

// Validate checks the weight sum and that every tap points strictly ahead
// of the current pixel in raster order.
func (k Kernel) Validate() error {
	if k.Divisor == 0 {
		return fmt.Errorf("%w: %s has zero divisor", ErrInvalidKernel, k.Name)
	}
	if len(k.Taps) == 0 {
		return fmt.Errorf("%w: %s has no taps", ErrInvalidKernel, k.Name)
	}
	var sum float64
	for _, t := range k.Taps {
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return fmt.Errorf("%w: %s tap (%d,%d) is not ahead of the scan",
				ErrInvalidKernel, k.Name, t.DX, t.DY)
		}
		sum += t.Weight
	}
	if sum != k.Total {
		return fmt.Errorf("%w: %s weights sum to %g, want %g", ErrInvalidKernel, k.Name, sum, k.Total)
	}
	return nil
}

var (
	// FloydSteinberg diffuses over four neighbours in sixteenths.
	FloydSteinberg = Kernel{
		Name:    "floyd-steinberg",
		Divisor: 16,
		Total:   16,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 7},
			{DX: -1, DY: +1, Weight: 3},
			{DX: 0, DY: +1, Weight: 5},
			{DX: +1, DY: +1, Weight: 1},
		},
	}

	// MinimizedAverageError is the Jarvis, Judice and Ninke kernel: twelve
	// taps over forty-eighths with a two-row lookahead.
	MinimizedAverageError = Kernel{
		Name:    "minimized-average-error",
		Divisor: 48,
		Total:   48,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 7}, {DX: +2, DY: 0, Weight: 5},
			{DX: -2, DY: +1, Weight: 3}, {DX: -1, DY: +1, Weight: 5}, {DX: 0, DY: +1, Weight: 7},
			{DX: +1, DY: +1, Weight: 5}, {DX: +2, DY: +1, Weight: 3},
			{DX: -2, DY: +2, Weight: 1}, {DX: -1, DY: +2, Weight: 3}, {DX: 0, DY: +2, Weight: 5},
			{DX: +1, DY: +2, Weight: 3}, {DX: +2, DY: +2, Weight: 1},
		},
	}

	Stucki = Kernel{
		Name:    "stucki",
		Divisor: 42,
		Total:   42,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 8}, {DX: +2, DY: 0, Weight: 4},
			{DX: -2, DY: +1, Weight: 2}, {DX: -1, DY: +1, Weight: 4}, {DX: 0, DY: +1, Weight: 8},
			{DX: +1, DY: +1, Weight: 4}, {DX: +2, DY: +1, Weight: 2},
			{DX: -2, DY: +2, Weight: 1}, {DX: -1, DY: +2, Weight: 2}, {DX: 0, DY: +2, Weight: 4},
			{DX: +1, DY: +2, Weight: 2}, {DX: +2, DY: +2, Weight: 1},
		},
	}

	Burkes = Kernel{
		Name:    "burkes",
		Divisor: 32,
		Total:   32,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 8}, {DX: +2, DY: 0, Weight: 4},
			{DX: -2, DY: +1, Weight: 2}, {DX: -1, DY: +1, Weight: 4}, {DX: 0, DY: +1, Weight: 8},
			{DX: +1, DY: +1, Weight: 4}, {DX: +2, DY: +1, Weight: 2},
		},
	}

	Sierra3 = Kernel{
		Name:    "sierra3",
		Divisor: 32,
		Total:   32,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 5}, {DX: +2, DY: 0, Weight: 3},
			{DX: -2, DY: +1, Weight: 2}, {DX: -1, DY: +1, Weight: 4}, {DX: 0, DY: +1, Weight: 5},
			{DX: +1, DY: +1, Weight: 4}, {DX: +2, DY: +1, Weight: 2},
			{DX: -1, DY: +2, Weight: 2}, {DX: 0, DY: +2, Weight: 3}, {DX: +1, DY: +2, Weight: 2},
		},
	}

	SierraLite = Kernel{
		Name:    "sierra-lite",
		Divisor: 4,
		Total:   4,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 2},
			{DX: -1, DY: +1, Weight: 1}, {DX: 0, DY: +1, Weight: 1},
		},
	}

	// Atkinson propagates only 6/8 of the error, which keeps highlights and
	// shadows crisp at the cost of some tonal accuracy.
	Atkinson = Kernel{
		Name:    "atkinson",
		Divisor: 8,
		Total:   6,
		Taps: []Tap{
			{DX: +1, DY: 0, Weight: 1}, {DX: +2, DY: 0, Weight: 1},
			{DX: -1, DY: +1, Weight: 1}, {DX: 0, DY: +1, Weight: 1}, {DX: +1, DY: +1, Weight: 1},
			{DX: 0, DY: +2, Weight: 1},
		},
	}
)

var kernels = map[string]Kernel{
	FloydSteinberg.Name:        FloydSteinberg,
	MinimizedAverageError.Name: MinimizedAverageError,
	"jarvis-judice-ninke":      MinimizedAverageError,
	Stucki.Name:                Stucki,
	Burkes.Name:                Burkes,
	Sierra3.Name:               Sierra3,
	SierraLite.Name:            SierraLite,
	Atkinson.Name:              Atkinson,
}

// DefaultKernel is used when no kernel name is given.
var DefaultKernel = FloydSteinberg

// KernelByName looks up a registered kernel. An empty name returns
// DefaultKernel.
func KernelByName(name string) (Kernel, bool) {
	if name == "" {
		return DefaultKernel, true
	}
	k, ok := kernels[name]
	return k, ok
}

// KernelNames returns all registered kernel names, sorted.
func KernelNames() []string {
	names := lo.Keys(kernels)
	sort.Strings(names)
	return names
}
