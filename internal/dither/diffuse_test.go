package dither

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/image-dither/internal/raster"
)

const tolerance = 1e-9

func greyBuffer(t *testing.T, width, height int, samples ...float64) *raster.Buffer {
	t.Helper()
	b, err := raster.FromSamples(width, height, 1, samples)
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}
	return b
}

func constantBuffer(t *testing.T, width, height, channels int, v float64) *raster.Buffer {
	t.Helper()
	b, err := raster.New(width, height, channels)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := range b.Samples() {
		b.Samples()[i] = v
	}
	return b
}

func sum(b *raster.Buffer) float64 {
	var s float64
	for _, v := range b.Samples() {
		s += v
	}
	return s
}

// cutAtHalf is the "≥0.5 → 1.0 else 0.0" quantiser.
var cutAtHalf = Threshold(0.5)

func TestDiffuse_TwoByTwoScenario(t *testing.T) {
	src := greyBuffer(t, 2, 2, 0.6, 0.4, 0.6, 0.4)
	dst, _ := raster.New(2, 2, 1)

	var seen []float64
	record := func(p raster.Pixel) raster.Pixel {
		seen = append(seen, p.R)
		return cutAtHalf(p)
	}

	res, err := Diffuse(src, dst, record, FloydSteinberg)
	if err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}

	// (0,0): 0.6 -> 1, err -0.4; (1,0) gets -0.4*7/16, (0,1) -0.4*5/16, (1,1) -0.4*1/16.
	// (1,0): 0.225 -> 0, err 0.225; (0,1) gets 0.225*3/16, (1,1) 0.225*5/16.
	// (0,1): 0.5171875 -> 1, err -0.4828125; (1,1) gets -0.4828125*7/16.
	// (1,1): 0.23408203125 -> 0.
	wantSeen := []float64{0.6, 0.225, 0.5171875, 0.23408203125}
	if diff := cmp.Diff(wantSeen, seen, cmpopts.EquateApprox(0, tolerance)); diff != "" {
		t.Errorf("pre-quantisation values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 0, 1, 0}, dst.Samples()); diff != "" {
		t.Errorf("dithered samples mismatch (-want +got):\n%s", diff)
	}

	// Every sample lies in [0,1] and the inputs sum to 2, so the error that
	// fell off the edges must cancel out.
	if math.Abs(res.R) > tolerance {
		t.Errorf("residual: got %v, want 0", res.R)
	}
}

func TestDiffuse_SourceUntouched(t *testing.T) {
	src := greyBuffer(t, 3, 1, 0.3, 0.3, 0.3)
	before := append([]float64(nil), src.Samples()...)
	dst, _ := raster.New(3, 1, 1)

	if _, err := Diffuse(src, dst, cutAtHalf, FloydSteinberg); err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}
	for i, v := range src.Samples() {
		if v != before[i] {
			t.Fatalf("source modified at %d: %v", i, src.Samples())
		}
	}
	// 0.3 -> 0 (err 0.3); 0.3+0.13125=0.43125 -> 0 (err 0.43125); 0.3+0.18867 -> 0.
	for i, v := range dst.Samples() {
		if v != 0 {
			t.Errorf("sample %d: got %v, want 0", i, v)
		}
	}
}

func TestDiffuse_ErrorConservation(t *testing.T) {
	kernels := []Kernel{FloydSteinberg, MinimizedAverageError, Stucki, Burkes, Sierra3, SierraLite}
	for _, k := range kernels {
		t.Run(k.Name, func(t *testing.T) {
			src := constantBuffer(t, 4, 4, 1, 0.5)
			dst, _ := raster.New(4, 4, 1)

			res, err := Diffuse(src, dst, cutAtHalf, k)
			if err != nil {
				t.Fatalf("Diffuse failed: %v", err)
			}

			drift := sum(dst) - sum(src) + res.R
			if math.Abs(drift) > tolerance {
				t.Errorf("Σ(dst-src) + residual = %v, want 0", drift)
			}
		})
	}
}

func TestDiffuse_ErrorConservationRGB(t *testing.T) {
	src, _ := raster.New(5, 3, 3)
	raster.Generate(src, func(pos raster.Pos) raster.Pixel {
		return raster.Pixel{R: float64(pos.X) / 5, G: float64(pos.Y) / 3, B: 0.42, A: 1}
	})
	dst, _ := raster.New(5, 3, 3)
	q, err := Levels(2)
	if err != nil {
		t.Fatalf("Levels failed: %v", err)
	}

	res, err := Diffuse(src, dst, q, FloydSteinberg)
	if err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}

	var dr, dg, db float64
	_ = raster.Visit(dst, func(pos raster.Pos, p raster.Pixel) error {
		s := src.RGBA(pos.X, pos.Y)
		dr += p.R - s.R
		dg += p.G - s.G
		db += p.B - s.B
		return nil
	})
	for _, c := range []struct {
		name       string
		drift, res float64
	}{{"R", dr, res.R}, {"G", dg, res.G}, {"B", db, res.B}} {
		if math.Abs(c.drift+c.res) > tolerance {
			t.Errorf("%s: drift %v + residual %v != 0", c.name, c.drift, c.res)
		}
	}
}

func TestDiffuse_AtkinsonDropsError(t *testing.T) {
	src := constantBuffer(t, 4, 4, 1, 0.5)
	dst, _ := raster.New(4, 4, 1)

	res, err := Diffuse(src, dst, cutAtHalf, Atkinson)
	if err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}
	// (0,0) 0.5 -> 1 loses 2/8 of its -0.5 error, so conservation cannot hold.
	if drift := sum(dst) - sum(src) + res.R; math.Abs(drift) < tolerance {
		t.Error("expected Atkinson to lose part of the error")
	}
}

func TestDiffuse_Determinism(t *testing.T) {
	src, _ := raster.New(7, 5, 3)
	raster.Generate(src, func(pos raster.Pos) raster.Pixel {
		return raster.Pixel{R: float64(pos.X*pos.Y) / 24, G: 0.37, B: float64(pos.X) / 7, A: 1}
	})

	a, _ := raster.New(7, 5, 3)
	b, _ := raster.New(7, 5, 3)
	greyLevels, _ := Levels(4)
	if _, err := Diffuse(src, a, greyLevels, MinimizedAverageError); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := Diffuse(src, b, greyLevels, MinimizedAverageError); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for i := range a.Samples() {
		if a.Samples()[i] != b.Samples()[i] {
			t.Fatalf("runs differ at sample %d: %v vs %v", i, a.Samples()[i], b.Samples()[i])
		}
	}
}

func TestDiffuse_DestinationOverwritten(t *testing.T) {
	src := greyBuffer(t, 2, 1, 0.9, 0.9)
	dst := greyBuffer(t, 2, 1, 0.0, 0.0)

	if _, err := Diffuse(src, dst, cutAtHalf, FloydSteinberg); err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}
	// 0.9 -> 1, err -0.1; 0.9-0.04375 = 0.85625 -> 1.
	for i, v := range dst.Samples() {
		if v != 1 {
			t.Errorf("sample %d: got %v, want 1", i, v)
		}
	}
}

func TestDiffuse_AlphaForcedOpaque(t *testing.T) {
	src, _ := raster.New(3, 3, 4)
	raster.Generate(src, func(raster.Pos) raster.Pixel {
		return raster.Pixel{R: 0.4, G: 0.4, B: 0.4, A: 0.2}
	})
	dst, _ := raster.New(3, 3, 4)

	if _, err := Diffuse(src, dst, cutAtHalf, FloydSteinberg); err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}
	_ = raster.Visit(dst, func(pos raster.Pos, p raster.Pixel) error {
		if p.A != 1 {
			t.Errorf("%v: alpha %v, want 1", pos, p.A)
		}
		return nil
	})
}

func TestDiffuse_NonFinitePropagates(t *testing.T) {
	src := greyBuffer(t, 2, 1, 0.5, 0.5)
	dst, _ := raster.New(2, 1, 1)
	nan := func(raster.Pixel) raster.Pixel { return raster.Grey(math.NaN()) }

	if _, err := Diffuse(src, dst, nan, FloydSteinberg); err != nil {
		t.Fatalf("Diffuse failed: %v", err)
	}
	for i, v := range dst.Samples() {
		if !math.IsNaN(v) {
			t.Errorf("sample %d: got %v, want NaN", i, v)
		}
	}
}

func TestDiffuse_Errors(t *testing.T) {
	src, _ := raster.New(2, 2, 1)
	wide, _ := raster.New(3, 2, 1)
	if _, err := Diffuse(src, wide, cutAtHalf, FloydSteinberg); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	rgb, _ := raster.New(2, 2, 3)
	if _, err := Diffuse(src, rgb, cutAtHalf, FloydSteinberg); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("channel mismatch: expected ErrDimensionMismatch, got %v", err)
	}

	dst, _ := raster.New(2, 2, 1)
	if _, err := Diffuse(src, dst, cutAtHalf, Kernel{Name: "empty", Divisor: 1}); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("expected ErrInvalidKernel, got %v", err)
	}
}

func TestDitherer_Dither(t *testing.T) {
	src := constantBuffer(t, 8, 8, 1, 0.25)
	out, err := New().Dither(src)
	if err != nil {
		t.Fatalf("Dither failed: %v", err)
	}
	if !out.SameShape(src) {
		t.Fatalf("shape changed: %s", out)
	}

	white := 0
	for _, v := range out.Samples() {
		switch v {
		case 1:
			white++
		case 0:
		default:
			t.Fatalf("non-binary sample %v", v)
		}
	}
	// A quarter-grey field should come out roughly a quarter white.
	if white < 12 || white > 20 {
		t.Errorf("white pixels: got %d of 64, want about 16", white)
	}
}

func TestDitherer_QuantiseOnly(t *testing.T) {
	src := greyBuffer(t, 4, 1, 0.1, 0.49, 0.5, 0.9)
	out, err := New().QuantiseOnly(src)
	if err != nil {
		t.Fatalf("QuantiseOnly failed: %v", err)
	}
	want := []float64{0, 0, 1, 1}
	for i, v := range out.Samples() {
		if v != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, v, want[i])
		}
	}
}
