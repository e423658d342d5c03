package filter

import (
	"math"
	"testing"

	"github.com/ironsheep/image-dither/internal/raster"
)

func filled(t *testing.T, width, height, channels int, v float64) *raster.Buffer {
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

func countSet(b *raster.Buffer) int {
	n := 0
	_ = raster.Visit(b, func(_ raster.Pos, p raster.Pixel) error {
		if p.R != 0 {
			n++
		}
		return nil
	})
	return n
}

func TestBoxBlur(t *testing.T) {
	src := filled(t, 3, 3, 1, 1)
	out, err := BoxBlur(src, 1)
	if err != nil {
		t.Fatalf("BoxBlur failed: %v", err)
	}

	tests := []struct {
		x, y int
		want float64
	}{
		{1, 1, 1},
		{0, 0, 4.0 / 9},
		{1, 0, 6.0 / 9},
		{2, 2, 4.0 / 9},
	}
	for _, tt := range tests {
		if r, _, _ := out.RGB(tt.x, tt.y); math.Abs(r-tt.want) > 1e-12 {
			t.Errorf("(%d,%d): got %v, want %v", tt.x, tt.y, r, tt.want)
		}
	}

	if r, _, _ := src.RGB(0, 0); r != 1 {
		t.Error("BoxBlur modified its source")
	}
}

func TestBoxBlur_RadiusZeroIsIdentity(t *testing.T) {
	src := filled(t, 4, 2, 3, 0.3)
	src.SetRGB(2, 1, 0.9, 0.1, 0.5)
	out, err := BoxBlur(src, 0)
	if err != nil {
		t.Fatalf("BoxBlur failed: %v", err)
	}
	for i, v := range out.Samples() {
		if v != src.Samples()[i] {
			t.Fatalf("sample %d: got %v, want %v", i, v, src.Samples()[i])
		}
	}
}

func TestBoxBlur_NegativeRadius(t *testing.T) {
	if _, err := BoxBlur(filled(t, 2, 2, 1, 0), -1); err == nil {
		t.Error("negative radius should fail")
	}
}

func TestLine(t *testing.T) {
	white := raster.Grey(1)
	tests := []struct {
		name   string
		p0, p1 raster.Pos
		want   []raster.Pos
	}{
		{"horizontal", raster.Pos{X: 0, Y: 0}, raster.Pos{X: 3, Y: 0},
			[]raster.Pos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}},
		{"vertical", raster.Pos{X: 1, Y: 3}, raster.Pos{X: 1, Y: 0},
			[]raster.Pos{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}}},
		{"diagonal", raster.Pos{X: 0, Y: 0}, raster.Pos{X: 2, Y: 2},
			[]raster.Pos{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
		{"anti-diagonal", raster.Pos{X: 3, Y: 0}, raster.Pos{X: 0, Y: 3},
			[]raster.Pos{{X: 3, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := filled(t, 4, 4, 1, 0)
			Line(b, tt.p0, tt.p1, white)
			for _, p := range tt.want {
				if r, _, _ := b.RGB(p.X, p.Y); r != 1 {
					t.Errorf("pixel %v not set", p)
				}
			}
			if n := countSet(b); n != len(tt.want) {
				t.Errorf("set %d pixels, want %d", n, len(tt.want))
			}
		})
	}
}

func TestLine_ClipsOffBuffer(t *testing.T) {
	b := filled(t, 3, 3, 1, 0)
	Line(b, raster.Pos{X: -2, Y: 1}, raster.Pos{X: 5, Y: 1}, raster.Grey(1))
	if n := countSet(b); n != 3 {
		t.Errorf("set %d pixels, want 3", n)
	}
}

func TestTriangle(t *testing.T) {
	b := filled(t, 6, 6, 1, 0)
	Triangle(b, raster.Pos{X: 0, Y: 4}, raster.Pos{X: 4, Y: 0}, raster.Pos{X: 0, Y: 0}, raster.Grey(1))

	// Rows 0..3 are filled from x=0 to x=4-y; the bottom vertex row is left open.
	if n := countSet(b); n != 14 {
		t.Errorf("set %d pixels, want 14", n)
	}
	for _, p := range []raster.Pos{{X: 4, Y: 0}, {X: 0, Y: 3}, {X: 1, Y: 3}} {
		if r, _, _ := b.RGB(p.X, p.Y); r != 1 {
			t.Errorf("pixel %v not set", p)
		}
	}
	for _, p := range []raster.Pos{{X: 2, Y: 3}, {X: 0, Y: 4}, {X: 5, Y: 0}} {
		if r, _, _ := b.RGB(p.X, p.Y); r != 0 {
			t.Errorf("pixel %v unexpectedly set", p)
		}
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	b := filled(t, 4, 4, 1, 0)
	Triangle(b, raster.Pos{X: 0, Y: 1}, raster.Pos{X: 2, Y: 1}, raster.Pos{X: 3, Y: 1}, raster.Grey(1))
	if n := countSet(b); n != 0 {
		t.Errorf("degenerate triangle set %d pixels", n)
	}
}
