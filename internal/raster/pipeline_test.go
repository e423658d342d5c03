package raster

import (
	"errors"
	"math"
	"testing"
)

func TestGenerate_RasterOrder(t *testing.T) {
	b, _ := New(3, 2, 1)
	var order []Pos
	Generate(b, func(pos Pos) Pixel {
		order = append(order, pos)
		return Grey(float64(pos.Y*10 + pos.X))
	})

	want := []Pos{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(order) != len(want) {
		t.Fatalf("visited %d pixels, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: got %v, want %v", i, order[i], want[i])
		}
	}
	if !samplesEqual(b.Samples(), []float64{0, 1, 2, 10, 11, 12}) {
		t.Errorf("samples: got %v", b.Samples())
	}
}

func TestMapSample_SeesEarlierWrites(t *testing.T) {
	// Each pixel becomes its own value plus the already-written left neighbour,
	// which produces a running sum only if earlier writes are visible.
	b := newTestBuffer(t, 4, 1, 1, 1, 1, 1, 1)
	MapSample(b, func(pos Pos, p Pixel) Pixel {
		left := b.RGBA(pos.X-1, pos.Y)
		return Grey(p.R + left.R)
	})

	want := []float64{1, 2, 3, 4}
	if !samplesEqual(b.Samples(), want) {
		t.Errorf("got %v, want %v", b.Samples(), want)
	}
}

func TestMapSample_PassesPreWriteValue(t *testing.T) {
	b := newTestBuffer(t, 2, 2, 3, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.0, 0.1, 0.2)
	orig := b.Clone()
	MapSample(b, func(pos Pos, p Pixel) Pixel {
		if want := orig.RGBA(pos.X, pos.Y); p != want {
			t.Errorf("%v: got %+v, want %+v", pos, p, want)
		}
		return p.Scale(2)
	})
}

func TestVisit_ReadOnlyAndErrorPropagation(t *testing.T) {
	b := sequentialBuffer(t, 3, 3, 3)
	before := append([]float64(nil), b.Samples()...)

	count := 0
	if err := Visit(b, func(Pos, Pixel) error {
		count++
		return nil
	}); err != nil {
		t.Fatalf("Visit failed: %v", err)
	}
	if count != 9 {
		t.Errorf("visited %d pixels, want 9", count)
	}
	if !samplesEqual(before, b.Samples()) {
		t.Error("Visit modified the buffer")
	}

	sentinel := errors.New("stop")
	count = 0
	err := Visit(b, func(pos Pos, _ Pixel) error {
		count++
		if pos == (Pos{1, 1}) {
			return sentinel
		}
		return nil
	})
	if err != sentinel {
		t.Errorf("expected callback error unmodified, got %v", err)
	}
	if count != 5 {
		t.Errorf("scan continued after error: %d calls", count)
	}
}

func TestTransform_DistinctBuffers(t *testing.T) {
	src := newTestBuffer(t, 2, 1, 3, 0.2, 0.4, 0.6, 0.8, 1.0, 0.0)
	dst, _ := New(2, 1, 3)
	before := append([]float64(nil), src.Samples()...)

	if err := Transform(src, dst, func(p Pixel) Pixel {
		return Pixel{R: 1 - p.R, G: 1 - p.G, B: 1 - p.B, A: p.A}
	}); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if !samplesEqual(before, src.Samples()) {
		t.Error("Transform modified the source")
	}
	want := []float64{0.8, 0.6, 0.4, 0.2, 0, 1}
	for i, v := range dst.Samples() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("sample %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestTransformSample_InPlace(t *testing.T) {
	b := newTestBuffer(t, 2, 2, 1, 0, 0, 0, 0)
	if err := TransformSample(b, b, func(pos Pos, p Pixel) Pixel {
		return Grey(p.R + float64(pos.X+pos.Y))
	}); err != nil {
		t.Fatalf("TransformSample failed: %v", err)
	}
	if !samplesEqual(b.Samples(), []float64{0, 1, 1, 2}) {
		t.Errorf("got %v", b.Samples())
	}
}

func TestTransform_SizeMismatch(t *testing.T) {
	src, _ := New(2, 2, 3)
	dst, _ := New(3, 2, 3)
	err := Transform(src, dst, func(p Pixel) Pixel { return p })
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}
