package filter

import (
	"github.com/ironsheep/image-dither/internal/raster"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Line draws a one pixel wide line from p0 to p1 inclusive using
// Bresenham's integer algorithm. Points off the buffer are clipped by the
// buffer's write policy.
func Line(b *raster.Buffer, p0, p1 raster.Pos, c raster.Pixel) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror2 := abs(y1-y0) * 2
	error2 := 0
	y := y0
	step := 1
	if y1 < y0 {
		step = -1
	}

	for x := x0; x <= x1; x++ {
		if steep {
			b.SetRGBA(y, x, c)
		} else {
			b.SetRGBA(x, y, c)
		}
		error2 += derror2
		if error2 > dx {
			y += step
			error2 -= dx * 2
		}
	}
}

// Triangle fills the triangle t0, t1, t2 row by row. Degenerate triangles
// with all vertices on one row draw nothing.
func Triangle(b *raster.Buffer, t0, t1, t2 raster.Pos, c raster.Pixel) {
	if t0.Y == t1.Y && t0.Y == t2.Y {
		return
	}
	if t0.Y > t1.Y {
		t0, t1 = t1, t0
	}
	if t0.Y > t2.Y {
		t0, t2 = t2, t0
	}
	if t1.Y > t2.Y {
		t1, t2 = t2, t1
	}

	totalHeight := t2.Y - t0.Y
	for i := 0; i < totalHeight; i++ {
		secondHalf := i > t1.Y-t0.Y || t1.Y == t0.Y
		segmentHeight := t1.Y - t0.Y
		offset := 0
		if secondHalf {
			segmentHeight = t2.Y - t1.Y
			offset = t1.Y - t0.Y
		}
		alpha := float64(i) / float64(totalHeight)
		beta := float64(i-offset) / float64(segmentHeight)

		ax := float64(t0.X) + float64(t2.X-t0.X)*alpha
		var bx float64
		if secondHalf {
			bx = float64(t1.X) + float64(t2.X-t1.X)*beta
		} else {
			bx = float64(t0.X) + float64(t1.X-t0.X)*beta
		}
		if ax > bx {
			ax, bx = bx, ax
		}
		for x := ax; x <= bx; x++ {
			b.SetRGBA(int(x), t0.Y+i, c)
		}
	}
}
