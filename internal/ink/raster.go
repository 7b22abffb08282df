package ink

import (
	"image"
	"math"
)

// segmentMask rasterises a round-capped segment from a to b into an alpha mask
// covering only the affected pixels inside bounds. It returns nil when the
// segment lies entirely outside bounds.
func segmentMask(bounds image.Rectangle, a, b image.Point, width float64) *image.Alpha {
	r := width / 2
	if r < 0.5 {
		r = 0.5
	}
	ri := int(math.Ceil(r))

	a, b, ok := clipSegment(bounds.Inset(-ri-1), a, b)
	if !ok {
		return nil
	}
	area := image.Rectangle{
		Min: image.Pt(min(a.X, b.X)-ri, min(a.Y, b.Y)-ri),
		Max: image.Pt(max(a.X, b.X)+ri+1, max(a.Y, b.Y)+ri+1),
	}.Intersect(bounds)
	if area.Empty() {
		return nil
	}
	mask := image.NewAlpha(area)

	// Bresenham walk, stamping a filled disc at every step.
	x0, y0 := a.X, a.Y
	dx := abs(b.X - x0)
	dy := -abs(b.Y - y0)
	sx, sy := 1, 1
	if x0 > b.X {
		sx = -1
	}
	if y0 > b.Y {
		sy = -1
	}
	e := dx + dy
	for {
		stampDisc(mask, x0, y0, r, ri)
		if x0 == b.X && y0 == b.Y {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
	return mask
}

// clipSegment clips a-b to r with Liang-Barsky. ok is false when no part of
// the segment lies inside r.
func clipSegment(r image.Rectangle, a, b image.Point) (image.Point, image.Point, bool) {
	x0, y0 := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(r.Min.X)},
		{dx, float64(r.Max.X-1) - x0},
		{-dy, y0 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y-1) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	at := func(t float64) image.Point {
		return image.Pt(int(math.Round(x0+t*dx)), int(math.Round(y0+t*dy)))
	}
	return at(t0), at(t1), true
}

func stampDisc(mask *image.Alpha, cx, cy int, r float64, ri int) {
	rr := r * r
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) > rr {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if !p.In(mask.Rect) {
				continue
			}
			mask.Pix[mask.PixOffset(p.X, p.Y)] = 0xff
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
