package shape

import (
	"math"

	"github.com/cwbudde/primify/internal/raster"
)

// RotatedRectangle is a rectangle (stored as two un-rotated corners)
// rotated by Angle radians about its own center.
type RotatedRectangle struct {
	X1, Y1, X2, Y2 int
	Angle          float64 // radians, [0, 2*pi)
	Width, Height  int
}

func (r *RotatedRectangle) Kind() Kind { return KindRotatedRectangle }

func (r *RotatedRectangle) Clone() Shape {
	cp := *r
	return &cp
}

func (r *RotatedRectangle) corners() []point {
	center := point{(float64(r.X1) + float64(r.X2)) / 2, (float64(r.Y1) + float64(r.Y2)) / 2}
	raw := []point{
		{float64(r.X1), float64(r.Y1)},
		{float64(r.X2), float64(r.Y1)},
		{float64(r.X2), float64(r.Y2)},
		{float64(r.X1), float64(r.Y2)},
	}
	out := make([]point, len(raw))
	for i, p := range raw {
		out[i] = rotatePoint(p, center, r.Angle)
	}
	return out
}

func (r *RotatedRectangle) Rasterize() []raster.Scanline {
	return fillPolygon(r.corners(), r.Width, r.Height)
}

func (r *RotatedRectangle) Params() []int {
	return []int{r.X1, r.Y1, r.X2, r.Y2, int(math.Round(r.Angle * 180 / math.Pi))}
}

func (r *RotatedRectangle) SVG(c raster.RGBA) string {
	return svgRect(r.X1, r.Y1, r.X2-r.X1, r.Y2-r.Y1, r.Angle*180/math.Pi, c)
}

func (r *RotatedRectangle) normalize() {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	if r.X2 <= r.X1 {
		r.X2 = r.X1 + 1
	}
	if r.Y2 <= r.Y1 {
		r.Y2 = r.Y1 + 1
	}
	r.X1 = clampI(r.X1, 0, r.Width-1)
	r.Y1 = clampI(r.Y1, 0, r.Height-1)
	r.X2 = clampI(r.X2, r.X1+1, r.Width)
	r.Y2 = clampI(r.Y2, r.Y1+1, r.Height)
	for r.Angle < 0 {
		r.Angle += 2 * math.Pi
	}
	for r.Angle >= 2*math.Pi {
		r.Angle -= 2 * math.Pi
	}
}
