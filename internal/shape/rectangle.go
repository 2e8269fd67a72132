package shape

import "github.com/cwbudde/primify/internal/raster"

// Rectangle is an axis-aligned filled rectangle, stored as two corners
// normalized so X1<=X2 and Y1<=Y2 with a minimum extent of 1.
type Rectangle struct {
	X1, Y1, X2, Y2 int
	Width, Height  int // canvas bounds, for mutate clamping
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Clone() Shape {
	cp := *r
	return &cp
}

func (r *Rectangle) Rasterize() []raster.Scanline {
	lines := make([]raster.Scanline, 0, r.Y2-r.Y1)
	for y := r.Y1; y < r.Y2; y++ {
		lines = append(lines, raster.Scanline{Y: y, X1: r.X1, X2: r.X2})
	}
	return raster.ClipScanlines(lines, r.Width, r.Height)
}

func (r *Rectangle) Params() []int {
	return []int{r.X1, r.Y1, r.X2, r.Y2}
}

func (r *Rectangle) SVG(c raster.RGBA) string {
	return svgRect(r.X1, r.Y1, r.X2-r.X1, r.Y2-r.Y1, 0, c)
}

func (r *Rectangle) normalize() {
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
}
