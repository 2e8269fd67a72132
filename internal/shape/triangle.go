package shape

import "github.com/cwbudde/primify/internal/raster"

// Triangle is a filled triangle given by three vertices.
type Triangle struct {
	X1, Y1, X2, Y2, X3, Y3 int
	Width, Height          int
}

func (t *Triangle) Kind() Kind { return KindTriangle }

func (t *Triangle) Clone() Shape {
	cp := *t
	return &cp
}

func (t *Triangle) Rasterize() []raster.Scanline {
	pts := []point{
		{float64(t.X1), float64(t.Y1)},
		{float64(t.X2), float64(t.Y2)},
		{float64(t.X3), float64(t.Y3)},
	}
	return fillPolygon(pts, t.Width, t.Height)
}

func (t *Triangle) Params() []int {
	return []int{t.X1, t.Y1, t.X2, t.Y2, t.X3, t.Y3}
}

func (t *Triangle) SVG(c raster.RGBA) string {
	pts := []point{
		{float64(t.X1), float64(t.Y1)},
		{float64(t.X2), float64(t.Y2)},
		{float64(t.X3), float64(t.Y3)},
	}
	return svgPolygon(pts, c)
}

func (t *Triangle) clampVertices() {
	t.X1 = clampI(t.X1, 0, t.Width-1)
	t.X2 = clampI(t.X2, 0, t.Width-1)
	t.X3 = clampI(t.X3, 0, t.Width-1)
	t.Y1 = clampI(t.Y1, 0, t.Height-1)
	t.Y2 = clampI(t.Y2, 0, t.Height-1)
	t.Y3 = clampI(t.Y3, 0, t.Height-1)
}
