package shape

import "github.com/cwbudde/primify/internal/raster"

// QuadraticBezier is a stroked quadratic Bézier curve with control point
// (CX,CY) and endpoints (X1,Y1), (X2,Y2).
type QuadraticBezier struct {
	CX, CY, X1, Y1, X2, Y2 int
	Width, Height          int
}

func (q *QuadraticBezier) Kind() Kind { return KindQuadraticBezier }

func (q *QuadraticBezier) Clone() Shape {
	cp := *q
	return &cp
}

const bezierChordErrorPixels = 0.5

func (q *QuadraticBezier) flattened() []point {
	p0 := point{float64(q.X1), float64(q.Y1)}
	c := point{float64(q.CX), float64(q.CY)}
	p1 := point{float64(q.X2), float64(q.Y2)}
	return flattenQuadratic(p0, c, p1, bezierChordErrorPixels)
}

func (q *QuadraticBezier) Rasterize() []raster.Scanline {
	return strokePolyline(q.flattened(), q.Width, q.Height)
}

func (q *QuadraticBezier) Params() []int {
	return []int{q.CX, q.CY, q.X1, q.Y1, q.X2, q.Y2}
}

func (q *QuadraticBezier) SVG(c raster.RGBA) string {
	d := svgQuadPath(q.X1, q.Y1, q.CX, q.CY, q.X2, q.Y2)
	return svgPath(d, c)
}

func (q *QuadraticBezier) clampPoints() {
	q.CX = clampI(q.CX, 0, q.Width-1)
	q.X1 = clampI(q.X1, 0, q.Width-1)
	q.X2 = clampI(q.X2, 0, q.Width-1)
	q.CY = clampI(q.CY, 0, q.Height-1)
	q.Y1 = clampI(q.Y1, 0, q.Height-1)
	q.Y2 = clampI(q.Y2, 0, q.Height-1)
}
