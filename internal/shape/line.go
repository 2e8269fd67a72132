package shape

import "github.com/cwbudde/primify/internal/raster"

// Line is a single-pixel-wide stroked line segment.
type Line struct {
	X1, Y1, X2, Y2 int
	Width, Height  int
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Clone() Shape {
	cp := *l
	return &cp
}

func (l *Line) Rasterize() []raster.Scanline {
	return strokeSegment(l.X1, l.Y1, l.X2, l.Y2, l.Width, l.Height)
}

func (l *Line) Params() []int {
	return []int{l.X1, l.Y1, l.X2, l.Y2}
}

func (l *Line) SVG(c raster.RGBA) string {
	return svgLine(l.X1, l.Y1, l.X2, l.Y2, c)
}

func (l *Line) clampEndpoints() {
	l.X1 = clampI(l.X1, 0, l.Width-1)
	l.X2 = clampI(l.X2, 0, l.Width-1)
	l.Y1 = clampI(l.Y1, 0, l.Height-1)
	l.Y2 = clampI(l.Y2, 0, l.Height-1)
}
