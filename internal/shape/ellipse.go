package shape

import (
	"math"

	"github.com/cwbudde/primify/internal/raster"
)

// Ellipse is an axis-aligned filled ellipse centered at (X,Y) with
// half-extents RX, RY.
type Ellipse struct {
	X, Y, RX, RY  int
	Width, Height int
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Clone() Shape {
	cp := *e
	return &cp
}

// rasterizeEllipseRows computes, per row, the half-width of an
// axis-aligned ellipse (the per-row form of the midpoint ellipse
// algorithm) and emits one scanline per covered row.
func rasterizeEllipseRows(cx, cy, rx, ry, width, height int) []raster.Scanline {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	fry := float64(ry)
	lines := make([]raster.Scanline, 0, 2*ry+1)
	for y := cy - ry; y <= cy+ry; y++ {
		dy := float64(y-cy) / fry
		t := 1 - dy*dy
		if t < 0 {
			continue
		}
		dx := float64(rx) * math.Sqrt(t)
		x1 := int(math.Round(float64(cx) - dx))
		x2 := int(math.Round(float64(cx)+dx)) + 1
		lines = append(lines, raster.Scanline{Y: y, X1: x1, X2: x2})
	}
	return raster.ClipScanlines(lines, width, height)
}

func (e *Ellipse) Rasterize() []raster.Scanline {
	return rasterizeEllipseRows(e.X, e.Y, e.RX, e.RY, e.Width, e.Height)
}

func (e *Ellipse) Params() []int {
	return []int{e.X, e.Y, e.RX, e.RY}
}

func (e *Ellipse) SVG(c raster.RGBA) string {
	return svgEllipse(e.X, e.Y, e.RX, e.RY, 0, c)
}

func (e *Ellipse) clamp() {
	e.X = clampI(e.X, 0, e.Width-1)
	e.Y = clampI(e.Y, 0, e.Height-1)
	if e.RX < 1 {
		e.RX = 1
	}
	if e.RY < 1 {
		e.RY = 1
	}
}
