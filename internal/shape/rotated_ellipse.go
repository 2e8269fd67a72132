package shape

import (
	"math"

	"github.com/cwbudde/primify/internal/raster"
)

// RotatedEllipse is an ellipse centered at (X,Y) with half-extents
// RX, RY, rotated by Angle radians.
type RotatedEllipse struct {
	X, Y, RX, RY  int
	Angle         float64
	Width, Height int
}

func (e *RotatedEllipse) Kind() Kind { return KindRotatedEllipse }

func (e *RotatedEllipse) Clone() Shape {
	cp := *e
	return &cp
}

// samplePoints returns the unit-ellipse sample points, scaled and
// rotated about the ellipse's own center, used for the row-min/row-max
// polygon fill.
func (e *RotatedEllipse) samplePoints() []point {
	const segments = 48
	center := point{float64(e.X), float64(e.Y)}
	pts := make([]point, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		unit := point{
			X: float64(e.X) + float64(e.RX)*math.Cos(theta),
			Y: float64(e.Y) + float64(e.RY)*math.Sin(theta),
		}
		pts[i] = rotatePoint(unit, center, e.Angle)
	}
	return pts
}

func (e *RotatedEllipse) Rasterize() []raster.Scanline {
	return fillPolygon(e.samplePoints(), e.Width, e.Height)
}

func (e *RotatedEllipse) Params() []int {
	return []int{e.X, e.Y, e.RX, e.RY, int(math.Round(e.Angle * 180 / math.Pi))}
}

func (e *RotatedEllipse) SVG(c raster.RGBA) string {
	return svgEllipse(e.X, e.Y, e.RX, e.RY, e.Angle*180/math.Pi, c)
}

func (e *RotatedEllipse) clamp() {
	e.X = clampI(e.X, 0, e.Width-1)
	e.Y = clampI(e.Y, 0, e.Height-1)
	if e.RX < 1 {
		e.RX = 1
	}
	if e.RY < 1 {
		e.RY = 1
	}
	for e.Angle < 0 {
		e.Angle += 2 * math.Pi
	}
	for e.Angle >= 2*math.Pi {
		e.Angle -= 2 * math.Pi
	}
}
