package shape

import "github.com/cwbudde/primify/internal/raster"

// maxPolylinePoints bounds the number of points a Polyline may carry,
// per spec (k <= 16 typical).
const maxPolylinePoints = 16

// Polyline is a stroked open path through 2..maxPolylinePoints points.
type Polyline struct {
	Points        []int // flat x,y pairs, even length >= 4
	Width, Height int
}

func (p *Polyline) Kind() Kind { return KindPolyline }

func (p *Polyline) Clone() Shape {
	cp := *p
	cp.Points = append([]int(nil), p.Points...)
	return &cp
}

func (p *Polyline) pointCount() int { return len(p.Points) / 2 }

func (p *Polyline) toPoints() []point {
	pts := make([]point, p.pointCount())
	for i := range pts {
		pts[i] = point{float64(p.Points[2*i]), float64(p.Points[2*i+1])}
	}
	return pts
}

func (p *Polyline) Rasterize() []raster.Scanline {
	return strokePolyline(p.toPoints(), p.Width, p.Height)
}

func (p *Polyline) Params() []int {
	return append([]int(nil), p.Points...)
}

func (p *Polyline) SVG(c raster.RGBA) string {
	return svgPolyline(p.toPoints(), c)
}

func (p *Polyline) clampPoints() {
	for i := 0; i < len(p.Points); i += 2 {
		p.Points[i] = clampI(p.Points[i], 0, p.Width-1)
		p.Points[i+1] = clampI(p.Points[i+1], 0, p.Height-1)
	}
}
