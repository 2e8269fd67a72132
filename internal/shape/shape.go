// Package shape implements the closed set of geometric primitive kinds:
// their setup (random initialization), mutation, rasterization, cloning,
// and parameter-array views. Color and alpha are not carried by shapes —
// they are determined by the caller at commit time.
package shape

import (
	"math"
	"sort"

	"github.com/cwbudde/primify/internal/core"
	"github.com/cwbudde/primify/internal/raster"
)

// Kind identifies one of the nine closed primitive variants. Values
// match the JSON shape-array export's kindTag.
type Kind int

const (
	KindRectangle Kind = iota
	KindRotatedRectangle
	KindTriangle
	KindEllipse
	KindRotatedEllipse
	KindCircle
	KindLine
	KindQuadraticBezier
	KindPolyline
)

// AllKinds is the full closed set of shape kinds, in kindTag order.
var AllKinds = []Kind{
	KindRectangle, KindRotatedRectangle, KindTriangle, KindEllipse,
	KindRotatedEllipse, KindCircle, KindLine, KindQuadraticBezier, KindPolyline,
}

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindRotatedRectangle:
		return "rotated_rectangle"
	case KindTriangle:
		return "triangle"
	case KindEllipse:
		return "ellipse"
	case KindRotatedEllipse:
		return "rotated_ellipse"
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	case KindQuadraticBezier:
		return "quadratic_bezier"
	case KindPolyline:
		return "polyline"
	default:
		return "unknown"
	}
}

// Shape is the capability set every primitive kind implements: setup and
// mutate live in the ShapeMutator dispatch table (kept pure functions of
// (kind, rng) rather than methods, per the cyclic-reference note), while
// rasterize/clone/kind/params/svg are intrinsic to the shape value.
type Shape interface {
	Kind() Kind
	Clone() Shape
	Rasterize() []raster.Scanline
	// Params returns the integer parameter view in the kind-specific
	// order documented for the JSON shape-array export.
	Params() []int
	// SVG returns this shape's natural SVG element, with fill/stroke
	// set from color.
	SVG(color raster.RGBA) string
}

type point struct{ X, Y float64 }

// fillPolygon rasterizes the interior of a (not necessarily convex)
// polygon via an edge-table scanline fill: for each row, intersect every
// edge against the row's mid-scanline and pair up the sorted
// intersections under the even-odd rule.
func fillPolygon(pts []point, width, height int) []raster.Scanline {
	if len(pts) < 3 {
		return nil
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))

	var lines []raster.Scanline
	for y := y0; y < y1; y++ {
		yc := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= yc && yc < b.Y) || (b.Y <= yc && yc < a.Y) {
				t := (yc - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x1 := int(math.Round(xs[i]))
			x2 := int(math.Round(xs[i+1]))
			if x2 > x1 {
				lines = append(lines, raster.Scanline{Y: y, X1: x1, X2: x2})
			}
		}
	}
	return raster.ClipScanlines(lines, width, height)
}

// rotatePoint rotates p about center by angle radians.
func rotatePoint(p, center point, angle float64) point {
	s, c := math.Sin(angle), math.Cos(angle)
	dx, dy := p.X-center.X, p.Y-center.Y
	return point{
		X: center.X + dx*c-dy*s,
		Y: center.Y + dx*s+dy*c,
	}
}

// strokeSegment rasterizes a 1-pixel-wide line from (x0,y0) to (x1,y1)
// using Bresenham's algorithm, one scanline per affected row.
func strokeSegment(x0, y0, x1, y1, width, height int) []raster.Scanline {
	rows := map[int][2]int{} // y -> [xmin, xmax]
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if r, ok := rows[y]; ok {
			if x < r[0] {
				r[0] = x
			}
			if x > r[1] {
				r[1] = x
			}
			rows[y] = r
		} else {
			rows[y] = [2]int{x, x}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}

	lines := make([]raster.Scanline, 0, len(rows))
	for y, r := range rows {
		lines = append(lines, raster.Scanline{Y: y, X1: r[0], X2: r[1] + 1})
	}
	return mergeScanlines(raster.ClipScanlines(lines, width, height))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// mergeScanlines coalesces overlapping or adjacent same-row spans so a
// multi-segment stroke never composites a pixel twice in a single draw.
func mergeScanlines(lines []raster.Scanline) []raster.Scanline {
	if len(lines) == 0 {
		return lines
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Y != lines[j].Y {
			return lines[i].Y < lines[j].Y
		}
		return lines[i].X1 < lines[j].X1
	})
	out := make([]raster.Scanline, 0, len(lines))
	cur := lines[0]
	for _, l := range lines[1:] {
		if l.Y == cur.Y && l.X1 <= cur.X2 {
			if l.X2 > cur.X2 {
				cur.X2 = l.X2
			}
			continue
		}
		out = append(out, cur)
		cur = l
	}
	out = append(out, cur)
	return out
}

// flattenQuadratic adaptively subdivides a quadratic Bézier curve into a
// polyline such that the chord never deviates from the true curve by
// more than maxErr pixels.
func flattenQuadratic(p0, c, p1 point, maxErr float64) []point {
	var pts []point
	pts = append(pts, p0)
	subdivide(p0, c, p1, maxErr, 0, &pts)
	pts = append(pts, p1)
	return pts
}

func bezierPoint(p0, c, p1 point, t float64) point {
	u := 1 - t
	return point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

func subdivide(p0, c, p1 point, maxErr float64, depth int, out *[]point) {
	const maxDepth = 16
	mid := bezierPoint(p0, c, p1, 0.5)
	chordMid := point{(p0.X + p1.X) / 2, (p0.Y + p1.Y) / 2}
	errDist := math.Hypot(mid.X-chordMid.X, mid.Y-chordMid.Y)
	if errDist <= maxErr || depth >= maxDepth {
		return
	}
	leftC := point{(p0.X + c.X) / 2, (p0.Y + c.Y) / 2}
	rightC := point{(c.X + p1.X) / 2, (c.Y + p1.Y) / 2}
	subdivide(p0, leftC, mid, maxErr, depth+1, out)
	*out = append(*out, mid)
	subdivide(mid, rightC, p1, maxErr, depth+1, out)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// strokePolyline strokes every segment of pts in order and merges the
// result so overlapping segments are only composited once per pixel.
func strokePolyline(pts []point, width, height int) []raster.Scanline {
	var lines []raster.Scanline
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		lines = append(lines, strokeSegment(
			int(math.Round(a.X)), int(math.Round(a.Y)),
			int(math.Round(b.X)), int(math.Round(b.Y)),
			width, height)...)
	}
	return mergeScanlines(lines)
}

// mutateDelta returns a bounded pseudo-random perturbation in
// [-maxDelta, maxDelta).
func mutateDelta(rng *core.RNG, maxDelta float64) float64 {
	return rng.FloatRange(-maxDelta, maxDelta)
}
