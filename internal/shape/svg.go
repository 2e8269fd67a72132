package shape

import (
	"fmt"
	"strings"

	"github.com/cwbudde/primify/internal/raster"
)

func svgFill(c raster.RGBA) string {
	return fmt.Sprintf(`fill="rgb(%d,%d,%d)" fill-opacity="%.4f"`, c.R, c.G, c.B, float64(c.A)/255.0)
}

func svgStroke(c raster.RGBA) string {
	return fmt.Sprintf(`fill="none" stroke="rgb(%d,%d,%d)" stroke-opacity="%.4f" stroke-width="1"`, c.R, c.G, c.B, float64(c.A)/255.0)
}

func svgRect(x, y, w, h int, angleDeg float64, c raster.RGBA) string {
	transform := ""
	if angleDeg != 0 {
		cx := float64(x) + float64(w)/2
		cy := float64(y) + float64(h)/2
		transform = fmt.Sprintf(` transform="rotate(%.4f %.4f %.4f)"`, angleDeg, cx, cy)
	}
	return fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" %s%s />`, x, y, w, h, svgFill(c), transform)
}

func svgEllipse(cx, cy, rx, ry int, angleDeg float64, c raster.RGBA) string {
	transform := ""
	if angleDeg != 0 {
		transform = fmt.Sprintf(` transform="rotate(%.4f %d %d)"`, angleDeg, cx, cy)
	}
	return fmt.Sprintf(`<ellipse cx="%d" cy="%d" rx="%d" ry="%d" %s%s />`, cx, cy, rx, ry, svgFill(c), transform)
}

func svgPolygon(pts []point, c raster.RGBA) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	return fmt.Sprintf(`<polygon points="%s" %s />`, b.String(), svgFill(c))
}

func svgPolyline(pts []point, c raster.RGBA) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	return fmt.Sprintf(`<polyline points="%s" %s />`, b.String(), svgStroke(c))
}

func svgLine(x1, y1, x2, y2 int, c raster.RGBA) string {
	return fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" %s />`, x1, y1, x2, y2, svgStroke(c))
}

func svgPath(d string, c raster.RGBA) string {
	return fmt.Sprintf(`<path d="%s" %s />`, d, svgStroke(c))
}

func svgQuadPath(x1, y1, cx, cy, x2, y2 int) string {
	return fmt.Sprintf("M %d %d Q %d %d %d %d", x1, y1, cx, cy, x2, y2)
}
