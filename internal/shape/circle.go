package shape

import "github.com/cwbudde/primify/internal/raster"

// Circle is a filled circle centered at (X,Y) with radius R.
type Circle struct {
	X, Y, R       int
	Width, Height int
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}

func (c *Circle) Rasterize() []raster.Scanline {
	return rasterizeEllipseRows(c.X, c.Y, c.R, c.R, c.Width, c.Height)
}

func (c *Circle) Params() []int {
	return []int{c.X, c.Y, c.R}
}

func (c *Circle) SVG(col raster.RGBA) string {
	return svgEllipse(c.X, c.Y, c.R, c.R, 0, col)
}

func (c *Circle) clamp() {
	c.X = clampI(c.X, 0, c.Width-1)
	c.Y = clampI(c.Y, 0, c.Height-1)
	if c.R < 1 {
		c.R = 1
	}
}
