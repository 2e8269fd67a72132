// Package export renders a committed shape sequence or the raw canvas
// to the three boundary formats the core never produces on its own:
// SVG markup, the JSON shape-array tuple format, and uncompressed BMP.
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/raster"
)

// SVG renders results as one <g>-like container holding one element per
// shape, sized to width x height.
func SVG(width, height int, results []model.ShapeResult) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	buf.WriteString("<g>")
	for _, r := range results {
		buf.WriteString(r.Shape.SVG(r.Color))
	}
	buf.WriteString("</g></svg>")
	return buf.String()
}

// ShapeArray renders results as the JSON shape-array tuple format:
// [kindTag, r, g, b, a, ...params] per result, in commit order.
func ShapeArray(results []model.ShapeResult) [][]int {
	out := make([][]int, len(results))
	for i, r := range results {
		tuple := make([]int, 0, 5+len(r.Shape.Params()))
		tuple = append(tuple, int(r.Shape.Kind()),
			int(r.Color.R), int(r.Color.G), int(r.Color.B), int(r.Color.A))
		tuple = append(tuple, r.Shape.Params()...)
		out[i] = tuple
	}
	return out
}

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpBitsPerPixel   = 24
)

// BMP renders the canvas as an uncompressed 24-bit BGR BMP: standard
// BITMAPFILEHEADER + BITMAPINFOHEADER, rows bottom-up and padded to a
// 4-byte boundary, alpha dropped.
func BMP(b *raster.Bitmap) []byte {
	rowSize := (b.Width*3 + 3) &^ 3
	pixelDataSize := rowSize * b.Height
	fileSize := bmpFileHeaderSize + bmpInfoHeaderSize + pixelDataSize

	buf := make([]byte, fileSize)

	// BITMAPFILEHEADER
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(buf[10:], uint32(bmpFileHeaderSize+bmpInfoHeaderSize))

	// BITMAPINFOHEADER
	h := buf[bmpFileHeaderSize:]
	binary.LittleEndian.PutUint32(h[0:], bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(h[4:], uint32(b.Width))
	binary.LittleEndian.PutUint32(h[8:], uint32(b.Height))
	binary.LittleEndian.PutUint16(h[12:], 1) // planes
	binary.LittleEndian.PutUint16(h[14:], bmpBitsPerPixel)
	binary.LittleEndian.PutUint32(h[20:], uint32(pixelDataSize))

	pix := buf[bmpFileHeaderSize+bmpInfoHeaderSize:]
	for y := 0; y < b.Height; y++ {
		srcY := b.Height - 1 - y // bottom-up
		rowOff := y * rowSize
		for x := 0; x < b.Width; x++ {
			c := b.Pixel(x, srcY)
			i := rowOff + 3*x
			pix[i], pix[i+1], pix[i+2] = c.B, c.G, c.R
		}
	}

	return buf
}
