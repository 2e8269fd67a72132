package jobsvc

import (
	"image"
	"image/color"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	_ "github.com/deepteams/webp"

	"github.com/cwbudde/primify/internal/raster"
)

// bitmapFromImage converts a decoded stdlib image into a *raster.Bitmap,
// matching the NRGBA-conversion idiom used to load reference images.
func bitmapFromImage(img image.Image) *raster.Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	b := raster.NewBitmap(w, h, raster.RGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.SetPixel(x, y, raster.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return b
}

// encodePNG writes b as a PNG image to w.
func encodePNG(w io.Writer, b *raster.Bitmap) error {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Pixel(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return png.Encode(w, img)
}
