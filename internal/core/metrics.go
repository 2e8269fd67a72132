// Package core implements the image-difference metrics and the optimal
// constant-color solver the hill climber scores candidates with.
package core

import (
	"math"

	"github.com/cwbudde/primify/internal/raster"
)

// DiffFull computes the full per-channel RMS difference between target
// and current, normalized to [0,1].
func DiffFull(target, current *raster.Bitmap) float64 {
	var sum uint64
	for i := 0; i < len(target.Pix); i++ {
		d := int64(target.Pix[i]) - int64(current.Pix[i])
		sum += uint64(d * d)
	}
	n := uint64(target.Width) * uint64(target.Height) * 4
	return math.Sqrt(float64(sum)/float64(n)) / 255.0
}

// DiffPartial computes the new full RMS difference incrementally, given
// that after equals before everywhere except the pixels covered by
// lines. lastScoreFull must be DiffFull(target, before). Produces the
// same value (within float rounding) as DiffFull(target, after), but
// only rescans the affected pixels.
func DiffPartial(target, before, after *raster.Bitmap, lastScoreFull float64, lines []raster.Scanline) float64 {
	n := uint64(target.Width) * uint64(target.Height) * 4
	// Recover the running sum of squared error from the last full score.
	total := lastScoreFull * 255.0
	totalSq := total * total * float64(n)
	sum := int64(math.Round(totalSq))

	for _, ln := range lines {
		rowStart := 4 * (ln.Y*target.Width + ln.X1)
		width := 4 * (ln.X2 - ln.X1)
		for i := rowStart; i < rowStart+width; i++ {
			db := int64(target.Pix[i]) - int64(before.Pix[i])
			da := int64(target.Pix[i]) - int64(after.Pix[i])
			sum += da*da - db*db
		}
	}
	if sum < 0 {
		sum = 0
	}
	return math.Sqrt(float64(sum)/float64(n)) / 255.0
}

// ComputeColor solves for the constant color c that, composited at
// alpha over current along lines, minimizes squared error to target.
// Returns {0,0,0,alpha} when lines is empty.
func ComputeColor(target, current *raster.Bitmap, lines []raster.Scanline, alpha uint8) raster.RGBA {
	if len(lines) == 0 || alpha == 0 {
		return raster.RGBA{A: alpha}
	}

	var sumR, sumG, sumB int64
	var count int64
	a := int64(alpha)
	invA := 255 - a

	for _, ln := range lines {
		rowStart := 4 * (ln.Y*target.Width + ln.X1)
		n := ln.X2 - ln.X1
		for p := 0; p < n; p++ {
			i := rowStart + 4*p
			tr, tg, tb := int64(target.Pix[i]), int64(target.Pix[i+1]), int64(target.Pix[i+2])
			cr, cg, cb := int64(current.Pix[i]), int64(current.Pix[i+1]), int64(current.Pix[i+2])

			sumR += 255*tr - invA*cr
			sumG += 255*tg - invA*cg
			sumB += 255*tb - invA*cb
			count++
		}
	}

	if count == 0 {
		return raster.RGBA{A: alpha}
	}

	denom := a * count
	return raster.RGBA{
		R: clampChannel(sumR, denom),
		G: clampChannel(sumG, denom),
		B: clampChannel(sumB, denom),
		A: alpha,
	}
}

func clampChannel(sum, denom int64) uint8 {
	if denom == 0 {
		return 0
	}
	v := float64(sum) / float64(denom)
	v = math.Round(v)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
