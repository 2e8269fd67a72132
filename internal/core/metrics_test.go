package core

import (
	"math"
	"testing"

	"github.com/cwbudde/primify/internal/raster"
)

func TestDiffFullIdentical(t *testing.T) {
	a := raster.NewBitmap(4, 4, raster.RGBA{10, 20, 30, 255})
	b := a.Clone()
	if got := DiffFull(a, b); got != 0 {
		t.Errorf("DiffFull of identical bitmaps = %v, want 0", got)
	}
}

func TestDiffFullMaxDifference(t *testing.T) {
	a := raster.NewBitmap(2, 2, raster.RGBA{0, 0, 0, 0})
	b := raster.NewBitmap(2, 2, raster.RGBA{255, 255, 255, 255})
	got := DiffFull(a, b)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("DiffFull of fully opposed bitmaps = %v, want 1", got)
	}
}

// S2 from spec.md §8.
func TestComputeColorFullOpaqueRedTarget(t *testing.T) {
	target := raster.NewBitmap(2, 2, raster.RGBA{255, 0, 0, 255})
	current := raster.NewBitmap(2, 2, raster.RGBA{0, 0, 0, 255})
	lines := []raster.Scanline{{Y: 0, X1: 0, X2: 2}, {Y: 1, X1: 0, X2: 2}}

	got := ComputeColor(target, current, lines, 255)
	want := raster.RGBA{255, 0, 0, 255}
	if got != want {
		t.Errorf("ComputeColor() = %+v, want %+v", got, want)
	}
}

func TestComputeColorEmptyLines(t *testing.T) {
	target := raster.NewBitmap(2, 2, raster.RGBA{255, 0, 0, 255})
	current := raster.NewBitmap(2, 2, raster.RGBA{0, 0, 0, 255})
	got := ComputeColor(target, current, nil, 128)
	if got != (raster.RGBA{0, 0, 0, 128}) {
		t.Errorf("ComputeColor(empty) = %+v, want {0 0 0 128}", got)
	}
}

func TestComputeColorZeroAlpha(t *testing.T) {
	target := raster.NewBitmap(1, 1, raster.RGBA{200, 100, 50, 255})
	current := raster.NewBitmap(1, 1, raster.RGBA{0, 0, 0, 255})
	lines := []raster.Scanline{{Y: 0, X1: 0, X2: 1}}
	got := ComputeColor(target, current, lines, 0)
	if got != (raster.RGBA{0, 0, 0, 0}) {
		t.Errorf("ComputeColor(alpha=0) = %+v, want zero color", got)
	}
}

// S3 from spec.md §8: empty scanline list is a no-op.
func TestDiffPartialEmptyLinesIsNoOp(t *testing.T) {
	target := raster.NewBitmap(1, 1, raster.RGBA{5, 5, 5, 255})
	current := raster.NewBitmap(1, 1, raster.RGBA{1, 1, 1, 255})
	full := DiffFull(target, current)
	got := DiffPartial(target, current, current, full, nil)
	if math.Abs(got-full) > 1e-9 {
		t.Errorf("DiffPartial with no lines = %v, want unchanged %v", got, full)
	}
}

// S6 from spec.md §8: zero initial error.
func TestDiffFullZeroWhenIdentical(t *testing.T) {
	target := raster.NewBitmap(3, 3, raster.RGBA{1, 2, 3, 255})
	current := target.Clone()
	if got := DiffFull(target, current); got != 0 {
		t.Errorf("DiffFull = %v, want 0", got)
	}
}

// Partial-diff equivalence property (spec.md §8 item 6).
func TestDiffPartialMatchesDiffFull(t *testing.T) {
	target := raster.NewBitmap(6, 6, raster.RGBA{200, 100, 50, 255})
	current := raster.NewBitmap(6, 6, raster.RGBA{10, 10, 10, 255})
	before := current.Clone()

	lines := []raster.Scanline{{Y: 2, X1: 1, X2: 5}, {Y: 3, X1: 0, X2: 3}}
	lastScore := DiffFull(target, current)

	after := current.Clone()
	raster.DrawLines(after, raster.RGBA{80, 60, 40, 200}, lines)

	partial := DiffPartial(target, before, after, lastScore, lines)
	full := DiffFull(target, after)

	if math.Abs(partial-full) > 1e-6 {
		t.Errorf("DiffPartial = %v, DiffFull = %v, want equal within 1e-6", partial, full)
	}
}

// S4-adjacent: a scanline set covering one row of a larger canvas should
// only move the incremental score, never the other rows' contribution.
func TestDiffPartialOnlyTouchesAffectedRows(t *testing.T) {
	target := raster.NewBitmap(4, 4, raster.RGBA{255, 255, 255, 255})
	current := raster.NewBitmap(4, 4, raster.RGBA{0, 0, 0, 255})
	before := current.Clone()
	lastScore := DiffFull(target, current)

	lines := []raster.Scanline{{Y: 0, X1: 0, X2: 4}}
	after := current.Clone()
	raster.DrawLines(after, raster.RGBA{255, 255, 255, 255}, lines)

	got := DiffPartial(target, before, after, lastScore, lines)
	want := DiffFull(target, after)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("DiffPartial = %v, want %v", got, want)
	}
	if got >= lastScore {
		t.Errorf("score should improve after painting matching rows: got %v, before %v", got, lastScore)
	}
}
