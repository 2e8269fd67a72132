package model

import (
	"testing"

	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
)

func solidTarget(w, h int, c raster.RGBA) *raster.Bitmap {
	return raster.NewBitmap(w, h, c)
}

func TestNewSeedsCanvasWithAverageColor(t *testing.T) {
	target := solidTarget(4, 4, raster.RGBA{100, 150, 200, 255})
	m := New(target)
	got := m.Current().Pixel(0, 0)
	want := raster.RGBA{100, 150, 200, 255}
	if got != want {
		t.Errorf("initial canvas pixel = %+v, want %+v", got, want)
	}
}

func TestNewWithInitialPanicsOnDimensionMismatch(t *testing.T) {
	target := solidTarget(10, 10, raster.RGBA{0, 0, 0, 255})
	initial := solidTarget(5, 5, raster.RGBA{0, 0, 0, 255})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on dimension mismatch")
		}
	}()
	NewWithInitial(target, initial)
}

func TestResetRecomputesScore(t *testing.T) {
	target := solidTarget(8, 8, raster.RGBA{200, 0, 0, 255})
	m := NewWithBackground(target, raster.RGBA{0, 0, 0, 255})
	before := m.Score()
	m.Reset(raster.RGBA{200, 0, 0, 255})
	if m.Score() >= before {
		t.Errorf("score after reset to target color = %v, want less than %v", m.Score(), before)
	}
	if m.Score() != 0 {
		t.Errorf("score after exact reset = %v, want 0", m.Score())
	}
}

func TestStepDegenerateConfigReturnsEmpty(t *testing.T) {
	target := solidTarget(10, 10, raster.RGBA{0, 0, 0, 255})
	m := New(target)

	if got := m.Step(nil, 128, 10, 10, 1); got != nil {
		t.Errorf("Step with empty kinds = %v, want nil", got)
	}
	if got := m.Step([]shape.Kind{shape.KindCircle}, 128, 0, 10, 1); got != nil {
		t.Errorf("Step with shapeCount=0 = %v, want nil", got)
	}
}

func TestStepCommitsOneShapeAndImprovesScore(t *testing.T) {
	target := solidTarget(16, 16, raster.RGBA{220, 40, 10, 255})
	m := NewWithBackground(target, raster.RGBA{0, 0, 0, 255})
	m.SetSeed(123)

	before := m.Score()
	results := m.Step([]shape.Kind{shape.KindRectangle}, 200, 20, 20, 2)
	if len(results) != 1 {
		t.Fatalf("Step returned %d results, want 1", len(results))
	}
	if results[0].Score >= before {
		t.Errorf("score after step %v did not improve on %v", results[0].Score, before)
	}
	if m.Score() != results[0].Score {
		t.Errorf("model score %v does not match returned result score %v", m.Score(), results[0].Score)
	}
}

func TestStepAdvancesSeedOffsetByMaxThreads(t *testing.T) {
	target := solidTarget(10, 10, raster.RGBA{10, 10, 10, 255})
	m := New(target)
	m.SetSeed(1)

	before := m.SeedOffset()
	m.Step([]shape.Kind{shape.KindCircle}, 128, 5, 5, 3)
	if got := m.SeedOffset(); got != before+3 {
		t.Errorf("seed offset after 3-worker step = %d, want %d", got, before+3)
	}
}

// Determinism: identical (seed, config) Step sequences on freshly
// constructed models produce identical committed shapes and scores
// (spec.md §8 property 3 / §4.7 Determinism).
func TestStepIsDeterministicAcrossRuns(t *testing.T) {
	target := solidTarget(20, 20, raster.RGBA{80, 180, 60, 255})

	run := func() ShapeResult {
		m := NewWithBackground(target, raster.RGBA{0, 0, 0, 255})
		m.SetSeed(99)
		results := m.Step([]shape.Kind{shape.KindCircle, shape.KindTriangle}, 180, 30, 30, 4)
		return results[0]
	}

	a, b := run(), run()
	if a.Score != b.Score || a.Color != b.Color || a.Shape.Kind() != b.Shape.Kind() {
		t.Errorf("non-deterministic Step: %+v vs %+v", a, b)
	}
	if !equalInts(a.Shape.Params(), b.Shape.Params()) {
		t.Errorf("non-deterministic Step params: %v vs %v", a.Shape.Params(), b.Shape.Params())
	}
}

func TestDrawShapeColorSkipsColorSolve(t *testing.T) {
	target := solidTarget(6, 6, raster.RGBA{0, 0, 0, 255})
	m := New(target)
	r := &shape.Rectangle{X1: 0, Y1: 0, X2: 5, Y2: 5, Width: 6, Height: 6}

	want := raster.RGBA{10, 20, 30, 255}
	result := m.DrawShapeColor(r, want)
	if result.Color != want {
		t.Errorf("committed color = %+v, want %+v", result.Color, want)
	}
	if got := m.Current().Pixel(2, 2); got != want {
		t.Errorf("canvas pixel after commit = %+v, want %+v", got, want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
