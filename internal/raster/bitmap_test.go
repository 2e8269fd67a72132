package raster

import "testing"

func TestNewBitmapFillAndPixel(t *testing.T) {
	b := NewBitmap(4, 3, RGBA{10, 20, 30, 255})
	if len(b.Pix) != 4*4*3 {
		t.Fatalf("buffer length = %d, want %d", len(b.Pix), 4*4*3)
	}
	got := b.Pixel(2, 1)
	want := RGBA{10, 20, 30, 255}
	if got != want {
		t.Errorf("Pixel(2,1) = %+v, want %+v", got, want)
	}
}

func TestSetPixel(t *testing.T) {
	b := NewBitmap(2, 2, RGBA{})
	b.SetPixel(1, 1, RGBA{1, 2, 3, 4})
	if got := b.Pixel(1, 1); got != (RGBA{1, 2, 3, 4}) {
		t.Errorf("Pixel(1,1) = %+v, want {1 2 3 4}", got)
	}
	if got := b.Pixel(0, 0); got != (RGBA{}) {
		t.Errorf("Pixel(0,0) = %+v, want zero value", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBitmap(2, 2, RGBA{1, 1, 1, 1})
	c := b.Clone()
	c.SetPixel(0, 0, RGBA{9, 9, 9, 9})
	if got := b.Pixel(0, 0); got != (RGBA{1, 1, 1, 1}) {
		t.Errorf("original mutated through clone: %+v", got)
	}
}

func TestCopyFrom(t *testing.T) {
	dst := NewBitmap(2, 2, RGBA{0, 0, 0, 0})
	src := NewBitmap(2, 2, RGBA{5, 6, 7, 8})
	dst.CopyFrom(src)
	if got := dst.Pixel(1, 0); got != (RGBA{5, 6, 7, 8}) {
		t.Errorf("CopyFrom did not copy pixel: %+v", got)
	}
}

func TestAverageColor(t *testing.T) {
	b := NewBitmapFromBuffer(2, 1, []uint8{0, 0, 0, 255, 255, 255, 255, 255})
	got := b.AverageColor()
	want := RGBA{128, 128, 128, 255}
	if got != want {
		t.Errorf("AverageColor() = %+v, want %+v", got, want)
	}
}

func TestNewBitmapPanicsOnInvalidSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on zero dimensions")
		}
	}()
	NewBitmap(0, 10, RGBA{})
}

func TestNewBitmapFromBufferPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on buffer length mismatch")
		}
	}()
	NewBitmapFromBuffer(2, 2, make([]uint8, 3))
}
