package annorender

import (
	"testing"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
)

func TestDrawRectFillsPixels(t *testing.T) {
	img, err := pgimage.Create(20, 20, pgimage.FormatBGRA8)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	canvas, pgErr := BeginRender(img)
	if pgErr != nil {
		t.Fatalf("BeginRender error: %v", pgErr)
	}
	canvas.DrawRect(2, 2, 10, 10, 0xFFFF0000, 0xFF00FF00, 1, true)
	canvas.EndRender()

	b, g, r, a := img.At(7, 7)
	if r == 0 && g == 0 && b == 0 && a == 0 {
		t.Fatal("expected DrawRect to paint non-transparent pixels inside the fill")
	}
}

func TestDrawTextDoesNotPanic(t *testing.T) {
	img, _ := pgimage.Create(100, 40, pgimage.FormatBGRA8)
	canvas, pgErr := BeginRender(img)
	if pgErr != nil {
		t.Fatalf("BeginRender error: %v", pgErr)
	}
	if err := canvas.DrawText("hi", 5, 5, 14, 0xFFFFFFFF); err != nil {
		t.Fatalf("DrawText error: %v", err)
	}
	canvas.EndRender()
}

func TestMeasureText(t *testing.T) {
	img, _ := pgimage.Create(10, 10, pgimage.FormatBGRA8)
	canvas, _ := BeginRender(img)
	w, h, pgErr := canvas.MeasureText("hello", 16)
	if pgErr != nil {
		t.Fatalf("MeasureText error: %v", pgErr)
	}
	if w <= 0 || h <= 0 {
		t.Fatalf("MeasureText returned non-positive size: %v,%v", w, h)
	}
	canvas.EndRender()
}
