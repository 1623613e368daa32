package watermark

import (
	"testing"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
)

func blankImage(t *testing.T, w, h int) *pgimage.Image {
	t.Helper()
	img, err := pgimage.Create(w, h, pgimage.FormatBGRA8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return img
}

func TestApplyTextWatermarkRejectsEmptyText(t *testing.T) {
	img := blankImage(t, 100, 100)
	if err := ApplyTextWatermark(img, TextConfig{Text: ""}); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestApplyTextWatermarkDrawsSomething(t *testing.T) {
	img := blankImage(t, 200, 100)
	if err := ApplyTextWatermark(img, TextConfig{Text: "hello", Position: PositionTopLeft}); err != nil {
		t.Fatalf("ApplyTextWatermark: %v", err)
	}
	if !anyNonZeroPixel(img) {
		t.Fatalf("expected watermark to modify at least one pixel")
	}
}

func TestApplyTextWatermarkAnchors(t *testing.T) {
	cases := []Position{PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight, PositionCenter, PositionCustom}
	for _, pos := range cases {
		img := blankImage(t, 200, 200)
		cfg := TextConfig{Text: "W", Position: pos, X: 50, Y: 50}
		if err := ApplyTextWatermark(img, cfg); err != nil {
			t.Fatalf("position %v: %v", pos, err)
		}
	}
}

func TestApplyTiledTextWatermarkRejectsBadSpacing(t *testing.T) {
	img := blankImage(t, 100, 100)
	if err := ApplyTiledTextWatermark(img, TiledTextConfig{Text: "x"}, 0, 0, 10); err == nil {
		t.Fatalf("expected error for zero spacing")
	}
}

func TestApplyTiledTextWatermarkCoversImage(t *testing.T) {
	img := blankImage(t, 120, 120)
	if err := ApplyTiledTextWatermark(img, TiledTextConfig{Text: "x"}, 30, 40, 40); err != nil {
		t.Fatalf("ApplyTiledTextWatermark: %v", err)
	}
	if !anyNonZeroPixel(img) {
		t.Fatalf("expected tiled watermark to modify pixels")
	}
}

func TestApplyImageWatermarkOpaqueOverwritesPixel(t *testing.T) {
	target := blankImage(t, 10, 10)
	overlay := blankImage(t, 2, 2)
	overlay.Set(0, 0, 0, 0, 255, 255) // opaque red (BGRA)

	if err := ApplyImageWatermark(target, overlay, 0, 0, 1); err != nil {
		t.Fatalf("ApplyImageWatermark: %v", err)
	}
	b, g, r, a := target.At(0, 0)
	if b != 0 || g != 0 || r != 255 || a != 255 {
		t.Fatalf("expected opaque red pixel, got b=%d g=%d r=%d a=%d", b, g, r, a)
	}
}

func TestApplyImageWatermarkZeroOpacityLeavesTargetUnchanged(t *testing.T) {
	target := blankImage(t, 10, 10)
	target.Set(0, 0, 10, 20, 30, 255)
	overlay := blankImage(t, 2, 2)
	overlay.Set(0, 0, 0, 0, 255, 255)

	if err := ApplyImageWatermark(target, overlay, 0, 0, 0); err != nil {
		t.Fatalf("ApplyImageWatermark: %v", err)
	}
	b, g, r, a := target.At(0, 0)
	if b != 10 || g != 20 || r != 30 || a != 255 {
		t.Fatalf("expected unchanged pixel at zero opacity, got b=%d g=%d r=%d a=%d", b, g, r, a)
	}
}

func TestApplyImageWatermarkClipsOutOfBounds(t *testing.T) {
	target := blankImage(t, 4, 4)
	overlay := blankImage(t, 4, 4)
	if err := ApplyImageWatermark(target, overlay, 2, 2, 1); err != nil {
		t.Fatalf("expected clipped overlay to succeed, got %v", err)
	}
}

func anyNonZeroPixel(img *pgimage.Image) bool {
	for _, b := range img.Bytes() {
		if b != 0 {
			return true
		}
	}
	return false
}
