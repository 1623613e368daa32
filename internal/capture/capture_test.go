package capture

import (
	"testing"

	"github.com/pixelgrab/pixelgrab/internal/image"
)

func TestPickColorBgra(t *testing.T) {
	img, _ := image.Create(4, 4, image.FormatBGRA8)
	img.Set(1, 1, 10, 20, 30, 255) // B,G,R,A

	c, err := PickColor(img, 1, 1)
	if err != nil {
		t.Fatalf("PickColor error: %v", err)
	}
	if c.R != 30 || c.G != 20 || c.B != 10 || c.A != 255 {
		t.Fatalf("PickColor = %+v, want R=30 G=20 B=10 A=255", c)
	}
}

func TestPickColorOutOfBounds(t *testing.T) {
	img, _ := image.Create(2, 2, image.FormatBGRA8)
	if _, err := PickColor(img, 5, 5); err == nil {
		t.Fatal("expected error for out-of-bounds pick")
	}
}

func TestLogicalPhysicalRoundTrip(t *testing.T) {
	dpi := DpiInfo{ScaleX: 1.5, ScaleY: 1.5, DpiX: 144, DpiY: 144}

	px, py := LogicalToPhysical(dpi, 100, 200)
	if px != 150 || py != 300 {
		t.Fatalf("LogicalToPhysical = %v,%v, want 150,300", px, py)
	}

	lx, ly := PhysicalToLogical(dpi, px, py)
	if lx != 100 || ly != 200 {
		t.Fatalf("PhysicalToLogical round trip = %v,%v, want 100,200", lx, ly)
	}
}
