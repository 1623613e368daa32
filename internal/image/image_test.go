package image

import "testing"

func TestCreateRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}} {
		if _, err := Create(dims[0], dims[1], FormatBGRA8); err == nil {
			t.Fatalf("Create(%d, %d) expected error", dims[0], dims[1])
		}
	}
}

func TestCreateStrideAlignment(t *testing.T) {
	img, err := Create(3, 2, FormatBGRA8)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if img.Stride() != 12 {
		t.Fatalf("Stride() = %d, want 12", img.Stride())
	}
	if len(img.Bytes()) != 24 {
		t.Fatalf("len(Bytes()) = %d, want 24", len(img.Bytes()))
	}
}

func TestSetAt(t *testing.T) {
	img, err := Create(2, 2, FormatBGRA8)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	img.Set(1, 1, 10, 20, 30, 40)

	c0, c1, c2, c3 := img.At(1, 1)
	if c0 != 10 || c1 != 20 || c2 != 30 || c3 != 40 {
		t.Fatalf("At(1,1) = %d,%d,%d,%d", c0, c1, c2, c3)
	}

	c0, _, _, _ = img.At(0, 0)
	if c0 != 0 {
		t.Fatalf("At(0,0) channel0 = %d, want 0 (untouched pixel)", c0)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img, _ := Create(2, 2, FormatBGRA8)
	img.Set(0, 0, 1, 2, 3, 4)

	clone := img.Clone()
	clone.Set(0, 0, 9, 9, 9, 9)

	c0, _, _, _ := img.At(0, 0)
	if c0 != 1 {
		t.Fatalf("mutating clone affected original: At(0,0) channel0 = %d", c0)
	}
}

func TestCreateFromDataCopies(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 0xAB

	img, err := CreateFromData(2, 2, 8, FormatBGRA8, data)
	if err != nil {
		t.Fatalf("CreateFromData error: %v", err)
	}

	data[0] = 0xFF
	if img.Bytes()[0] != 0xAB {
		t.Fatalf("CreateFromData did not copy input buffer; got %x", img.Bytes()[0])
	}
}

func TestCreateFromDataRejectsShortStride(t *testing.T) {
	data := make([]byte, 16)
	if _, err := CreateFromData(4, 2, 4, FormatBGRA8, data); err == nil {
		t.Fatal("expected error for stride smaller than width*4")
	}
}

func TestSubImage(t *testing.T) {
	img, _ := Create(4, 4, FormatBGRA8)
	img.Set(2, 2, 5, 6, 7, 8)

	sub, err := img.SubImage(1, 1, 2, 2)
	if err != nil {
		t.Fatalf("SubImage error: %v", err)
	}
	c0, c1, c2, c3 := sub.At(1, 1)
	if c0 != 5 || c1 != 6 || c2 != 7 || c3 != 8 {
		t.Fatalf("SubImage pixel mismatch: %d,%d,%d,%d", c0, c1, c2, c3)
	}
}

func TestSubImageOutOfBounds(t *testing.T) {
	img, _ := Create(4, 4, FormatBGRA8)
	if _, err := img.SubImage(3, 3, 2, 2); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
