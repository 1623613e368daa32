package pin

import (
	"testing"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

func testImage(t *testing.T) *pgimage.Image {
	t.Helper()
	img, err := pgimage.Create(4, 4, pgimage.FormatBGRA8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return img
}

func TestPinImageAssignsIncreasingIDs(t *testing.T) {
	m := NewManager()
	id1 := m.PinImage(testImage(t), 0, 0)
	id2 := m.PinImage(testImage(t), 10, 10)
	if id1 == 0 || id2 == 0 {
		t.Fatalf("expected nonzero ids, got %d %d", id1, id2)
	}
	if id2 <= id1 {
		t.Fatalf("expected increasing ids, got %d then %d", id1, id2)
	}
}

func TestPinImageNilFails(t *testing.T) {
	m := NewManager()
	if id := m.PinImage(nil, 0, 0); id != 0 {
		t.Fatalf("expected 0 for nil image, got %d", id)
	}
}

func TestDestroyThenRecreateGetsFreshID(t *testing.T) {
	m := NewManager()
	id1 := m.PinImage(testImage(t), 0, 0)
	if err := m.DestroyPin(id1); err != nil {
		t.Fatalf("DestroyPin: %v", err)
	}
	id2 := m.PinImage(testImage(t), 0, 0)
	if id2 == id1 {
		t.Fatalf("expected fresh id after destroy, got reused %d", id1)
	}
	if _, err := m.GetInfo(id1); err == nil {
		t.Fatalf("expected error getting destroyed pin info")
	}
}

func TestDestroyUnknownFails(t *testing.T) {
	m := NewManager()
	err := m.DestroyPin(999)
	if err == nil {
		t.Fatalf("expected error destroying unknown pin")
	}
	if err.Code != pgerr.WindowCreateFailed {
		t.Fatalf("expected WindowCreateFailed, got %v", err.Code)
	}
}

func TestCountAndDestroyAll(t *testing.T) {
	m := NewManager()
	m.PinImage(testImage(t), 0, 0)
	m.PinText("hello", 5, 5)
	if m.Count() != 2 {
		t.Fatalf("expected count 2, got %d", m.Count())
	}
	m.DestroyAll()
	if m.Count() != 0 {
		t.Fatalf("expected count 0 after DestroyAll, got %d", m.Count())
	}
}

func TestSetImageFailsOnTextPin(t *testing.T) {
	m := NewManager()
	id := m.PinText("hello", 0, 0)
	if err := m.SetImage(id, testImage(t)); err == nil {
		t.Fatalf("expected error setting image on a text pin")
	}
}

func TestDuplicateFailsOnTextPin(t *testing.T) {
	m := NewManager()
	id := m.PinText("hello", 0, 0)
	if dup := m.Duplicate(id, 5, 5); dup != 0 {
		t.Fatalf("expected 0 duplicating a text pin, got %d", dup)
	}
}

func TestDuplicateImagePinOffsetsPosition(t *testing.T) {
	m := NewManager()
	id := m.PinImage(testImage(t), 10, 20)
	dup := m.Duplicate(id, 5, 5)
	if dup == 0 {
		t.Fatalf("expected successful duplicate")
	}
	info, err := m.GetInfo(dup)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.X != 15 || info.Y != 25 {
		t.Fatalf("expected duplicate at (15,25), got (%d,%d)", info.X, info.Y)
	}
}

func TestSetOpacityClampsRange(t *testing.T) {
	m := NewManager()
	id := m.PinImage(testImage(t), 0, 0)
	if err := m.SetOpacity(id, 5); err != nil {
		t.Fatalf("SetOpacity: %v", err)
	}
	info, _ := m.GetInfo(id)
	if info.Opacity != 1 {
		t.Fatalf("expected opacity clamped to 1, got %v", info.Opacity)
	}
	if err := m.SetOpacity(id, -5); err != nil {
		t.Fatalf("SetOpacity: %v", err)
	}
	info, _ = m.GetInfo(id)
	if info.Opacity != 0 {
		t.Fatalf("expected opacity clamped to 0, got %v", info.Opacity)
	}
}

func TestEnumerateRespectsMaxCount(t *testing.T) {
	m := NewManager()
	for i := 0; i < 5; i++ {
		m.PinImage(testImage(t), i, i)
	}
	entries := m.Enumerate(3)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestSetVisibleAll(t *testing.T) {
	m := NewManager()
	id1 := m.PinImage(testImage(t), 0, 0)
	id2 := m.PinText("hi", 1, 1)
	m.SetVisibleAll(false)
	info1, _ := m.GetInfo(id1)
	info2, _ := m.GetInfo(id2)
	if info1.Visible || info2.Visible {
		t.Fatalf("expected all pins hidden")
	}
}
