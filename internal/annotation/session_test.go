package annotation

import (
	"testing"

	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pgerr"
)

func newTestSession(t *testing.T) (*Session, *pgimage.Image) {
	t.Helper()
	base, err := pgimage.Create(50, 50, pgimage.FormatBGRA8)
	if err != nil {
		t.Fatalf("Create base image: %v", err)
	}
	s, pgErr := NewSession(base)
	if pgErr != nil {
		t.Fatalf("NewSession: %v", pgErr)
	}
	return s, base
}

func TestAddShapeAssignsIncreasingIDs(t *testing.T) {
	s, _ := newTestSession(t)
	style := Style{StrokeARGB: 0xFFFF0000, StrokeWidth: 1}

	id1, err := s.AddShape(NewRect(0, 0, 10, 10, style))
	if err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	id2, err := s.AddShape(NewRect(0, 0, 10, 10, style))
	if err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	if id1 == id2 || id1 <= 0 || id2 <= 0 {
		t.Fatalf("expected distinct positive ids, got %d, %d", id1, id2)
	}
}

func TestRemoveUnknownShapeFails(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.RemoveShape(999)
	if err == nil {
		t.Fatal("expected error removing unknown shape id")
	}
	if err.Code != pgerr.InvalidParam {
		t.Fatalf("expected InvalidParam, got %v", err.Code)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s, _ := newTestSession(t)
	style := Style{StrokeARGB: 0xFFFF0000, StrokeWidth: 1}

	id, _ := s.AddShape(NewRect(0, 0, 10, 10, style))
	if !s.CanUndo() || s.CanRedo() {
		t.Fatal("expected CanUndo true, CanRedo false after Add")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if s.indexOf(id) != -1 {
		t.Fatal("shape should be removed after undoing its Add")
	}
	if !s.CanRedo() {
		t.Fatal("expected CanRedo true after Undo")
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if s.indexOf(id) == -1 {
		t.Fatal("shape should be restored after redoing its Add")
	}
}

func TestAddShapeClearsRedoLog(t *testing.T) {
	s, _ := newTestSession(t)
	style := Style{StrokeARGB: 0xFFFF0000, StrokeWidth: 1}

	s.AddShape(NewRect(0, 0, 10, 10, style))
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("expected CanRedo true before new Add")
	}
	s.AddShape(NewRect(5, 5, 10, 10, style))
	if s.CanRedo() {
		t.Fatal("expected CanRedo false after a new Add clears the redo log")
	}
}

func TestUndoEmptyLogFails(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.Undo()
	if err == nil {
		t.Fatal("expected error undoing empty log")
	}
	if err.Code != pgerr.AnnotationFailed {
		t.Fatalf("expected AnnotationFailed, got %v", err.Code)
	}
}

func TestRedoEmptyLogFails(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.Redo()
	if err == nil {
		t.Fatal("expected error redoing empty log")
	}
	if err.Code != pgerr.AnnotationFailed {
		t.Fatalf("expected AnnotationFailed, got %v", err.Code)
	}
}

func TestGetResultMatchesBaseDimensions(t *testing.T) {
	s, base := newTestSession(t)
	result := s.GetResult()
	if result.Width() != base.Width() || result.Height() != base.Height() {
		t.Fatalf("result dims %dx%d != base dims %dx%d", result.Width(), result.Height(), base.Width(), base.Height())
	}
}

func TestMosaicEffectAppliesToComposite(t *testing.T) {
	s, _ := newTestSession(t)
	// Paint a distinguishable pixel pattern directly on the base by adding
	// a filled rect first, then mosaic over it.
	style := Style{StrokeARGB: 0xFFFFFFFF, FillARGB: 0xFFFFFFFF, StrokeWidth: 1, Filled: true}
	s.AddShape(NewRect(0, 0, 20, 20, style))
	s.AddShape(NewMosaicRegion(0, 0, 20, 20, 5))

	result := s.GetResult()
	_, _, _, a := result.At(2, 2)
	if a == 0 {
		t.Fatal("expected mosaic region to retain opaque alpha from the filled rect")
	}
}

func TestExportIsIndependentCopy(t *testing.T) {
	s, _ := newTestSession(t)
	style := Style{StrokeARGB: 0xFFFF0000, StrokeWidth: 1}
	s.AddShape(NewRect(0, 0, 10, 10, style))

	exported := s.Export()
	before := append([]byte(nil), exported.Bytes()...)
	s.AddShape(NewRect(20, 20, 10, 10, style))

	if exported.Width() != s.GetResult().Width() {
		t.Fatal("dimensions should not change")
	}
	if exported == s.GetResult() {
		t.Fatal("Export should return a copy, not the live composite")
	}
	if string(exported.Bytes()) != string(before) {
		t.Fatal("exported image changed after a later AddShape")
	}
}

func TestPencilRejectsTooFewPoints(t *testing.T) {
	s, _ := newTestSession(t)
	style := Style{StrokeARGB: 0xFFFF0000, StrokeWidth: 1}
	_, err := s.AddShape(NewPencil([]Point{{X: 0, Y: 0}}, style))
	if err == nil {
		t.Fatal("expected error for pencil shape with fewer than 2 points")
	}
}
