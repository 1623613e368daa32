package pgcontext

import (
	"errors"
	"testing"

	"github.com/pixelgrab/pixelgrab/internal/capture"
	"github.com/pixelgrab/pixelgrab/internal/history"
	pgimage "github.com/pixelgrab/pixelgrab/internal/image"
	"github.com/pixelgrab/pixelgrab/internal/pin"
	"github.com/pixelgrab/pixelgrab/internal/snap"
)

// fakeBackend is a minimal in-memory capture.Backend for exercising the
// composition root without a real display.
type fakeBackend struct {
	screens []capture.ScreenInfo
	windows []capture.WindowInfo
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		screens: []capture.ScreenInfo{{Index: 0, Width: 1920, Height: 1080, IsPrimary: true, Name: "fake-0"}},
		windows: []capture.WindowInfo{{ID: 7, X: 10, Y: 10, W: 200, H: 100, IsVisible: true, Title: "Notes"}},
	}
}

func (f *fakeBackend) Initialize() error { return nil }
func (f *fakeBackend) Shutdown()         {}
func (f *fakeBackend) GetScreens() ([]capture.ScreenInfo, error) {
	return f.screens, nil
}
func (f *fakeBackend) CaptureScreen(index int) (*pgimage.Image, error) {
	if index < 0 || index >= len(f.screens) {
		return nil, errors.New("bad index")
	}
	s := f.screens[index]
	img, _ := pgimage.Create(s.Width, s.Height, pgimage.FormatBGRA8)
	return img, nil
}
func (f *fakeBackend) CaptureRegion(x, y, w, h int) (*pgimage.Image, error) {
	img, _ := pgimage.Create(w, h, pgimage.FormatBGRA8)
	return img, nil
}
func (f *fakeBackend) CaptureWindow(id uintptr) (*pgimage.Image, error) {
	for _, w := range f.windows {
		if w.ID == id {
			img, _ := pgimage.Create(w.W, w.H, pgimage.FormatBGRA8)
			return img, nil
		}
	}
	return nil, errors.New("unknown window")
}
func (f *fakeBackend) EnumerateWindows() ([]capture.WindowInfo, error) {
	return f.windows, nil
}
func (f *fakeBackend) EnableDpiAwareness() bool { return true }
func (f *fakeBackend) GetDpiInfo(index int) (capture.DpiInfo, error) {
	return capture.DpiInfo{ScaleX: 1, ScaleY: 1, DpiX: 96, DpiY: 96}, nil
}

var testClock int64

func newTestContext() *Context {
	backend := newFakeBackend()
	ctx := &Context{
		capture: backend,
		pins:    pin.NewManager(),
		history: history.New(func() int64 { testClock++; return testClock }),
	}
	ctx.detector = snap.NewWindowDetector(backend)
	ctx.snapper = snap.NewEngine(ctx.detector)
	return ctx
}

func TestCaptureRegionRecordsHistory(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.CaptureRegion(10, 20, 30, 40); err != nil {
		t.Fatalf("CaptureRegion: %v", err)
	}
	if _, err := ctx.CaptureRegion(50, 60, 70, 80); err != nil {
		t.Fatalf("CaptureRegion: %v", err)
	}

	if got := ctx.HistoryCount(); got != 2 {
		t.Fatalf("HistoryCount = %d, want 2", got)
	}
	e0, _ := ctx.HistoryGetEntry(0)
	if e0.X != 50 || e0.Y != 60 || e0.W != 70 || e0.H != 80 {
		t.Fatalf("entry 0 = %+v, want 50,60,70,80", e0)
	}
	e1, _ := ctx.HistoryGetEntry(1)
	if e1.X != 10 || e1.Y != 20 {
		t.Fatalf("entry 1 = %+v, want 10,20,...", e1)
	}

	ctx.HistorySetMaxCount(1)
	if got := ctx.HistoryCount(); got != 1 {
		t.Fatalf("HistoryCount after SetMaxCount(1) = %d, want 1", got)
	}
	e0, _ = ctx.HistoryGetEntry(0)
	if e0.X != 50 || e0.Y != 60 {
		t.Fatalf("most recent entry not preserved after shrink: %+v", e0)
	}
}

func TestCaptureRegionInvalidDims(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.CaptureRegion(0, 0, 0, 10); err == nil {
		t.Fatal("expected error for non-positive width")
	}
	if ctx.LastError() == nil {
		t.Fatal("expected LastError to be set")
	}
}

func TestGetMagnifierRange(t *testing.T) {
	ctx := newTestContext()
	if _, err := ctx.GetMagnifier(100, 100, 5, 1); err == nil {
		t.Fatal("expected error for magnification below range")
	}
	if _, err := ctx.GetMagnifier(100, 100, 5, 33); err == nil {
		t.Fatal("expected error for magnification above range")
	}
	img, err := ctx.GetMagnifier(100, 100, 5, 4)
	if err != nil {
		t.Fatalf("GetMagnifier: %v", err)
	}
	wantSide := (5*2 + 1) * 4
	if img.Width() != wantSide || img.Height() != wantSide {
		t.Fatalf("magnifier size = %dx%d, want %dx%d", img.Width(), img.Height(), wantSide, wantSide)
	}
}

func TestPinLifecycle(t *testing.T) {
	ctx := newTestContext()
	img, _ := pgimage.Create(40, 40, pgimage.FormatBGRA8)

	idA := ctx.Pins().PinImage(img, 100, 200)
	if idA <= 0 {
		t.Fatalf("PinImage returned %d", idA)
	}
	if ctx.Pins().Count() != 1 {
		t.Fatalf("Count = %d, want 1", ctx.Pins().Count())
	}
	info, pgErr := ctx.Pins().GetInfo(idA)
	if pgErr != nil {
		t.Fatalf("GetInfo: %v", pgErr)
	}
	if info.X != 100 || info.Y != 200 || info.W != 40 || info.H != 40 {
		t.Fatalf("GetInfo = %+v", info)
	}

	idB := ctx.Pins().Duplicate(idA, 30, 30)
	if idB == idA || idB <= 0 {
		t.Fatalf("Duplicate returned %d", idB)
	}
	infoB, _ := ctx.Pins().GetInfo(idB)
	if infoB.X != 130 || infoB.Y != 230 {
		t.Fatalf("duplicate origin = %d,%d want 130,230", infoB.X, infoB.Y)
	}

	ctx.Pins().DestroyAll()
	if ctx.Pins().Count() != 0 {
		t.Fatalf("Count after DestroyAll = %d, want 0", ctx.Pins().Count())
	}
}

func TestCaptureScreenExcludePinsRestoresVisibility(t *testing.T) {
	ctx := newTestContext()
	img, _ := pgimage.Create(10, 10, pgimage.FormatBGRA8)
	id := ctx.Pins().PinImage(img, 0, 0)

	if _, err := ctx.CaptureScreenExcludePins(0); err != nil {
		t.Fatalf("CaptureScreenExcludePins: %v", err)
	}
	info, _ := ctx.Pins().GetInfo(id)
	if !info.Visible {
		t.Fatal("pin should be visible again after excluded capture")
	}
}

func TestDetectElementAndSnap(t *testing.T) {
	ctx := newTestContext()
	info, err := ctx.DetectElement(50, 50)
	if err != nil {
		t.Fatalf("DetectElement: %v", err)
	}
	if info.Role != "window" {
		t.Fatalf("Role = %q, want window", info.Role)
	}

	if _, err := ctx.DetectElement(5000, 5000); err == nil {
		t.Fatal("expected NoElement error for a point with no window")
	}

	rect, snapErr := ctx.SnapToElement(207, 60, 0)
	if snapErr != nil {
		t.Fatalf("expected a snap near the window's right edge: %v", snapErr)
	}
	if rect.W != 200 {
		t.Fatalf("snapped rect = %+v", rect)
	}
}

func TestSetTranslateConfigZeroesPreviousSecret(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.SetTranslateConfig(TranslateConfig{Provider: "acme", AppID: "id-1", SecretKey: "first-secret"}); err != nil {
		t.Fatalf("SetTranslateConfig: %v", err)
	}
	first := ctx.translateCfg.SecretKey
	if first.Reveal() != "first-secret" {
		t.Fatalf("Reveal() = %q, want first-secret", first.Reveal())
	}

	if err := ctx.SetTranslateConfig(TranslateConfig{Provider: "acme", AppID: "id-2", SecretKey: "second-secret"}); err != nil {
		t.Fatalf("SetTranslateConfig: %v", err)
	}
	if !first.IsZeroed() {
		t.Fatal("previous secret should be zeroed after SetTranslateConfig replaces it")
	}
	if ctx.translateCfg.SecretKey.Reveal() != "second-secret" {
		t.Fatalf("Reveal() = %q, want second-secret", ctx.translateCfg.SecretKey.Reveal())
	}
}

func TestCaptureAllScreens(t *testing.T) {
	backend := newFakeBackend()
	backend.screens = []capture.ScreenInfo{
		{Index: 0, Width: 1920, Height: 1080, IsPrimary: true, Name: "fake-0"},
		{Index: 1, Width: 1280, Height: 720, Name: "fake-1"},
		{Index: 2, Width: 2560, Height: 1440, Name: "fake-2"},
	}
	ctx := &Context{capture: backend, pins: pin.NewManager(), history: history.New(func() int64 { return 0 })}
	ctx.detector = snap.NewWindowDetector(backend)
	ctx.snapper = snap.NewEngine(ctx.detector)

	imgs, err := ctx.CaptureAllScreens()
	if err != nil {
		t.Fatalf("CaptureAllScreens: %v", err)
	}
	if len(imgs) != 3 {
		t.Fatalf("len(imgs) = %d, want 3", len(imgs))
	}
	for i, want := range backend.screens {
		if imgs[i].Width() != want.Width || imgs[i].Height() != want.Height {
			t.Fatalf("screen %d: got %dx%d, want %dx%d", i, imgs[i].Width(), imgs[i].Height(), want.Width, want.Height)
		}
	}
}
